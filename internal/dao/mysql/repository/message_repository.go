package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// messageRepository 消息 Repository 实现
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 追加消息
func (r *messageRepository) Create(msg *model.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return wrapDBErrorf(err, "写入消息失败: chat=%s", msg.ChatUuid)
	}
	return nil
}

// FindByChatUuid 查找聊天全部消息
// (send_at, uuid) 正序，保证同一秒内多条消息的顺序稳定
func (r *messageRepository) FindByChatUuid(chatUuid string) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.Where("chat_uuid = ?", chatUuid).
		Order("send_at ASC, uuid ASC").
		Find(&msgs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息失败: chat=%s", chatUuid)
	}
	return msgs, nil
}

// FindPageByChatUuid 按偏移量查找一段消息
func (r *messageRepository) FindPageByChatUuid(chatUuid string, offset, limit int) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.Where("chat_uuid = ?", chatUuid).
		Order("send_at ASC, uuid ASC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息失败: chat=%s offset=%d", chatUuid, offset)
	}
	return msgs, nil
}

// CountByChatUuid 统计聊天消息条数
func (r *messageRepository) CountByChatUuid(chatUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Where("chat_uuid = ?", chatUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计消息数失败: chat=%s", chatUuid)
	}
	return count, nil
}

// DeleteByChatUuid 物理删除聊天全部消息
func (r *messageRepository) DeleteByChatUuid(chatUuid string) error {
	if err := r.db.Unscoped().
		Where("chat_uuid = ?", chatUuid).
		Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "删除消息失败: chat=%s", chatUuid)
	}
	return nil
}

// CountBySender 统计用户发出的消息数
func (r *messageRepository) CountBySender(login string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Where("sender = ?", login).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计发送消息数失败: sender=%s", login)
	}
	return count, nil
}
