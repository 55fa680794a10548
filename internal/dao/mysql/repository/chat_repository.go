package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// chatRepository 聊天 Repository 实现
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天 Repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create 创建聊天
func (r *chatRepository) Create(chat *model.Chat) error {
	if err := r.db.Create(chat).Error; err != nil {
		return wrapDBErrorf(err, "创建聊天失败: uuid=%s", chat.Uuid)
	}
	return nil
}

// FindByUuid 根据 UUID 查找聊天
func (r *chatRepository) FindByUuid(uuid string) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Where("uuid = ?", uuid).First(&chat).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天失败: uuid=%s", uuid)
	}
	return &chat, nil
}

// FindByUuidForUpdate 根据 UUID 查找聊天并加行锁
// 必须在事务内调用，锁随事务提交/回滚释放
// SQLite 方言不支持 FOR UPDATE，整库写锁已保证串行，退化为普通查询
func (r *chatRepository) FindByUuidForUpdate(uuid string) (*model.Chat, error) {
	query := r.db
	if r.db.Dialector.Name() == "mysql" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var chat model.Chat
	if err := query.Where("uuid = ?", uuid).First(&chat).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天失败: uuid=%s", uuid)
	}
	return &chat, nil
}

// UpdateType 更新聊天类型
func (r *chatRepository) UpdateType(uuid, chatType string) error {
	res := r.db.Model(&model.Chat{}).Where("uuid = ?", uuid).Update("chat_type", chatType)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新聊天类型失败: uuid=%s", uuid)
	}
	if res.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "聊天不存在")
	}
	return nil
}

// HardDeleteByUuid 物理删除聊天记录
func (r *chatRepository) HardDeleteByUuid(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.Chat{}).Error; err != nil {
		return wrapDBErrorf(err, "删除聊天失败: uuid=%s", uuid)
	}
	return nil
}

// CountByInitSender 统计用户发起的聊天数
func (r *chatRepository) CountByInitSender(login string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Chat{}).Where("init_sender = ?", login).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计发起聊天数失败: login=%s", login)
	}
	return count, nil
}

// FindSummariesByMember 查找用户可见的聊天概要
// 联表聊天成员表过滤可见性，子查询取每个聊天最近一条消息的时间
// 左联保证没有消息的聊天也可见（欢迎消息写入失败时），回退到创建时间排序
func (r *chatRepository) FindSummariesByMember(member string) ([]ChatSummary, error) {
	var rows []ChatSummary
	err := r.db.Table("chat").
		Select("chat.uuid AS chat_uuid, chat.chat_type AS chat_type, chat.init_sender AS init_sender, COALESCE(latest.last_at, chat.created_at) AS last_message_at").
		Joins("JOIN chat_list ON chat_list.chat_uuid = chat.uuid AND chat_list.deleted_at IS NULL").
		Joins("LEFT JOIN (SELECT chat_uuid, MAX(send_at) AS last_at FROM message WHERE deleted_at IS NULL GROUP BY chat_uuid) latest ON latest.chat_uuid = chat.uuid").
		Where("chat_list.member = ? AND chat.deleted_at IS NULL", member).
		Order("COALESCE(latest.last_at, chat.created_at) ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询可见聊天失败: member=%s", member)
	}
	return rows, nil
}
