package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// chatMemberRepository 聊天成员 Repository 实现
type chatMemberRepository struct {
	db *gorm.DB
}

// NewChatMemberRepository 创建聊天成员 Repository
func NewChatMemberRepository(db *gorm.DB) ChatMemberRepository {
	return &chatMemberRepository{db: db}
}

// FindByChatAndMember 查找聊天中的某成员
func (r *chatMemberRepository) FindByChatAndMember(chatUuid, member string) (*model.ChatMember, error) {
	var m model.ChatMember
	if err := r.db.Where("chat_uuid = ? AND member = ?", chatUuid, member).First(&m).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天成员失败: chat=%s member=%s", chatUuid, member)
	}
	return &m, nil
}

// FindMembers 查找聊天全部成员登录名
func (r *chatMemberRepository) FindMembers(chatUuid string) ([]string, error) {
	var members []string
	if err := r.db.Model(&model.ChatMember{}).
		Where("chat_uuid = ?", chatUuid).
		Order("member ASC").
		Pluck("member", &members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天成员失败: chat=%s", chatUuid)
	}
	return members, nil
}

// CountByChatUuid 统计聊天当前成员数
func (r *chatMemberRepository) CountByChatUuid(chatUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ChatMember{}).Where("chat_uuid = ?", chatUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计聊天成员数失败: chat=%s", chatUuid)
	}
	return count, nil
}

// Create 添加聊天成员
func (r *chatMemberRepository) Create(m *model.ChatMember) error {
	if err := r.db.Create(m).Error; err != nil {
		return wrapDBErrorf(err, "添加聊天成员失败: chat=%s member=%s", m.ChatUuid, m.Member)
	}
	return nil
}

// Delete 物理删除聊天中的某成员
func (r *chatMemberRepository) Delete(chatUuid, member string) error {
	if err := r.db.Unscoped().
		Where("chat_uuid = ? AND member = ?", chatUuid, member).
		Delete(&model.ChatMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除聊天成员失败: chat=%s member=%s", chatUuid, member)
	}
	return nil
}

// DeleteByChatUuid 物理删除聊天全部成员
func (r *chatMemberRepository) DeleteByChatUuid(chatUuid string) error {
	if err := r.db.Unscoped().
		Where("chat_uuid = ?", chatUuid).
		Delete(&model.ChatMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除聊天成员失败: chat=%s", chatUuid)
	}
	return nil
}

// CountByMember 统计用户出现在聊天成员表中的记录数
func (r *chatMemberRepository) CountByMember(member string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ChatMember{}).Where("member = ?", member).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计聊天成员记录失败: member=%s", member)
	}
	return count, nil
}
