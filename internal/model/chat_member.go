package model

import "gorm.io/gorm"

// ChatMember 聊天成员关联表
// (chat_uuid, member) 组合唯一；发起人本人也是一条成员记录
type ChatMember struct {
	gorm.Model
	ChatUuid string `gorm:"column:chat_uuid;uniqueIndex:idx_chat_member;type:char(20);not null;comment:聊天ID"`
	Member   string `gorm:"column:member;uniqueIndex:idx_chat_member;index;type:varchar(50);not null;comment:成员登录名"`
}

func (ChatMember) TableName() string {
	return "chat_list"
}
