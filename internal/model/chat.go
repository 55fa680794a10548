// Package model 定义数据库实体模型
// 本文件定义聊天模型，聊天类型是成员数的派生属性：
// 两人以内为 private，三人及以上为 group
package model

import (
	"gorm.io/gorm"
)

// Chat 聊天模型
// 对应数据库 chat 表
// 创建时类型恒为 private 且只有发起人一个成员；
// 成员增减触发 private/group 之间的自动切换，
// 成员数降到 1 时整个聊天连同消息一起被级联删除
type Chat struct {
	gorm.Model

	// Uuid 聊天唯一标识
	// 格式：C + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:聊天唯一id"`

	// ChatType 聊天类型，private 或 group
	ChatType string `gorm:"column:chat_type;type:varchar(10);not null;comment:聊天类型"`

	// InitSender 发起人登录名
	// 只有发起人有权在创建后增删成员或删除聊天
	InitSender string `gorm:"column:init_sender;index;type:varchar(50);not null;comment:发起人"`
}

func (Chat) TableName() string {
	return "chat"
}
