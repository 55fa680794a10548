// Package model 定义数据库实体模型
// 本文件定义消息模型，消息一经写入不可修改，
// 只随所属聊天的级联删除一起消失
package model

import (
	"time"

	"gorm.io/gorm"
)

// Message 消息模型
// 对应数据库 message 表
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64，单节点内严格递增，
	// 同一聊天内 (send_at, uuid) 构成严格单调的排序键
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// ChatUuid 所属聊天 UUID
	ChatUuid string `gorm:"column:chat_uuid;index;type:char(20);not null;comment:聊天uuid"`

	// Sender 发送者登录名
	Sender string `gorm:"column:sender;index;type:varchar(50);not null;comment:发送者"`

	// Content 消息文本内容
	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// SendAt 服务端写入时间
	SendAt time.Time `gorm:"column:send_at;index;not null;comment:发送时间"`
}

func (Message) TableName() string {
	return "message"
}
