package model

import (
	"gorm.io/gorm"
)

// UserList 个人列表模型
// kind 在创建时确定为 contact 或 block，之后不再变更；
// 一张列表只属于一个用户（由 usr 表的两列引用确定归属）
type UserList struct {
	gorm.Model
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:列表唯一id"`
	Kind string `gorm:"column:kind;type:varchar(10);not null;comment:列表类型，contact/block"`
}

func (UserList) TableName() string {
	return "user_list"
}
