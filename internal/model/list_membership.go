package model

import "gorm.io/gorm"

// ListMembership 列表成员关联表
// (list_uuid, member) 组合唯一，重复插入会触发唯一索引冲突，
// 作为并发重复添加的最后防线
type ListMembership struct {
	gorm.Model
	ListUuid string `gorm:"column:list_uuid;uniqueIndex:idx_list_member;type:char(20);not null;comment:列表ID"`
	Member   string `gorm:"column:member;uniqueIndex:idx_list_member;index;type:varchar(50);not null;comment:成员登录名"`
}

func (ListMembership) TableName() string {
	return "user_list_contains"
}
