// Package model 定义数据库实体模型
// 本文件定义用户模型，包含登录凭证、状态签名及两张个人列表的引用
package model

import (
	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// User 用户模型
// 对应数据库 usr 表
// 注册时连同一张联系人列表和一张屏蔽列表一起创建，
// 两张列表由本用户独占，不与其他用户共享
type User struct {
	gorm.Model

	// Login 用户登录名，即全系统唯一身份标识
	Login string `gorm:"column:login;uniqueIndex;type:varchar(50);not null;comment:登录名"`

	// Password 密码（已哈希）
	// 存储 bcrypt 哈希后的密码，不存储明文；
	// 账号软禁用时被哨兵值覆盖，此后任何口令都无法通过校验
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// PhoneNum 注册电话
	PhoneNum string `gorm:"column:phone_num;type:varchar(20);comment:电话"`

	// Status 状态签名，由用户自由修改的展示文本
	Status string `gorm:"column:status;type:varchar(140);comment:状态签名"`

	// ContactListId 联系人列表 UUID，指向 user_list 表
	ContactListId string `gorm:"column:contact_list_id;type:char(20);not null;comment:联系人列表id"`

	// BlockListId 屏蔽列表 UUID，指向 user_list 表
	BlockListId string `gorm:"column:block_list_id;type:char(20);not null;comment:屏蔽列表id"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收调用方传来的明文，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "usr"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 Password 字段，
// 调用方只需设置 RawPassword，无需手动加密
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码是否正确
// 软禁用后的哨兵值不是合法 bcrypt 哈希，恒定返回 false
func (u *User) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
