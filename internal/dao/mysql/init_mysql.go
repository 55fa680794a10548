// Package mysql 负责 MySQL 数据库的初始化
// 建立连接、自动迁移表结构并创建 Repository 聚合
package mysql

import (
	"fmt"

	"kite_messenger_server/internal/config"
	"kite_messenger_server/internal/dao/mysql/repository"
	"kite_messenger_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init 初始化 MySQL 连接并完成自动迁移
// 返回 Repository 聚合供 Service 层使用
func Init(conf *config.Config) (*repository.Repositories, error) {
	// 1. 拼接 DSN，带读写超时，避免坏连接无限阻塞
	mysqlConf := conf.MysqlConfig
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s&readTimeout=10s&writeTimeout=10s",
		mysqlConf.User, mysqlConf.Password, mysqlConf.Host, mysqlConf.Port, mysqlConf.DatabaseName)

	// 2. 建立连接
	// TranslateError 将驱动层的唯一索引冲突翻译成 gorm.ErrDuplicatedKey，
	// Repository 层依赖该翻译做并发重复写入的兜底判断
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		zap.L().Error("连接 MySQL 失败", zap.Error(err))
		return nil, err
	}

	// 3. 自动迁移表结构
	if err := migrate(db); err != nil {
		return nil, err
	}

	zap.L().Info("MySQL 初始化成功",
		zap.String("host", mysqlConf.Host),
		zap.String("database", mysqlConf.DatabaseName))
	return repository.NewRepositories(db), nil
}

// InitWithDB 基于已有连接创建 Repository 聚合
// 测试用该入口注入内存 SQLite
func InitWithDB(db *gorm.DB) (*repository.Repositories, error) {
	if err := migrate(db); err != nil {
		return nil, err
	}
	return repository.NewRepositories(db), nil
}

// migrate 自动迁移全部模型
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.UserList{},
		&model.ListMembership{},
		&model.Chat{},
		&model.ChatMember{},
		&model.Message{},
	)
	if err != nil {
		zap.L().Error("自动迁移表结构失败", zap.Error(err))
		return err
	}
	return nil
}
