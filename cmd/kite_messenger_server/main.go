package main

import (
	"fmt"

	"kite_messenger_server/internal/config"
	"kite_messenger_server/internal/dao/mysql"
	"kite_messenger_server/internal/dao/redis"
	"kite_messenger_server/internal/handler"
	"kite_messenger_server/internal/infrastructure/logger"
	"kite_messenger_server/internal/router"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/internal/service/account"
	"kite_messenger_server/internal/service/chat"
	"kite_messenger_server/internal/service/relationship"
	"kite_messenger_server/pkg/util/jwt"
	"kite_messenger_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(conf); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}
	defer zap.L().Sync() //nolint: errcheck

	// 3. 初始化基础组件
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.TokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化参数校验翻译器失败", zap.Error(err))
	}

	// 4. 初始化存储
	repos, err := mysql.Init(conf)
	if err != nil {
		zap.L().Fatal("初始化 MySQL 失败", zap.Error(err))
	}
	if err := redis.Init(conf); err != nil {
		zap.L().Fatal("初始化 Redis 失败", zap.Error(err))
	}
	cache := redis.NewRedisCache(redis.GetRedisClient())
	defer cache.Close()

	// 5. 组装服务
	services := &service.Provider{
		Account:      account.NewAccountService(repos, cache),
		Relationship: relationship.NewRelationshipService(repos, cache),
		Chat:         chat.NewChatService(repos, cache),
	}

	// 6. 启动 HTTP 服务
	engine := router.Setup(conf, services)
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	zap.L().Info("服务启动", zap.String("app", conf.MainConfig.AppName), zap.String("addr", addr))
	if err := engine.Run(addr); err != nil {
		zap.L().Fatal("服务退出", zap.Error(err))
	}
}
