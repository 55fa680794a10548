// Package router 组装 gin 引擎与路由
package router

import (
	"time"

	"kite_messenger_server/internal/config"
	"kite_messenger_server/internal/handler"
	"kite_messenger_server/internal/infrastructure/logger"
	"kite_messenger_server/internal/infrastructure/middleware"
	"kite_messenger_server/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Setup 创建 gin 引擎并注册全部路由
func Setup(conf *config.Config, services *service.Provider) *gin.Engine {
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery(true))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	accountHandler := handler.NewAccountHandler(services.Account)
	relationshipHandler := handler.NewRelationshipHandler(services.Relationship)
	chatHandler := handler.NewChatHandler(services.Chat)

	api := r.Group("/api")

	// 无需认证的入口
	account := api.Group("/account")
	{
		account.POST("/register", accountHandler.Register)
		account.POST("/login", accountHandler.Login)
	}

	// 其余接口走 JWT 认证
	auth := api.Group("", middleware.JWTAuth())
	{
		auth.PUT("/account/status", accountHandler.UpdateStatus)
		auth.POST("/account/delete", accountHandler.DeleteAccount)

		auth.GET("/lists", relationshipHandler.ViewList)
		auth.POST("/lists/members", relationshipHandler.AddMember)
		auth.DELETE("/lists/members", relationshipHandler.RemoveMember)

		auth.POST("/chats", chatHandler.CreateChat)
		auth.GET("/chats", chatHandler.ViewChats)
		auth.DELETE("/chats", chatHandler.DeleteChat)
		auth.POST("/chats/members", chatHandler.AddMember)
		auth.DELETE("/chats/members", chatHandler.RemoveMember)
		auth.GET("/chats/:uuid/members", chatHandler.ViewMembers)
		auth.GET("/chats/:uuid/messages", chatHandler.ViewMessages)
		auth.POST("/messages", chatHandler.SendMessage)
	}

	return r
}
