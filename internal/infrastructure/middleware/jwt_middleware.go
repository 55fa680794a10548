// Package middleware 提供 gin 中间件
package middleware

import (
	"net/http"
	"strings"

	"kite_messenger_server/pkg/errorx"
	"kite_messenger_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextLoginKey 认证通过后操作者登录名在 gin.Context 中的键
const ContextLoginKey = "login"

// JWTAuth 认证中间件
// 从 Authorization: Bearer <token> 解析访问令牌，
// 通过后把登录名写入上下文供 Handler 取用
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "缺少认证信息")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "认证格式错误")
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "令牌无效或已过期")
			return
		}

		c.Set(ContextLoginKey, claims.Login)
		c.Next()
	}
}

// GetLogin 从上下文取当前操作者登录名
func GetLogin(c *gin.Context) string {
	return c.GetString(ContextLoginKey)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    errorx.CodeUnauthorized,
		"message": msg,
	})
}
