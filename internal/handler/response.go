// Package handler 实现 HTTP 处理层
// 统一响应格式: {"code": 业务码, "message": 描述, "data": 载荷}
package handler

import (
	"errors"
	"net/http"

	"kite_messenger_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errorx.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败响应
// 业务错误透出自身的码和消息，未知错误统一为服务繁忙
func Fail(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		c.JSON(http.StatusOK, Response{
			Code:    codeErr.Code,
			Message: codeErr.Msg,
		})
		return
	}
	zap.L().Error("未归类的处理错误", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusOK, Response{
		Code:    errorx.CodeServerBusy,
		Message: "服务繁忙",
	})
}

// FailInvalidParam 参数校验失败响应
func FailInvalidParam(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errorx.CodeInvalidParam,
		Message: msg,
	})
}
