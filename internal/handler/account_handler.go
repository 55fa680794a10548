package handler

import (
	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/infrastructure/middleware"
	"kite_messenger_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler 账号相关接口
type AccountHandler struct {
	svc service.AccountService
}

// NewAccountHandler 创建账号 Handler
func NewAccountHandler(svc service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Register 注册
// POST /api/account/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.Register(&req); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// Login 登录
// POST /api/account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	rsp, err := h.svc.Login(&req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}

// UpdateStatus 修改状态签名
// PUT /api/account/status
func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.UpdateStatus(middleware.GetLogin(c), req.Status, req.Confirm); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// DeleteAccount 删除账号
// POST /api/account/delete
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	var req request.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	rsp, err := h.svc.DeleteAccount(middleware.GetLogin(c), req.Password, req.OnConflict)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}
