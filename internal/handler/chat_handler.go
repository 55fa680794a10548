package handler

import (
	"strconv"

	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/infrastructure/middleware"
	"kite_messenger_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler 聊天与消息相关接口
type ChatHandler struct {
	svc service.ChatService
}

// NewChatHandler 创建聊天 Handler
func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// CreateChat 创建聊天
// POST /api/chats
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req request.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	rsp, err := h.svc.CreateChat(middleware.GetLogin(c), req.Members)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}

// ViewChats 查看可见聊天列表
// GET /api/chats
func (h *ChatHandler) ViewChats(c *gin.Context) {
	rsp, err := h.svc.ViewChats(middleware.GetLogin(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}

// AddMember 向聊天添加成员
// POST /api/chats/members
func (h *ChatHandler) AddMember(c *gin.Context) {
	var req request.ChatMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.AddMember(middleware.GetLogin(c), req.ChatUuid, req.Member); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// RemoveMember 从聊天移除成员
// DELETE /api/chats/members
func (h *ChatHandler) RemoveMember(c *gin.Context) {
	var req request.ChatMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.RemoveMember(middleware.GetLogin(c), req.ChatUuid, req.Member); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// DeleteChat 删除聊天
// DELETE /api/chats
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	var req request.DeleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.DeleteChat(middleware.GetLogin(c), req.ChatUuid, req.Confirm); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// ViewMembers 查看聊天成员
// GET /api/chats/:uuid/members
func (h *ChatHandler) ViewMembers(c *gin.Context) {
	rsp, err := h.svc.ViewChatMembers(middleware.GetLogin(c), c.Param("uuid"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}

// SendMessage 发送消息
// POST /api/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	rsp, err := h.svc.SendMessage(middleware.GetLogin(c), req.ChatUuid, req.Content)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}

// ViewMessages 分页查看聊天记录
// GET /api/chats/:uuid/messages?page=1
// 第 1 页是最近的一窗消息，页码越大越早
func (h *ChatHandler) ViewMessages(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		FailInvalidParam(c, "page 必须是正整数")
		return
	}
	rsp, err := h.svc.ViewMessages(middleware.GetLogin(c), c.Param("uuid"), page)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}
