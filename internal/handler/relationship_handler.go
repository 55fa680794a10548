package handler

import (
	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/infrastructure/middleware"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/pkg/constants"

	"github.com/gin-gonic/gin"
)

// RelationshipHandler 联系人/屏蔽列表相关接口
type RelationshipHandler struct {
	svc service.RelationshipService
}

// NewRelationshipHandler 创建关系 Handler
func NewRelationshipHandler(svc service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{svc: svc}
}

// AddMember 添加列表成员
// POST /api/lists/members
func (h *RelationshipHandler) AddMember(c *gin.Context) {
	var req request.ListMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.AddToList(middleware.GetLogin(c), req.Kind, req.Target); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// RemoveMember 移除列表成员
// DELETE /api/lists/members
func (h *RelationshipHandler) RemoveMember(c *gin.Context) {
	var req request.ListMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailInvalidParam(c, TranslateError(err))
		return
	}
	if err := h.svc.RemoveFromList(middleware.GetLogin(c), req.Kind, req.Target); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// ViewList 查看列表
// GET /api/lists?kind=contact|block
func (h *RelationshipHandler) ViewList(c *gin.Context) {
	kind := c.DefaultQuery("kind", constants.LIST_KIND_CONTACT)
	if kind != constants.LIST_KIND_CONTACT && kind != constants.LIST_KIND_BLOCK {
		FailInvalidParam(c, "kind 必须是 contact 或 block")
		return
	}
	rsp, err := h.svc.ViewList(middleware.GetLogin(c), kind)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rsp)
}
