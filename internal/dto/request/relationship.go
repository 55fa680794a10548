package request

// ListMemberRequest 列表成员增删请求
// kind 选择操作联系人列表还是屏蔽列表
type ListMemberRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=contact block"` // 列表类别
	Target string `json:"target" binding:"required"`                   // 目标用户登录名
}
