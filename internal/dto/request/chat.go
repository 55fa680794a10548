package request

// CreateChatRequest 创建聊天请求
// members 为除发起者外的候选成员，允许为空（创建只有发起人的聊天）
type CreateChatRequest struct {
	Members []string `json:"members" binding:"omitempty,dive,required"`
}

// ChatMemberRequest 聊天成员增删请求
type ChatMemberRequest struct {
	ChatUuid string `json:"chatUuid" binding:"required"`
	Member   string `json:"member" binding:"required"`
}

// DeleteChatRequest 删除聊天请求
type DeleteChatRequest struct {
	ChatUuid string `json:"chatUuid" binding:"required"`
	Confirm  string `json:"confirm" binding:"required,oneof=confirm cancel"` // 确认枚举
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	ChatUuid string `json:"chatUuid" binding:"required"`
	Content  string `json:"content" binding:"required,max=2000"`
}
