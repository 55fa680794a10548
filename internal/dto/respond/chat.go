package respond

import "time"

// FailedCandidate 创建聊天时添加失败的候选成员
type FailedCandidate struct {
	Login  string `json:"login"`
	Reason string `json:"reason"`
}

// CreateChatRespond 创建聊天响应
// 逐个候选成员报告添加结果，部分失败不影响聊天创建
type CreateChatRespond struct {
	ChatUuid string            `json:"chatUuid"`
	ChatType string            `json:"chatType"`
	Added    []string          `json:"added"`
	Failed   []FailedCandidate `json:"failed,omitempty"`
}

// ChatSummaryRespond 聊天概要
type ChatSummaryRespond struct {
	ChatUuid      string    `json:"chatUuid"`
	ChatType      string    `json:"chatType"`
	InitSender    string    `json:"initSender"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// ChatListRespond 可见聊天列表响应
type ChatListRespond struct {
	Chats []ChatSummaryRespond `json:"chats"`
}

// ChatMembersRespond 聊天成员响应
type ChatMembersRespond struct {
	ChatUuid string   `json:"chatUuid"`
	ChatType string   `json:"chatType"`
	Members  []string `json:"members"`
}

// MessageRespond 单条消息
type MessageRespond struct {
	Uuid    int64     `json:"uuid"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	SendAt  time.Time `json:"sendAt"`
}

// MessagePageRespond 消息分页响应
// 页码从最近的消息往回数：第 1 页是最新一窗，页内消息按时间正序排列
// endOfMessages 表示再往前翻已无更早消息
type MessagePageRespond struct {
	ChatUuid      string           `json:"chatUuid"`
	Page          int              `json:"page"`
	Messages      []MessageRespond `json:"messages"`
	EndOfMessages bool             `json:"endOfMessages"`
}
