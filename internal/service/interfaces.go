// Package service 定义业务服务接口
// Handler 层只依赖本包接口，具体实现在 account / relationship / chat 子包
package service

import (
	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/dto/respond"
)

// AccountService 账号生命周期服务
type AccountService interface {
	// Register 注册新用户，连同两张个人列表一起创建
	Register(req *request.RegisterRequest) error
	// Login 校验凭证并签发访问令牌
	Login(req *request.LoginRequest) (*respond.LoginRespond, error)
	// UpdateStatus 修改状态签名；confirm 为 cancel 时不做任何修改
	UpdateStatus(login, status, confirm string) error
	// DeleteAccount 删除账号
	// 账号无任何外部引用时物理删除（连同两张个人列表）；
	// 仍被引用时按 onConflict 决定报错还是软禁用
	DeleteAccount(login, password, onConflict string) (*respond.DeleteAccountRespond, error)
}

// RelationshipService 联系人/屏蔽关系服务
type RelationshipService interface {
	// AddToList 把目标用户加入操作者的联系人或屏蔽列表
	AddToList(owner, kind, target string) error
	// RemoveFromList 把目标用户移出操作者的列表
	RemoveFromList(owner, kind, target string) error
	// ViewList 查看列表成员及其状态签名
	ViewList(owner, kind string) (*respond.ListMembersRespond, error)
}

// ChatService 聊天生命周期与消息服务
type ChatService interface {
	// CreateChat 创建聊天，逐个添加候选成员并发送欢迎消息
	CreateChat(initiator string, members []string) (*respond.CreateChatRespond, error)
	// AddMember 发起人向聊天添加成员
	AddMember(actor, chatUuid, member string) error
	// RemoveMember 发起人从聊天移除成员
	RemoveMember(actor, chatUuid, member string) error
	// DeleteChat 发起人删除聊天，级联删除成员关系和消息
	// confirm 为 cancel 时不做任何修改
	DeleteChat(actor, chatUuid, confirm string) error
	// ViewChats 查看用户可见的聊天列表
	ViewChats(login string) (*respond.ChatListRespond, error)
	// ViewChatMembers 查看聊天成员
	ViewChatMembers(login, chatUuid string) (*respond.ChatMembersRespond, error)
	// SendMessage 向聊天追加一条消息
	SendMessage(sender, chatUuid, content string) (*respond.MessageRespond, error)
	// ViewMessages 按页查看聊天记录，页码从最新往回数
	ViewMessages(login, chatUuid string, page int) (*respond.MessagePageRespond, error)
}
