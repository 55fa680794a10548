package redis

import "fmt"

// 缓存键命名规范
// 统一前缀方便按模式批量失效

// UserInfoKey 用户信息缓存键
func UserInfoKey(login string) string {
	return fmt.Sprintf("kite:user_info:%s", login)
}

// ListMembersKey 列表成员缓存键
func ListMembersKey(listUuid string) string {
	return fmt.Sprintf("kite:list_members:%s", listUuid)
}

// ChatMembersKey 聊天成员缓存键
func ChatMembersKey(chatUuid string) string {
	return fmt.Sprintf("kite:chat_members:%s", chatUuid)
}

// ChatSummariesKey 用户可见聊天列表缓存键
func ChatSummariesKey(login string) string {
	return fmt.Sprintf("kite:user_chats:%s", login)
}

// ChatSummariesPattern 全部用户聊天列表缓存的匹配模式
// 聊天成员增删会影响多个用户的可见列表，按模式整体失效
func ChatSummariesPattern() string {
	return "kite:user_chats:*"
}
