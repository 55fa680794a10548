// Package respond 定义 HTTP 响应体结构
package respond

// LoginRespond 登录成功响应
type LoginRespond struct {
	Login  string `json:"login"`
	Status string `json:"status"` // 当前状态签名
	Token  string `json:"token"`  // JWT 访问令牌
}

// DeleteAccountRespond 删除账号响应
// outcome: deleted 物理删除；softDisabled 哨兵锁定
type DeleteAccountRespond struct {
	Login   string `json:"login"`
	Outcome string `json:"outcome"`
}
