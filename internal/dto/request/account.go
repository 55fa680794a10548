// Package request 定义 HTTP 请求体结构
// binding 标签由 gin + validator 在绑定时校验
package request

// RegisterRequest 注册请求
type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=2,max=50"`  // 登录名
	Password string `json:"password" binding:"required,min=6,max=50"` // 明文密码
	PhoneNum string `json:"phoneNum" binding:"omitempty,e164"`      // 电话，可选
}

// LoginRequest 登录请求
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateStatusRequest 修改状态签名请求
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"max=140"`                      // 新状态签名，可为空串
	Confirm string `json:"confirm" binding:"required,oneof=confirm cancel"` // 确认枚举
}

// DeleteAccountRequest 删除账号请求
// onConflict 决定账号仍被引用时的处理方式：
// abort 直接报错；softDisable 用哨兵值覆盖密码永久锁定账号
type DeleteAccountRequest struct {
	Password   string `json:"password" binding:"required"`
	OnConflict string `json:"onConflict" binding:"required,oneof=abort softDisable"`
}
