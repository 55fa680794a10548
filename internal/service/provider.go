package service

// Provider 聚合全部业务服务实例
// 在 main 中组装一次，注入 Handler 层
type Provider struct {
	Account      AccountService
	Relationship RelationshipService
	Chat         ChatService
}
