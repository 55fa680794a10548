// Package redis 提供缓存读写和异步任务提交能力
// Service 层只依赖本包定义的接口，测试可注入桩实现
package redis

import "time"

// CacheService 缓存读写接口
type CacheService interface {
	// GetKey 读取缓存，键不存在返回 redis.Nil 错误
	GetKey(key string) (string, error)
	// SetKeyEx 写入缓存并设置过期时间
	SetKeyEx(key, value string, expire time.Duration) error
	// DelKeys 删除一批缓存键
	DelKeys(keys ...string) error
	// DelKeysWithPattern 按模式删除缓存键，用于失效某聊天/用户的全部派生缓存
	DelKeysWithPattern(pattern string) error
}

// AsyncCacheService 带异步任务提交的缓存接口
// 写路径上的缓存失效通过 SubmitTask 提交，不阻塞业务事务
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交后台任务；任务队列满时降级为同步执行
	SubmitTask(task func())
}
