package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kite_messenger_server/internal/config"
	"kite_messenger_server/pkg/constants"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisClient 全局 Redis 客户端
var redisClient *redis.Client

// Init 初始化 Redis 连接并 Ping 验证
func Init(conf *config.Config) error {
	redisConf := conf.RedisConfig
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisConf.Host, redisConf.Port),
		Password: redisConf.Password,
		DB:       redisConf.Db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zap.L().Error("连接 Redis 失败", zap.Error(err))
		return err
	}
	zap.L().Info("Redis 初始化成功", zap.String("host", redisConf.Host))
	return nil
}

// GetRedisClient 获取全局 Redis 客户端
func GetRedisClient() *redis.Client {
	return redisClient
}

// RedisCache 基于 go-redis 的缓存实现
// 内置固定大小的后台工作池，缓存失效等旁路操作异步执行
type RedisCache struct {
	client   *redis.Client
	taskChan chan func()
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRedisCache 创建缓存实例并启动后台工作池
func NewRedisCache(client *redis.Client) *RedisCache {
	c := &RedisCache{
		client:   client,
		taskChan: make(chan func(), constants.CACHE_BUFFER_SIZE),
		stopChan: make(chan struct{}),
	}
	for i := 0; i < constants.CACHE_WORKER_NUM; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	return c
}

// worker 后台任务循环
func (c *RedisCache) worker() {
	defer c.wg.Done()
	for {
		select {
		case task := <-c.taskChan:
			c.runTask(task)
		case <-c.stopChan:
			// 排空剩余任务后退出
			for {
				select {
				case task := <-c.taskChan:
					c.runTask(task)
				default:
					return
				}
			}
		}
	}
}

// runTask 执行单个任务，恢复 panic 避免拖垮工作池
func (c *RedisCache) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("缓存后台任务 panic", zap.Any("recover", r))
		}
	}()
	task()
}

// SubmitTask 提交后台任务
// 队列满时降级为同步执行，保证任务不丢失
func (c *RedisCache) SubmitTask(task func()) {
	select {
	case c.taskChan <- task:
	default:
		zap.L().Warn("缓存任务队列已满，降级为同步执行")
		c.runTask(task)
	}
}

// Close 停止工作池并等待剩余任务完成
func (c *RedisCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
}

// GetKey 读取缓存
func (c *RedisCache) GetKey(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	return c.client.Get(ctx, key).Result()
}

// SetKeyEx 写入缓存并设置过期时间
func (c *RedisCache) SetKeyEx(key, value string, expire time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	return c.client.Set(ctx, key, value, expire).Err()
}

// DelKeys 删除一批缓存键
func (c *RedisCache) DelKeys(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	return c.client.Del(ctx, keys...).Err()
}

// DelKeysWithPattern 按模式删除缓存键
// 使用 SCAN 迭代，避免 KEYS 阻塞服务端
func (c *RedisCache) DelKeysWithPattern(pattern string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
