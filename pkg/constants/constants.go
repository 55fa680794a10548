package constants

import "time"

// 聊天类型
const (
	CHAT_TYPE_PRIVATE = "private" // 两人以内的会话
	CHAT_TYPE_GROUP   = "group"   // 三人及以上的会话
)

// 列表类型，创建后不可变更
const (
	LIST_KIND_CONTACT = "contact" // 联系人列表
	LIST_KIND_BLOCK   = "block"   // 屏蔽列表
)

// 操作确认枚举
// 取代交互式的 y/n 重复询问，调用方一次性给出明确意图
const (
	CONFIRM_PROCEED = "confirm" // 执行操作
	CONFIRM_CANCEL  = "cancel"  // 放弃操作，什么都不改
)

// MESSAGE_PAGE_SIZE 查看聊天记录时单页消息条数
// 翻页从最新一页开始，每页内按时间正序展示
const MESSAGE_PAGE_SIZE = 10

// WELCOME_MESSAGE 建群完成后由发起人自动发送的第一条消息
const WELCOME_MESSAGE = "Welcome to the chat!"

// DISABLED_PASSWORD_SENTINEL 软禁用账号时写入的密码哨兵值
// 不是合法的 bcrypt 哈希，任何登录口令都无法与其匹配，
// 账号因此永久失效，但其发起的聊天和消息全部保留
const DISABLED_PASSWORD_SENTINEL = "!JbB_3a#A)BG?1"

// REDIS_TIMEOUT 单次 Redis 操作超时（秒数）
const REDIS_TIMEOUT = 30

// CACHE_TTL 读穿透回填缓存的默认过期时间
const CACHE_TTL = 30 * time.Minute

// 缓存 Worker Pool 默认参数
const (
	CACHE_WORKER_NUM  = 4
	CACHE_BUFFER_SIZE = 256
)
