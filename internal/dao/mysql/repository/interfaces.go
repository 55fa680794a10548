// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByLogin 根据登录名查找用户
	FindByLogin(login string) (*model.User, error)
	// Create 创建新用户
	Create(user *model.User) error
	// UpdateStatus 更新状态签名
	UpdateStatus(login, status string) error
	// OverwritePassword 用哨兵值覆盖密码列（软禁用账号）
	// 直接写列，不经过 bcrypt Hook
	OverwritePassword(login, sentinel string) error
	// HardDelete 物理删除用户记录
	HardDelete(login string) error
}

// ListRepository 个人列表数据访问接口
type ListRepository interface {
	// Create 创建列表（注册时联系人/屏蔽列表各一张）
	Create(list *model.UserList) error
	// FindByUuid 根据 UUID 查找列表
	FindByUuid(uuid string) (*model.UserList, error)
	// HardDeleteByUuids 物理删除列表（随账号硬删除）
	HardDeleteByUuids(uuids []string) error
}

// ListMemberWithStatus 列表成员及其状态签名
// 联表 usr 取成员当前的状态文本，用于列表展示
type ListMemberWithStatus struct {
	Member string `json:"member"` // 成员登录名
	Status string `json:"status"` // 成员当前状态签名
}

// ListMemberRepository 列表成员数据访问接口
type ListMemberRepository interface {
	// FindByListAndMember 查找某列表中的某成员，用于重复/存在性检查
	FindByListAndMember(listUuid, member string) (*model.ListMembership, error)
	// FindMembersWithStatus 查找列表全部成员（含状态签名）
	FindMembersWithStatus(listUuid string) ([]ListMemberWithStatus, error)
	// Create 添加列表成员
	Create(m *model.ListMembership) error
	// Delete 物理删除某列表中的某成员
	Delete(listUuid, member string) error
	// DeleteByListUuids 物理删除多张列表的全部成员
	DeleteByListUuids(listUuids []string) error
	// CountByMemberExcluding 统计成员出现在指定列表之外的成员记录数
	// 用于账号删除前的被引用检查（自己的两张列表不算）
	CountByMemberExcluding(member string, excludeListUuids []string) (int64, error)
}

// ChatSummary 聊天概要
// 携带该聊天最近一条消息的时间，用于可见聊天列表排序
type ChatSummary struct {
	ChatUuid      string    `json:"chatUuid"`
	ChatType      string    `json:"chatType"`
	InitSender    string    `json:"initSender"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// ChatRepository 聊天数据访问接口
type ChatRepository interface {
	// Create 创建聊天
	Create(chat *model.Chat) error
	// FindByUuid 根据 UUID 查找聊天
	FindByUuid(uuid string) (*model.Chat, error)
	// FindByUuidForUpdate 根据 UUID 查找聊天并加行锁
	// 成员增删的检查-写入序列依赖该锁防止并发丢失更新
	FindByUuidForUpdate(uuid string) (*model.Chat, error)
	// UpdateType 更新聊天类型（private/group 切换）
	UpdateType(uuid, chatType string) error
	// HardDeleteByUuid 物理删除聊天记录（级联删除的最后一步）
	HardDeleteByUuid(uuid string) error
	// CountByInitSender 统计用户发起的聊天数，用于账号删除前的被引用检查
	CountByInitSender(login string) (int64, error)
	// FindSummariesByMember 查找用户可见的聊天概要，按最近消息时间升序
	FindSummariesByMember(member string) ([]ChatSummary, error)
}

// ChatMemberRepository 聊天成员数据访问接口
type ChatMemberRepository interface {
	// FindByChatAndMember 查找聊天中的某成员
	FindByChatAndMember(chatUuid, member string) (*model.ChatMember, error)
	// FindMembers 查找聊天全部成员登录名
	FindMembers(chatUuid string) ([]string, error)
	// CountByChatUuid 统计聊天当前成员数
	CountByChatUuid(chatUuid string) (int64, error)
	// Create 添加聊天成员
	Create(m *model.ChatMember) error
	// Delete 物理删除聊天中的某成员
	Delete(chatUuid, member string) error
	// DeleteByChatUuid 物理删除聊天全部成员
	DeleteByChatUuid(chatUuid string) error
	// CountByMember 统计用户出现在聊天成员表中的记录数
	CountByMember(member string) (int64, error)
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 追加消息
	Create(msg *model.Message) error
	// FindByChatUuid 查找聊天全部消息，按 (send_at, uuid) 正序
	FindByChatUuid(chatUuid string) ([]model.Message, error)
	// FindPageByChatUuid 按偏移量查找一段消息，按 (send_at, uuid) 正序
	FindPageByChatUuid(chatUuid string, offset, limit int) ([]model.Message, error)
	// CountByChatUuid 统计聊天消息条数
	CountByChatUuid(chatUuid string) (int64, error)
	// DeleteByChatUuid 物理删除聊天全部消息
	DeleteByChatUuid(chatUuid string) error
	// CountBySender 统计用户发出的消息数，用于账号删除前的被引用检查
	CountBySender(login string) (int64, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db         *gorm.DB             // GORM 数据库实例
	User       UserRepository       // 用户 Repository
	List       ListRepository       // 个人列表 Repository
	ListMember ListMemberRepository // 列表成员 Repository
	Chat       ChatRepository       // 聊天 Repository
	ChatMember ChatMemberRepository // 聊天成员 Repository
	Message    MessageRepository    // 消息 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		User:       NewUserRepository(db),
		List:       NewListRepository(db),
		ListMember: NewListMemberRepository(db),
		Chat:       NewChatRepository(db),
		ChatMember: NewChatMemberRepository(db),
		Message:    NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
