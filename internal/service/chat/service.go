// Package chat 实现聊天生命周期与消息服务
// 聊天类型由成员数派生：两人以内 private，三人及以上 group，
// 成员增减跨越边界时自动切换；成员数降到 1 时整个聊天被级联删除
package chat

import (
	"encoding/json"
	"time"

	"kite_messenger_server/internal/dao/mysql/repository"
	"kite_messenger_server/internal/dao/redis"
	"kite_messenger_server/internal/dto/respond"
	"kite_messenger_server/internal/model"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/pkg/constants"
	"kite_messenger_server/pkg/errorx"
	"kite_messenger_server/pkg/util/random"
	"kite_messenger_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

type chatService struct {
	repos *repository.Repositories
	cache redis.AsyncCacheService
}

// NewChatService 创建聊天服务
func NewChatService(repos *repository.Repositories, cache redis.AsyncCacheService) service.ChatService {
	return &chatService{repos: repos, cache: cache}
}

// CreateChat 创建聊天
// 聊天本体和发起人成员记录在一个事务内创建；
// 候选成员逐个在独立事务内添加，单个失败不回滚聊天，
// 失败原因逐条报告给调用方；最后由发起人自动发送欢迎消息
func (s *chatService) CreateChat(initiator string, members []string) (*respond.CreateChatRespond, error) {
	// 1. 创建聊天 + 发起人成员记录
	chatUuid := "C" + random.GetNowAndLenRandomString(13)
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.User.FindByLogin(initiator); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeUserNotExist, "用户不存在")
			}
			return err
		}
		if err := tx.Chat.Create(&model.Chat{
			Uuid:       chatUuid,
			ChatType:   constants.CHAT_TYPE_PRIVATE,
			InitSender: initiator,
		}); err != nil {
			return err
		}
		return tx.ChatMember.Create(&model.ChatMember{
			ChatUuid: chatUuid,
			Member:   initiator,
		})
	})
	if err != nil {
		return nil, err
	}

	// 2. 逐个添加候选成员，各自独立事务
	rsp := &respond.CreateChatRespond{
		ChatUuid: chatUuid,
		ChatType: constants.CHAT_TYPE_PRIVATE,
		Added:    make([]string, 0, len(members)),
	}
	for _, candidate := range members {
		if err := s.addMemberTx(chatUuid, candidate); err != nil {
			rsp.Failed = append(rsp.Failed, respond.FailedCandidate{
				Login:  candidate,
				Reason: err.Error(),
			})
			continue
		}
		rsp.Added = append(rsp.Added, candidate)
	}

	// 3. 发起人自动发送欢迎消息
	// 锁定聊天行写入，避免与并发的级联删除交错留下孤儿消息；
	// 锁内顺便回读最终类型（候选添加可能已切到 group）
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		chat, err := tx.Chat.FindByUuidForUpdate(chatUuid)
		if err != nil {
			return err
		}
		rsp.ChatType = chat.ChatType
		return tx.Message.Create(&model.Message{
			Uuid:     snowflake.GenerateID(),
			ChatUuid: chatUuid,
			Sender:   initiator,
			Content:  constants.WELCOME_MESSAGE,
			SendAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateChatCaches(chatUuid)
	zap.L().Info("聊天已创建",
		zap.String("chat", chatUuid),
		zap.String("initiator", initiator),
		zap.Int("added", len(rsp.Added)),
		zap.Int("failed", len(rsp.Failed)))
	return rsp, nil
}

// addMemberTx 在独立事务内向聊天添加一个成员
// 加行锁串行化同一聊天的成员变更，写入后按成员数切换聊天类型
func (s *chatService) addMemberTx(chatUuid, member string) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 锁定聊天行
		chat, err := tx.Chat.FindByUuidForUpdate(chatUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
			}
			return err
		}

		// 2. 发起人在创建时已入群，不能作为候选再加一次
		if member == chat.InitSender {
			return errorx.New(errorx.CodeSelfReference, "发起人已在聊天中")
		}

		// 3. 成员必须是注册用户
		if _, err := tx.User.FindByLogin(member); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeUserNotExist, "用户 %s 不存在", member)
			}
			return err
		}

		// 4. 重复添加检查
		if _, err := tx.ChatMember.FindByChatAndMember(chatUuid, member); err == nil {
			return errorx.Newf(errorx.CodeAlreadyMember, "%s 已在聊天中", member)
		} else if !errorx.IsNotFound(err) {
			return err
		}

		// 5. 写入成员记录
		if err := tx.ChatMember.Create(&model.ChatMember{
			ChatUuid: chatUuid,
			Member:   member,
		}); err != nil {
			return err
		}

		// 6. 成员数越过边界则切换类型
		count, err := tx.ChatMember.CountByChatUuid(chatUuid)
		if err != nil {
			return err
		}
		if count > 2 && chat.ChatType == constants.CHAT_TYPE_PRIVATE {
			return tx.Chat.UpdateType(chatUuid, constants.CHAT_TYPE_GROUP)
		}
		return nil
	})
}

// AddMember 发起人向聊天添加成员
// 整个检查-写入序列在行锁保护的事务内完成
func (s *chatService) AddMember(actor, chatUuid, member string) error {
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		chat, err := tx.Chat.FindByUuidForUpdate(chatUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
			}
			return err
		}
		if chat.InitSender != actor {
			return errorx.New(errorx.CodeNotAuthorized, "只有发起人可以修改聊天成员")
		}
		if member == actor {
			return errorx.New(errorx.CodeSelfReference, "不能添加自己")
		}

		if _, err := tx.User.FindByLogin(member); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeUserNotExist, "用户 %s 不存在", member)
			}
			return err
		}
		if _, err := tx.ChatMember.FindByChatAndMember(chatUuid, member); err == nil {
			return errorx.Newf(errorx.CodeAlreadyMember, "%s 已在聊天中", member)
		} else if !errorx.IsNotFound(err) {
			return err
		}
		if err := tx.ChatMember.Create(&model.ChatMember{
			ChatUuid: chatUuid,
			Member:   member,
		}); err != nil {
			return err
		}

		count, err := tx.ChatMember.CountByChatUuid(chatUuid)
		if err != nil {
			return err
		}
		if count > 2 && chat.ChatType == constants.CHAT_TYPE_PRIVATE {
			return tx.Chat.UpdateType(chatUuid, constants.CHAT_TYPE_GROUP)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateChatCaches(chatUuid)
	zap.L().Info("聊天成员已添加",
		zap.String("chat", chatUuid), zap.String("actor", actor), zap.String("member", member))
	return nil
}

// RemoveMember 发起人从聊天移除成员
// 移除后成员数降到 1 时级联删除整个聊天，
// 降到 2 时 group 自动切回 private
func (s *chatService) RemoveMember(actor, chatUuid, member string) error {
	var chatDeleted bool
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 锁定聊天行，校验权限
		chat, err := tx.Chat.FindByUuidForUpdate(chatUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
			}
			return err
		}
		if chat.InitSender != actor {
			return errorx.New(errorx.CodeNotAuthorized, "只有发起人可以修改聊天成员")
		}
		// 发起人不能经此路径移除自己
		if member == actor {
			return errorx.New(errorx.CodeSelfReference, "不能移除自己")
		}

		// 2. 成员必须在聊天中
		if _, err := tx.ChatMember.FindByChatAndMember(chatUuid, member); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotMember, "%s 不在聊天中", member)
			}
			return err
		}

		// 3. 物理删除成员记录
		if err := tx.ChatMember.Delete(chatUuid, member); err != nil {
			return err
		}

		// 4. 按剩余成员数决定后续动作
		count, err := tx.ChatMember.CountByChatUuid(chatUuid)
		if err != nil {
			return err
		}
		switch {
		case count <= 1:
			// 只剩一人（或空），级联删除整个聊天
			chatDeleted = true
			return cascadeDeleteChat(tx, chatUuid)
		case count <= 2 && chat.ChatType == constants.CHAT_TYPE_GROUP:
			return tx.Chat.UpdateType(chatUuid, constants.CHAT_TYPE_PRIVATE)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateChatCaches(chatUuid)
	zap.L().Info("聊天成员已移除",
		zap.String("chat", chatUuid), zap.String("actor", actor),
		zap.String("member", member), zap.Bool("chatDeleted", chatDeleted))
	return nil
}

// DeleteChat 发起人删除聊天
func (s *chatService) DeleteChat(actor, chatUuid, confirm string) error {
	if confirm == constants.CONFIRM_CANCEL {
		return nil
	}
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		chat, err := tx.Chat.FindByUuidForUpdate(chatUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
			}
			return err
		}
		if chat.InitSender != actor {
			return errorx.New(errorx.CodeNotAuthorized, "只有发起人可以删除聊天")
		}
		return cascadeDeleteChat(tx, chatUuid)
	})
	if err != nil {
		return err
	}

	s.invalidateChatCaches(chatUuid)
	zap.L().Info("聊天已删除", zap.String("chat", chatUuid), zap.String("actor", actor))
	return nil
}

// cascadeDeleteChat 级联物理删除聊天的消息、成员关系和本体
// 三步都在调用方事务内，不留残余行
func cascadeDeleteChat(tx *repository.Repositories, chatUuid string) error {
	if err := tx.Message.DeleteByChatUuid(chatUuid); err != nil {
		return err
	}
	if err := tx.ChatMember.DeleteByChatUuid(chatUuid); err != nil {
		return err
	}
	return tx.Chat.HardDeleteByUuid(chatUuid)
}

// ViewChats 查看用户可见的聊天列表，按最近消息时间升序
func (s *chatService) ViewChats(login string) (*respond.ChatListRespond, error) {
	// 1. 缓存命中直接返回
	cacheKey := redis.ChatSummariesKey(login)
	if cached, err := s.cache.GetKey(cacheKey); err == nil {
		var rsp respond.ChatListRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		zap.L().Warn("聊天列表缓存反序列化失败", zap.String("key", cacheKey))
	}

	// 2. 回源数据库
	rows, err := s.repos.Chat.FindSummariesByMember(login)
	if err != nil {
		return nil, err
	}
	rsp := &respond.ChatListRespond{
		Chats: make([]respond.ChatSummaryRespond, 0, len(rows)),
	}
	for _, row := range rows {
		rsp.Chats = append(rsp.Chats, respond.ChatSummaryRespond{
			ChatUuid:      row.ChatUuid,
			ChatType:      row.ChatType,
			InitSender:    row.InitSender,
			LastMessageAt: row.LastMessageAt,
		})
	}

	// 3. 异步回填缓存
	s.cache.SubmitTask(func() {
		data, err := json.Marshal(rsp)
		if err != nil {
			return
		}
		if err := s.cache.SetKeyEx(cacheKey, string(data), constants.CACHE_TTL); err != nil {
			zap.L().Warn("回填聊天列表缓存失败", zap.String("key", cacheKey), zap.Error(err))
		}
	})
	return rsp, nil
}

// ViewChatMembers 查看聊天成员，仅限聊天内成员
func (s *chatService) ViewChatMembers(login, chatUuid string) (*respond.ChatMembersRespond, error) {
	// 1. 聊天必须存在
	chat, err := s.repos.Chat.FindByUuid(chatUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
		}
		return nil, err
	}

	// 2. 访问者必须是聊天成员
	if _, err := s.repos.ChatMember.FindByChatAndMember(chatUuid, login); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotChatMember, "不是聊天成员")
		}
		return nil, err
	}

	// 3. 缓存命中直接返回
	cacheKey := redis.ChatMembersKey(chatUuid)
	if cached, err := s.cache.GetKey(cacheKey); err == nil {
		var rsp respond.ChatMembersRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		zap.L().Warn("聊天成员缓存反序列化失败", zap.String("key", cacheKey))
	}

	// 4. 回源数据库并异步回填
	members, err := s.repos.ChatMember.FindMembers(chatUuid)
	if err != nil {
		return nil, err
	}
	rsp := &respond.ChatMembersRespond{
		ChatUuid: chatUuid,
		ChatType: chat.ChatType,
		Members:  members,
	}
	s.cache.SubmitTask(func() {
		data, err := json.Marshal(rsp)
		if err != nil {
			return
		}
		if err := s.cache.SetKeyEx(cacheKey, string(data), constants.CACHE_TTL); err != nil {
			zap.L().Warn("回填聊天成员缓存失败", zap.String("key", cacheKey), zap.Error(err))
		}
	})
	return rsp, nil
}

// SendMessage 向聊天追加一条消息
// 消息一经写入不可修改，排序键 (send_at, uuid) 严格单调
func (s *chatService) SendMessage(sender, chatUuid, content string) (*respond.MessageRespond, error) {
	msg := &model.Message{
		Uuid:     snowflake.GenerateID(),
		ChatUuid: chatUuid,
		Sender:   sender,
		Content:  content,
		SendAt:   time.Now(),
	}
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 聊天必须存在，加行锁阻断并发的成员变更和级联删除
		// 快照读下成员检查可能看到已删聊天的旧成员关系，写入孤儿消息
		if _, err := tx.Chat.FindByUuidForUpdate(chatUuid); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
			}
			return err
		}
		// 2. 发送者必须是聊天成员
		if _, err := tx.ChatMember.FindByChatAndMember(chatUuid, sender); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeNotChatMember, "不是聊天成员")
			}
			return err
		}
		// 3. 追加消息
		return tx.Message.Create(msg)
	})
	if err != nil {
		return nil, err
	}

	// 4. 最近消息时间变化，异步失效所有成员的聊天列表缓存
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeysWithPattern(redis.ChatSummariesPattern()); err != nil {
			zap.L().Warn("失效聊天列表缓存失败", zap.Error(err))
		}
	})
	return &respond.MessageRespond{
		Uuid:    msg.Uuid,
		Sender:  msg.Sender,
		Content: msg.Content,
		SendAt:  msg.SendAt,
	}, nil
}

// ViewMessages 按页查看聊天记录
// 页码从最新往回数：第 1 页是最近的一窗消息；
// 页内按时间正序排列，最早的一页可能不满一窗
func (s *chatService) ViewMessages(login, chatUuid string, page int) (*respond.MessagePageRespond, error) {
	if page < 1 {
		page = 1
	}

	// 1. 聊天必须存在
	if _, err := s.repos.Chat.FindByUuid(chatUuid); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "聊天 %s 不存在", chatUuid)
		}
		return nil, err
	}
	// 2. 访问者必须是聊天成员
	if _, err := s.repos.ChatMember.FindByChatAndMember(chatUuid, login); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotChatMember, "不是聊天成员")
		}
		return nil, err
	}

	// 3. 按总数和页码换算窗口偏移
	total, err := s.repos.Message.CountByChatUuid(chatUuid)
	if err != nil {
		return nil, err
	}
	rsp := &respond.MessagePageRespond{
		ChatUuid: chatUuid,
		Page:     page,
		Messages: []respond.MessageRespond{},
	}
	offset := int(total) - page*constants.MESSAGE_PAGE_SIZE
	limit := constants.MESSAGE_PAGE_SIZE
	if offset <= 0 {
		// 这一页已触达最早的消息
		rsp.EndOfMessages = true
		limit += offset
		offset = 0
	}
	if limit <= 0 {
		// 页码超出范围，没有更早的消息了
		return rsp, nil
	}

	// 4. 取窗口内消息，页内时间正序
	msgs, err := s.repos.Message.FindPageByChatUuid(chatUuid, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		rsp.Messages = append(rsp.Messages, respond.MessageRespond{
			Uuid:    m.Uuid,
			Sender:  m.Sender,
			Content: m.Content,
			SendAt:  m.SendAt,
		})
	}
	return rsp, nil
}

// invalidateChatCaches 异步失效聊天相关缓存
// 成员变更影响所有成员的可见聊天列表，按模式整体失效
func (s *chatService) invalidateChatCaches(chatUuid string) {
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeys(redis.ChatMembersKey(chatUuid)); err != nil {
			zap.L().Warn("失效聊天成员缓存失败", zap.String("chat", chatUuid), zap.Error(err))
		}
		if err := s.cache.DelKeysWithPattern(redis.ChatSummariesPattern()); err != nil {
			zap.L().Warn("失效聊天列表缓存失败", zap.Error(err))
		}
	})
}
