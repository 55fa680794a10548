// Package account 实现账号生命周期服务
// 注册、登录、状态签名和两级删除：
// 无外部引用的账号物理删除，仍被引用的按调用方选择报错或软禁用
package account

import (
	"kite_messenger_server/internal/dao/mysql/repository"
	"kite_messenger_server/internal/dao/redis"
	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/dto/respond"
	"kite_messenger_server/internal/model"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/pkg/constants"
	"kite_messenger_server/pkg/errorx"
	"kite_messenger_server/pkg/util/jwt"
	"kite_messenger_server/pkg/util/random"

	"go.uber.org/zap"
)

// 删除账号的冲突策略与结果
const (
	OnConflictAbort       = "abort"       // 仍被引用时直接报错
	OnConflictSoftDisable = "softDisable" // 仍被引用时用哨兵值锁定账号

	OutcomeDeleted      = "deleted"      // 已物理删除
	OutcomeSoftDisabled = "softDisabled" // 已软禁用
)

type accountService struct {
	repos *repository.Repositories
	cache redis.AsyncCacheService
}

// NewAccountService 创建账号服务
func NewAccountService(repos *repository.Repositories, cache redis.AsyncCacheService) service.AccountService {
	return &accountService{repos: repos, cache: cache}
}

// Register 注册新用户
// 用户记录和两张个人列表在同一事务内创建，
// 任何一步失败整体回滚，不会留下孤儿列表
func (s *accountService) Register(req *request.RegisterRequest) error {
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 登录名查重
		if _, err := tx.User.FindByLogin(req.Login); err == nil {
			return errorx.Newf(errorx.CodeUserExist, "用户 %s 已存在", req.Login)
		} else if !errorx.IsNotFound(err) {
			return err
		}

		// 2. 创建联系人列表和屏蔽列表
		contactListUuid := "L" + random.GetNowAndLenRandomString(13)
		blockListUuid := "L" + random.GetNowAndLenRandomString(13)
		if err := tx.List.Create(&model.UserList{
			Uuid: contactListUuid,
			Kind: constants.LIST_KIND_CONTACT,
		}); err != nil {
			return err
		}
		if err := tx.List.Create(&model.UserList{
			Uuid: blockListUuid,
			Kind: constants.LIST_KIND_BLOCK,
		}); err != nil {
			return err
		}

		// 3. 创建用户，明文密码经 BeforeSave 哈希后落库
		return tx.User.Create(&model.User{
			Login:         req.Login,
			RawPassword:   req.Password,
			PhoneNum:      req.PhoneNum,
			ContactListId: contactListUuid,
			BlockListId:   blockListUuid,
		})
	})
	if err != nil {
		return err
	}
	zap.L().Info("用户注册成功", zap.String("login", req.Login))
	return nil
}

// Login 校验凭证并签发访问令牌
// 软禁用账号的密码列是哨兵值，任何口令都无法通过 bcrypt 校验
func (s *accountService) Login(req *request.LoginRequest) (*respond.LoginRespond, error) {
	// 1. 查找用户
	user, err := s.repos.User.FindByLogin(req.Login)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}

	// 2. 校验密码
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码错误")
	}

	// 3. 签发令牌
	token, err := jwt.GenerateToken(user.Login)
	if err != nil {
		zap.L().Error("签发令牌失败", zap.String("login", user.Login), zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "签发令牌失败")
	}

	zap.L().Info("用户登录成功", zap.String("login", user.Login))
	return &respond.LoginRespond{
		Login:  user.Login,
		Status: user.Status,
		Token:  token,
	}, nil
}

// UpdateStatus 修改状态签名
func (s *accountService) UpdateStatus(login, status, confirm string) error {
	if confirm == constants.CONFIRM_CANCEL {
		return nil
	}
	if err := s.repos.User.UpdateStatus(login, status); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return err
	}

	// 状态签名出现在用户信息和列表展示里，异步失效
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeys(redis.UserInfoKey(login)); err != nil {
			zap.L().Warn("失效用户缓存失败", zap.String("login", login), zap.Error(err))
		}
	})
	zap.L().Info("状态签名已更新", zap.String("login", login))
	return nil
}

// DeleteAccount 删除账号
// 引用计数在事务内完成：用户发起的聊天、加入的聊天、
// 发出的消息、出现在他人列表中的记录，任何一项非零即视为仍被引用。
// 无引用时物理删除账号和两张个人列表；仍被引用时按 onConflict 处理
func (s *accountService) DeleteAccount(login, password, onConflict string) (*respond.DeleteAccountRespond, error) {
	var outcome string
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 校验凭证
		user, err := tx.User.FindByLogin(login)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeUserNotExist, "用户不存在")
			}
			return err
		}
		if !user.CheckPassword(password) {
			return errorx.New(errorx.CodeInvalidPassword, "密码错误")
		}

		// 2. 引用计数
		ownListUuids := []string{user.ContactListId, user.BlockListId}
		initiated, err := tx.Chat.CountByInitSender(login)
		if err != nil {
			return err
		}
		memberships, err := tx.ChatMember.CountByMember(login)
		if err != nil {
			return err
		}
		sent, err := tx.Message.CountBySender(login)
		if err != nil {
			return err
		}
		listed, err := tx.ListMember.CountByMemberExcluding(login, ownListUuids)
		if err != nil {
			return err
		}
		referenced := initiated + memberships + sent + listed

		// 3. 无引用：连同两张个人列表一起物理删除
		if referenced == 0 {
			if err := tx.ListMember.DeleteByListUuids(ownListUuids); err != nil {
				return err
			}
			if err := tx.List.HardDeleteByUuids(ownListUuids); err != nil {
				return err
			}
			if err := tx.User.HardDelete(login); err != nil {
				return err
			}
			outcome = OutcomeDeleted
			return nil
		}

		// 4. 仍被引用：按调用方选择处理
		if onConflict == OnConflictAbort {
			return errorx.Newf(errorx.CodeStillReferenced,
				"账号仍被引用（发起聊天 %d，加入聊天 %d，消息 %d，他人列表 %d）",
				initiated, memberships, sent, listed)
		}
		// 哨兵值不是合法的 bcrypt 哈希，账号从此无法登录，
		// 但其发起的聊天和历史消息全部保留
		if err := tx.User.OverwritePassword(login, constants.DISABLED_PASSWORD_SENTINEL); err != nil {
			return err
		}
		outcome = OutcomeSoftDisabled
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. 异步失效用户相关缓存
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeys(redis.UserInfoKey(login), redis.ChatSummariesKey(login)); err != nil {
			zap.L().Warn("失效用户缓存失败", zap.String("login", login), zap.Error(err))
		}
	})
	zap.L().Info("账号删除完成", zap.String("login", login), zap.String("outcome", outcome))
	return &respond.DeleteAccountRespond{Login: login, Outcome: outcome}, nil
}
