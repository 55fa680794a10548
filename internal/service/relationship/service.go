// Package relationship 实现联系人/屏蔽关系服务
// 联系人列表和屏蔽列表共用同一套存储与操作，只以 kind 区分；
// 同一用户可以同时出现在两张列表中，互不排斥
package relationship

import (
	"encoding/json"

	"kite_messenger_server/internal/dao/mysql/repository"
	"kite_messenger_server/internal/dao/redis"
	"kite_messenger_server/internal/dto/respond"
	"kite_messenger_server/internal/model"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/pkg/constants"
	"kite_messenger_server/pkg/errorx"

	"go.uber.org/zap"
)

type relationshipService struct {
	repos *repository.Repositories
	cache redis.AsyncCacheService
}

// NewRelationshipService 创建联系人/屏蔽关系服务
func NewRelationshipService(repos *repository.Repositories, cache redis.AsyncCacheService) service.RelationshipService {
	return &relationshipService{repos: repos, cache: cache}
}

// resolveListUuid 根据 kind 取用户对应的列表 UUID
func resolveListUuid(user *model.User, kind string) string {
	if kind == constants.LIST_KIND_BLOCK {
		return user.BlockListId
	}
	return user.ContactListId
}

// AddToList 把目标用户加入操作者的列表
func (s *relationshipService) AddToList(owner, kind, target string) error {
	// 1. 不允许把自己加入自己的列表
	if owner == target {
		return errorx.New(errorx.CodeSelfReference, "不能把自己加入自己的列表")
	}

	var listUuid string
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 2. 取操作者信息，定位目标列表
		ownerUser, err := tx.User.FindByLogin(owner)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeUserNotExist, "用户不存在")
			}
			return err
		}
		listUuid = resolveListUuid(ownerUser, kind)

		// 3. 目标用户必须存在
		if _, err := tx.User.FindByLogin(target); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeUserNotExist, "用户 %s 不存在", target)
			}
			return err
		}

		// 4. 重复添加检查
		if _, err := tx.ListMember.FindByListAndMember(listUuid, target); err == nil {
			return errorx.Newf(errorx.CodeAlreadyMember, "%s 已在列表中", target)
		} else if !errorx.IsNotFound(err) {
			return err
		}

		// 5. 写入成员记录
		// 唯一索引兜底并发下的重复写入
		return tx.ListMember.Create(&model.ListMembership{
			ListUuid: listUuid,
			Member:   target,
		})
	})
	if err != nil {
		return err
	}

	// 6. 异步失效列表缓存
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeys(redis.ListMembersKey(listUuid)); err != nil {
			zap.L().Warn("失效列表缓存失败", zap.String("list", listUuid), zap.Error(err))
		}
	})
	zap.L().Info("列表成员已添加",
		zap.String("owner", owner), zap.String("kind", kind), zap.String("target", target))
	return nil
}

// RemoveFromList 把目标用户移出操作者的列表
func (s *relationshipService) RemoveFromList(owner, kind, target string) error {
	var listUuid string
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 取操作者信息，定位目标列表
		ownerUser, err := tx.User.FindByLogin(owner)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeUserNotExist, "用户不存在")
			}
			return err
		}
		listUuid = resolveListUuid(ownerUser, kind)

		// 2. 成员必须在列表中
		if _, err := tx.ListMember.FindByListAndMember(listUuid, target); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Newf(errorx.CodeNotMember, "%s 不在列表中", target)
			}
			return err
		}

		// 3. 物理删除成员记录
		return tx.ListMember.Delete(listUuid, target)
	})
	if err != nil {
		return err
	}

	// 4. 异步失效列表缓存
	s.cache.SubmitTask(func() {
		if err := s.cache.DelKeys(redis.ListMembersKey(listUuid)); err != nil {
			zap.L().Warn("失效列表缓存失败", zap.String("list", listUuid), zap.Error(err))
		}
	})
	zap.L().Info("列表成员已移除",
		zap.String("owner", owner), zap.String("kind", kind), zap.String("target", target))
	return nil
}

// ViewList 查看列表成员及其状态签名
// 读路径先查缓存，未命中回源数据库并异步回填
func (s *relationshipService) ViewList(owner, kind string) (*respond.ListMembersRespond, error) {
	// 1. 定位目标列表
	ownerUser, err := s.repos.User.FindByLogin(owner)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	listUuid := resolveListUuid(ownerUser, kind)

	// 2. 缓存命中直接返回
	cacheKey := redis.ListMembersKey(listUuid)
	if cached, err := s.cache.GetKey(cacheKey); err == nil {
		var rsp respond.ListMembersRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		// 缓存内容损坏，当未命中处理
		zap.L().Warn("列表缓存反序列化失败", zap.String("key", cacheKey))
	}

	// 3. 回源数据库
	rows, err := s.repos.ListMember.FindMembersWithStatus(listUuid)
	if err != nil {
		return nil, err
	}
	rsp := &respond.ListMembersRespond{
		Kind:    kind,
		Members: make([]respond.ListMemberEntry, 0, len(rows)),
	}
	for _, row := range rows {
		rsp.Members = append(rsp.Members, respond.ListMemberEntry{
			Member: row.Member,
			Status: row.Status,
		})
	}

	// 4. 异步回填缓存
	s.cache.SubmitTask(func() {
		data, err := json.Marshal(rsp)
		if err != nil {
			return
		}
		if err := s.cache.SetKeyEx(cacheKey, string(data), constants.CACHE_TTL); err != nil {
			zap.L().Warn("回填列表缓存失败", zap.String("key", cacheKey), zap.Error(err))
		}
	})
	return rsp, nil
}
