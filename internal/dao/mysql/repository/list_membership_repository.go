package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// listMemberRepository 列表成员 Repository 实现
type listMemberRepository struct {
	db *gorm.DB
}

// NewListMemberRepository 创建列表成员 Repository
func NewListMemberRepository(db *gorm.DB) ListMemberRepository {
	return &listMemberRepository{db: db}
}

// FindByListAndMember 查找某列表中的某成员
func (r *listMemberRepository) FindByListAndMember(listUuid, member string) (*model.ListMembership, error) {
	var m model.ListMembership
	if err := r.db.Where("list_uuid = ? AND member = ?", listUuid, member).First(&m).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询列表成员失败: list=%s member=%s", listUuid, member)
	}
	return &m, nil
}

// FindMembersWithStatus 查找列表全部成员（含状态签名）
// 联表 usr 取成员当前状态，按登录名排序保证展示顺序稳定
func (r *listMemberRepository) FindMembersWithStatus(listUuid string) ([]ListMemberWithStatus, error) {
	var rows []ListMemberWithStatus
	err := r.db.Table("user_list_contains").
		Select("user_list_contains.member AS member, usr.status AS status").
		Joins("JOIN usr ON usr.login = user_list_contains.member AND usr.deleted_at IS NULL").
		Where("user_list_contains.list_uuid = ? AND user_list_contains.deleted_at IS NULL", listUuid).
		Order("user_list_contains.member ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询列表成员失败: list=%s", listUuid)
	}
	return rows, nil
}

// Create 添加列表成员
func (r *listMemberRepository) Create(m *model.ListMembership) error {
	if err := r.db.Create(m).Error; err != nil {
		return wrapDBErrorf(err, "添加列表成员失败: list=%s member=%s", m.ListUuid, m.Member)
	}
	return nil
}

// Delete 物理删除某列表中的某成员
func (r *listMemberRepository) Delete(listUuid, member string) error {
	if err := r.db.Unscoped().
		Where("list_uuid = ? AND member = ?", listUuid, member).
		Delete(&model.ListMembership{}).Error; err != nil {
		return wrapDBErrorf(err, "删除列表成员失败: list=%s member=%s", listUuid, member)
	}
	return nil
}

// DeleteByListUuids 物理删除多张列表的全部成员
func (r *listMemberRepository) DeleteByListUuids(listUuids []string) error {
	if len(listUuids) == 0 {
		return nil
	}
	if err := r.db.Unscoped().
		Where("list_uuid IN ?", listUuids).
		Delete(&model.ListMembership{}).Error; err != nil {
		return wrapDBError(err, "删除列表成员失败")
	}
	return nil
}

// CountByMemberExcluding 统计成员出现在指定列表之外的成员记录数
func (r *listMemberRepository) CountByMemberExcluding(member string, excludeListUuids []string) (int64, error) {
	var count int64
	query := r.db.Model(&model.ListMembership{}).Where("member = ?", member)
	if len(excludeListUuids) > 0 {
		query = query.Where("list_uuid NOT IN ?", excludeListUuids)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计列表成员记录失败: member=%s", member)
	}
	return count, nil
}
