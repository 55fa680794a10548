package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// listRepository 个人列表 Repository 实现
type listRepository struct {
	db *gorm.DB
}

// NewListRepository 创建个人列表 Repository
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

// Create 创建列表
func (r *listRepository) Create(list *model.UserList) error {
	if err := r.db.Create(list).Error; err != nil {
		return wrapDBErrorf(err, "创建列表失败: uuid=%s kind=%s", list.Uuid, list.Kind)
	}
	return nil
}

// FindByUuid 根据 UUID 查找列表
func (r *listRepository) FindByUuid(uuid string) (*model.UserList, error) {
	var list model.UserList
	if err := r.db.Where("uuid = ?", uuid).First(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询列表失败: uuid=%s", uuid)
	}
	return &list, nil
}

// HardDeleteByUuids 物理删除列表
func (r *listRepository) HardDeleteByUuids(uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	if err := r.db.Unscoped().Where("uuid IN ?", uuids).Delete(&model.UserList{}).Error; err != nil {
		return wrapDBError(err, "删除列表失败")
	}
	return nil
}
