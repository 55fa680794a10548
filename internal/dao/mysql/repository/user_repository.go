package repository

import (
	"kite_messenger_server/internal/model"

	"gorm.io/gorm"
)

// userRepository 用户 Repository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByLogin 根据登录名查找用户
func (r *userRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("login = ?", login).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户失败: login=%s", login)
	}
	return &user, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBErrorf(err, "创建用户失败: login=%s", user.Login)
	}
	return nil
}

// UpdateStatus 更新状态签名
func (r *userRepository) UpdateStatus(login, status string) error {
	res := r.db.Model(&model.User{}).Where("login = ?", login).Update("status", status)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新用户状态失败: login=%s", login)
	}
	if res.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "用户不存在")
	}
	return nil
}

// OverwritePassword 用哨兵值覆盖密码列
// 列更新不触发模型 Hook，哨兵值原样落库
func (r *userRepository) OverwritePassword(login, sentinel string) error {
	res := r.db.Model(&model.User{}).Where("login = ?", login).Update("password", sentinel)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "覆盖用户密码失败: login=%s", login)
	}
	if res.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "用户不存在")
	}
	return nil
}

// HardDelete 物理删除用户记录
func (r *userRepository) HardDelete(login string) error {
	if err := r.db.Unscoped().Where("login = ?", login).Delete(&model.User{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户失败: login=%s", login)
	}
	return nil
}
