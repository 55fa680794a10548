package repository

import (
	"errors"

	"kite_messenger_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError 将 GORM 错误翻译成业务错误码
// 记录未找到 -> CodeNotFound
// 唯一索引冲突 -> CodeAlreadyMember（并发重复添加的兜底）
// 其他 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrap(err, errorx.CodeAlreadyMember, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 带格式化的错误翻译
func wrapDBErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrapf(err, errorx.CodeAlreadyMember, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}
