package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDBError, "查询失败")

	if !errors.Is(err, cause) {
		t.Fatal("包装后应能追溯到底层错误")
	}
	if GetCode(err) != CodeDBError {
		t.Fatalf("错误码不符: %d", GetCode(err))
	}
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	if GetCode(errors.New("plain")) != CodeServerBusy {
		t.Fatal("非业务错误应归为服务繁忙")
	}
}

// 判定只认 Repository 翻译出的业务码，不依赖错误文本
func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(CodeNotFound, "聊天不存在")) {
		t.Fatal("CodeNotFound 应被识别")
	}
	// 多层包装后仍可识别
	wrapped := fmt.Errorf("外层: %w", New(CodeNotFound, "用户不存在"))
	if !IsNotFound(wrapped) {
		t.Fatal("包装后的 CodeNotFound 应被识别")
	}
	if IsNotFound(errors.New("record not found")) {
		t.Fatal("未经翻译的原始文本不应被识别")
	}
	if IsNotFound(nil) {
		t.Fatal("nil 不应被识别")
	}
}

func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(New(CodeAlreadyMember, "已在列表中")) {
		t.Fatal("CodeAlreadyMember 应被识别")
	}
	if IsDuplicate(New(CodeNotFound, "不存在")) {
		t.Fatal("其他业务码不应被识别")
	}
}
