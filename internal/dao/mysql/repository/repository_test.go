package repository

import (
	"fmt"
	"testing"
	"time"

	"kite_messenger_server/internal/model"
	"kite_messenger_server/pkg/errorx"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{}, &model.UserList{}, &model.ListMembership{},
		&model.Chat{}, &model.ChatMember{}, &model.Message{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return NewRepositories(db)
}

// 唯一索引冲突被翻译成业务重复码，作为并发重复写入的兜底
func TestDuplicateKeyTranslation(t *testing.T) {
	repos := newTestRepos(t)

	m := &model.ChatMember{ChatUuid: "C000000chat000000001", Member: "alice"}
	if err := repos.ChatMember.Create(m); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}
	err := repos.ChatMember.Create(&model.ChatMember{ChatUuid: m.ChatUuid, Member: m.Member})
	if !errorx.IsDuplicate(err) {
		t.Fatalf("期望重复写入错误, 实际 %v", err)
	}
}

func TestNotFoundTranslation(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.User.FindByLogin("ghost")
	if !errorx.IsNotFound(err) {
		t.Fatalf("期望未找到错误, 实际 %v", err)
	}
}

// 没有任何消息的聊天仍对成员可见，按创建时间参与排序
func TestChatSummariesIncludeMessagelessChat(t *testing.T) {
	repos := newTestRepos(t)

	chatUuid := "C000000chat000000002"
	if err := repos.Chat.Create(&model.Chat{
		Uuid:       chatUuid,
		ChatType:   "private",
		InitSender: "alice",
	}); err != nil {
		t.Fatalf("创建聊天失败: %v", err)
	}
	if err := repos.ChatMember.Create(&model.ChatMember{ChatUuid: chatUuid, Member: "alice"}); err != nil {
		t.Fatalf("创建聊天成员失败: %v", err)
	}

	rows, err := repos.Chat.FindSummariesByMember("alice")
	if err != nil {
		t.Fatalf("查询聊天概要失败: %v", err)
	}
	if len(rows) != 1 || rows[0].ChatUuid != chatUuid {
		t.Fatalf("无消息的聊天应可见: %+v", rows)
	}
	if rows[0].LastMessageAt.IsZero() {
		t.Fatal("无消息时应回退到创建时间")
	}
}

// 排序键 (send_at, uuid)：同一时刻写入的消息按雪花 ID 决胜
func TestMessageOrderingTiebreak(t *testing.T) {
	repos := newTestRepos(t)

	now := time.Now()
	for i := int64(3); i >= 1; i-- {
		err := repos.Message.Create(&model.Message{
			Uuid:     i,
			ChatUuid: "C000000chat000000001",
			Sender:   "alice",
			Content:  fmt.Sprintf("m%d", i),
			SendAt:   now,
		})
		if err != nil {
			t.Fatalf("写入消息失败: %v", err)
		}
	}

	msgs, err := repos.Message.FindByChatUuid("C000000chat000000001")
	if err != nil {
		t.Fatalf("查询消息失败: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("期望 3 条消息, 实际 %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Uuid != int64(i+1) {
			t.Fatalf("排序不符: 第 %d 条 uuid=%d", i, m.Uuid)
		}
	}
}
