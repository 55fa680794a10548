package account

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"kite_messenger_server/internal/dao/mysql"
	"kite_messenger_server/internal/dao/mysql/repository"
	"kite_messenger_server/internal/dto/request"
	"kite_messenger_server/internal/model"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/pkg/constants"
	"kite_messenger_server/pkg/errorx"
	"kite_messenger_server/pkg/util/jwt"
	"kite_messenger_server/pkg/util/random"
	"kite_messenger_server/pkg/util/snowflake"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	jwt.Init("test-secret-test-secret-test-secret", 30)
	m.Run()
}

// stubCache 内存缓存桩，后台任务同步执行
type stubCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) GetKey(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (c *stubCache) SetKeyEx(key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *stubCache) DelKeys(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *stubCache) DelKeysWithPattern(pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *stubCache) SubmitTask(task func()) {
	task()
}

func newTestService(t *testing.T) (service.AccountService, *repository.Repositories) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	repos, err := mysql.InitWithDB(db)
	if err != nil {
		t.Fatalf("初始化测试数据库失败: %v", err)
	}
	return NewAccountService(repos, newStubCache()), repos
}

func mustRegister(t *testing.T, svc service.AccountService, login string) {
	t.Helper()
	err := svc.Register(&request.RegisterRequest{Login: login, Password: "secret123"})
	if err != nil {
		t.Fatalf("注册 %s 失败: %v", login, err)
	}
}

func TestRegisterCreatesUserAndLists(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")

	user, err := repos.User.FindByLogin("alice")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	// 明文密码不落库
	if user.Password == "secret123" {
		t.Fatal("密码应为哈希而非明文")
	}
	if !user.CheckPassword("secret123") {
		t.Fatal("正确密码应通过校验")
	}

	contact, err := repos.List.FindByUuid(user.ContactListId)
	if err != nil {
		t.Fatalf("联系人列表应已创建: %v", err)
	}
	block, err := repos.List.FindByUuid(user.BlockListId)
	if err != nil {
		t.Fatalf("屏蔽列表应已创建: %v", err)
	}
	if contact.Kind != constants.LIST_KIND_CONTACT || block.Kind != constants.LIST_KIND_BLOCK {
		t.Fatalf("列表类型不符: contact=%s block=%s", contact.Kind, block.Kind)
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice")

	err := svc.Register(&request.RegisterRequest{Login: "alice", Password: "another123"})
	if errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("期望用户已存在错误, 实际 %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice")

	rsp, err := svc.Login(&request.LoginRequest{Login: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if rsp.Token == "" {
		t.Fatal("登录成功应返回令牌")
	}
	claims, err := jwt.ParseToken(rsp.Token)
	if err != nil || claims.Login != "alice" {
		t.Fatalf("令牌解析不符: claims=%+v err=%v", claims, err)
	}

	if _, err := svc.Login(&request.LoginRequest{Login: "alice", Password: "wrong"}); errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatalf("期望密码错误, 实际 %v", err)
	}
	if _, err := svc.Login(&request.LoginRequest{Login: "ghost", Password: "secret123"}); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("期望用户不存在错误, 实际 %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")

	if err := svc.UpdateStatus("alice", "out for lunch", constants.CONFIRM_PROCEED); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}
	user, err := repos.User.FindByLogin("alice")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if user.Status != "out for lunch" {
		t.Fatalf("状态不符: %s", user.Status)
	}

	// 取消确认时不做任何修改
	if err := svc.UpdateStatus("alice", "changed my mind", constants.CONFIRM_CANCEL); err != nil {
		t.Fatalf("取消更新不应报错: %v", err)
	}
	user, err = repos.User.FindByLogin("alice")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if user.Status != "out for lunch" {
		t.Fatalf("取消后状态不应变化: %s", user.Status)
	}

	if err := svc.UpdateStatus("ghost", "x", constants.CONFIRM_PROCEED); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("期望用户不存在错误, 实际 %v", err)
	}
}

// 无任何引用的账号物理删除，两张个人列表一并消失
func TestDeleteAccountUnreferenced(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")
	user, err := repos.User.FindByLogin("alice")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}

	rsp, err := svc.DeleteAccount("alice", "secret123", OnConflictAbort)
	if err != nil {
		t.Fatalf("删除账号失败: %v", err)
	}
	if rsp.Outcome != OutcomeDeleted {
		t.Fatalf("期望物理删除, 实际 %s", rsp.Outcome)
	}

	if _, err := repos.User.FindByLogin("alice"); !errorx.IsNotFound(err) {
		t.Fatalf("用户应已删除, 实际 %v", err)
	}
	if _, err := repos.List.FindByUuid(user.ContactListId); !errorx.IsNotFound(err) {
		t.Fatalf("联系人列表应已删除, 实际 %v", err)
	}
	if _, err := repos.List.FindByUuid(user.BlockListId); !errorx.IsNotFound(err) {
		t.Fatalf("屏蔽列表应已删除, 实际 %v", err)
	}
}

func TestDeleteAccountWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice")

	_, err := svc.DeleteAccount("alice", "wrong", OnConflictAbort)
	if errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatalf("期望密码错误, 实际 %v", err)
	}
}

// referenceAlice 让 alice 发起一个聊天并留下消息
func referenceAlice(t *testing.T, repos *repository.Repositories) string {
	t.Helper()
	chatUuid := "C" + random.GetNowAndLenRandomString(13)
	if err := repos.Chat.Create(&model.Chat{
		Uuid:       chatUuid,
		ChatType:   constants.CHAT_TYPE_PRIVATE,
		InitSender: "alice",
	}); err != nil {
		t.Fatalf("创建聊天失败: %v", err)
	}
	if err := repos.ChatMember.Create(&model.ChatMember{ChatUuid: chatUuid, Member: "alice"}); err != nil {
		t.Fatalf("创建聊天成员失败: %v", err)
	}
	if err := repos.Message.Create(&model.Message{
		Uuid:     snowflake.GenerateID(),
		ChatUuid: chatUuid,
		Sender:   "alice",
		Content:  constants.WELCOME_MESSAGE,
		SendAt:   time.Now(),
	}); err != nil {
		t.Fatalf("写入消息失败: %v", err)
	}
	return chatUuid
}

func TestDeleteAccountReferencedAbort(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")
	referenceAlice(t, repos)

	_, err := svc.DeleteAccount("alice", "secret123", OnConflictAbort)
	if errorx.GetCode(err) != errorx.CodeStillReferenced {
		t.Fatalf("期望仍被引用错误, 实际 %v", err)
	}
	// 账号原样保留，仍可登录
	if _, err := svc.Login(&request.LoginRequest{Login: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("中止删除后应仍可登录: %v", err)
	}
}

// 软禁用把密码列覆盖为哨兵值：账号永久无法登录，但聊天和消息全部保留
func TestDeleteAccountReferencedSoftDisable(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")
	chatUuid := referenceAlice(t, repos)

	rsp, err := svc.DeleteAccount("alice", "secret123", OnConflictSoftDisable)
	if err != nil {
		t.Fatalf("软禁用失败: %v", err)
	}
	if rsp.Outcome != OutcomeSoftDisabled {
		t.Fatalf("期望软禁用, 实际 %s", rsp.Outcome)
	}

	user, err := repos.User.FindByLogin("alice")
	if err != nil {
		t.Fatalf("软禁用后用户记录应保留: %v", err)
	}
	if user.Password != constants.DISABLED_PASSWORD_SENTINEL {
		t.Fatalf("密码列应为哨兵值, 实际 %s", user.Password)
	}
	if _, err := svc.Login(&request.LoginRequest{Login: "alice", Password: "secret123"}); errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatalf("软禁用后任何口令都应失败, 实际 %v", err)
	}

	// 引用的聊天和消息不受影响
	if _, err := repos.Chat.FindByUuid(chatUuid); err != nil {
		t.Fatalf("聊天应保留: %v", err)
	}
	count, err := repos.Message.CountByChatUuid(chatUuid)
	if err != nil || count != 1 {
		t.Fatalf("消息应保留: count=%d err=%v", count, err)
	}
}

// 出现在他人列表中同样算被引用
func TestDeleteAccountReferencedByOthersList(t *testing.T) {
	svc, repos := newTestService(t)
	mustRegister(t, svc, "alice")
	mustRegister(t, svc, "bob")

	bob, err := repos.User.FindByLogin("bob")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if err := repos.ListMember.Create(&model.ListMembership{
		ListUuid: bob.ContactListId,
		Member:   "alice",
	}); err != nil {
		t.Fatalf("添加列表成员失败: %v", err)
	}

	_, err = svc.DeleteAccount("alice", "secret123", OnConflictAbort)
	if errorx.GetCode(err) != errorx.CodeStillReferenced {
		t.Fatalf("期望仍被引用错误, 实际 %v", err)
	}
}
