// 端到端冒烟测试
// 用内存 SQLite 和缓存桩拉起完整路由，按真实调用顺序走一遍主流程
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"kite_messenger_server/internal/config"
	"kite_messenger_server/internal/dao/mysql"
	"kite_messenger_server/internal/handler"
	"kite_messenger_server/internal/router"
	"kite_messenger_server/internal/service"
	"kite_messenger_server/internal/service/account"
	"kite_messenger_server/internal/service/chat"
	"kite_messenger_server/internal/service/relationship"
	"kite_messenger_server/pkg/errorx"
	"kite_messenger_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

// setupEngine 组装完整的 gin 引擎
func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("smoke-test-secret-smoke-test-secret", 30)
	if err := handler.InitTrans("zh"); err != nil {
		t.Fatalf("初始化翻译器失败: %v", err)
	}

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

	cache := newStubCache()
	services := &service.Provider{
		Account:      account.NewAccountService(repos, cache),
		Relationship: relationship.NewRelationshipService(repos, cache),
		Chat:         chat.NewChatService(repos, cache),
	}
	conf := &config.Config{}
	conf.MainConfig.Mode = "test"
	return router.Setup(conf, services)
}

// envelope 统一响应体
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON 发起一次 JSON 请求并解析响应体
func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("解析响应体失败: %v body=%s", err, w.Body.String())
		}
	}
	return w.Code, env
}

// mustOK 请求必须返回 HTTP 200 且业务码为成功
func mustOK(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) envelope {
	t.Helper()
	status, env := doJSON(t, engine, method, path, token, body)
	if status != http.StatusOK || env.Code != errorx.CodeSuccess {
		t.Fatalf("%s %s 失败: status=%d code=%d message=%s", method, path, status, env.Code, env.Message)
	}
	return env
}

func TestSmokeMainFlow(t *testing.T) {
	engine := setupEngine(t)

	// 1. 注册两个用户
	mustOK(t, engine, http.MethodPost, "/api/account/register", "", gin.H{
		"login": "alice", "password": "secret123",
	})
	mustOK(t, engine, http.MethodPost, "/api/account/register", "", gin.H{
		"login": "bob", "password": "secret456",
	})

	// 2. 登录拿令牌
	env := mustOK(t, engine, http.MethodPost, "/api/account/login", "", gin.H{
		"login": "alice", "password": "secret123",
	})
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &loginData); err != nil || loginData.Token == "" {
		t.Fatalf("登录响应不含令牌: %s", string(env.Data))
	}
	token := loginData.Token

	// 3. 未带令牌访问受保护接口被拒
	status, _ := doJSON(t, engine, http.MethodGet, "/api/chats", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("未认证访问应返回 401, 实际 %d", status)
	}

	// 4. 添加联系人并查看
	mustOK(t, engine, http.MethodPost, "/api/lists/members", token, gin.H{
		"kind": "contact", "target": "bob",
	})
	env = mustOK(t, engine, http.MethodGet, "/api/lists?kind=contact", token, nil)
	var listData struct {
		Members []struct {
			Member string `json:"member"`
		} `json:"members"`
	}
	if err := json.Unmarshal(env.Data, &listData); err != nil || len(listData.Members) != 1 {
		t.Fatalf("联系人列表不符: %s", string(env.Data))
	}

	// 5. 创建聊天并发消息
	env = mustOK(t, engine, http.MethodPost, "/api/chats", token, gin.H{
		"members": []string{"bob"},
	})
	var chatData struct {
		ChatUuid string `json:"chatUuid"`
		ChatType string `json:"chatType"`
	}
	if err := json.Unmarshal(env.Data, &chatData); err != nil || chatData.ChatUuid == "" {
		t.Fatalf("创建聊天响应不符: %s", string(env.Data))
	}
	if chatData.ChatType != "private" {
		t.Fatalf("两人聊天应为 private, 实际 %s", chatData.ChatType)
	}
	mustOK(t, engine, http.MethodPost, "/api/messages", token, gin.H{
		"chatUuid": chatData.ChatUuid, "content": "hello bob",
	})

	// 6. 查看聊天记录：欢迎消息 + 刚发的一条
	env = mustOK(t, engine, http.MethodGet,
		fmt.Sprintf("/api/chats/%s/messages?page=1", chatData.ChatUuid), token, nil)
	var pageData struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
		EndOfMessages bool `json:"endOfMessages"`
	}
	if err := json.Unmarshal(env.Data, &pageData); err != nil {
		t.Fatalf("解析消息分页失败: %s", string(env.Data))
	}
	if len(pageData.Messages) != 2 || !pageData.EndOfMessages {
		t.Fatalf("消息分页不符: %s", string(env.Data))
	}
	if pageData.Messages[1].Content != "hello bob" {
		t.Fatalf("最新消息不符: %s", pageData.Messages[1].Content)
	}

	// 7. 参数校验失败返回参数错误码
	status, env = doJSON(t, engine, http.MethodPost, "/api/account/register", "", gin.H{
		"login": "x",
	})
	if status != http.StatusOK || env.Code != errorx.CodeInvalidParam {
		t.Fatalf("参数校验失败应返回参数错误码: status=%d code=%d", status, env.Code)
	}
}
