package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiaoin/ts-admin/internal/rbac"
	"github.com/uiaoin/ts-admin/pkg/jwt"
	"github.com/uiaoin/ts-admin/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestManager() *jwt.JWTManager {
	return jwt.NewJWTManager("middleware-test-secret", 15*time.Minute, 7*24*time.Hour)
}

// setupGuardRouter 注册一组带访问声明的路由
func setupGuardRouter(t *testing.T, m *AuthMiddleware, table *rbac.Table) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.Use(m.Guard())

	ok := func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		var uid uint
		if identity != nil {
			uid = identity.UserID
		}
		c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": uid})
	}

	table.Register(http.MethodPost, "/auth/login", rbac.Public())
	r.POST("/auth/login", ok)
	table.Register(http.MethodGet, "/auth/info", rbac.Authenticated())
	r.GET("/auth/info", ok)
	table.Register(http.MethodPut, "/docs/:id", rbac.RequirePermissions("doc:edit"))
	r.PUT("/docs/:id", ok)
	table.Register(http.MethodDelete, "/docs/:id", rbac.RequirePermissions("doc:remove", "doc:admin"))
	r.DELETE("/docs/:id", ok)
	// 未注册声明的路由
	r.GET("/unregistered", ok)

	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string) envelope {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func issue(t *testing.T, m *jwt.JWTManager, identity jwt.Identity) string {
	t.Helper()
	token, err := m.IssueAccess(identity)
	require.NoError(t, err)
	return token
}

func TestGuard_PublicRouteNeedsNoToken(t *testing.T) {
	table := rbac.NewTable()
	r := setupGuardRouter(t, NewAuthMiddleware(table, newTestManager()), table)

	body := doRequest(t, r, http.MethodPost, "/auth/login", "")
	assert.Equal(t, 200, body.Code)
}

func TestGuard_MissingOrInvalidToken(t *testing.T) {
	table := rbac.NewTable()
	r := setupGuardRouter(t, NewAuthMiddleware(table, newTestManager()), table)

	body := doRequest(t, r, http.MethodGet, "/auth/info", "")
	assert.Equal(t, 401, body.Code)
	assert.Equal(t, "请先登录", body.Message)

	body = doRequest(t, r, http.MethodGet, "/auth/info", "garbage")
	assert.Equal(t, 401, body.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/info", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "认证头格式错误")
}

func TestGuard_RefreshTokenRejectedAsAccess(t *testing.T) {
	table := rbac.NewTable()
	manager := newTestManager()
	r := setupGuardRouter(t, NewAuthMiddleware(table, manager), table)

	refresh, err := manager.IssueRefresh(jwt.Identity{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	body := doRequest(t, r, http.MethodGet, "/auth/info", refresh)
	assert.Equal(t, 401, body.Code)
}

func TestGuard_UnregisteredRouteRequiresLogin(t *testing.T) {
	table := rbac.NewTable()
	manager := newTestManager()
	r := setupGuardRouter(t, NewAuthMiddleware(table, manager), table)

	assert.Equal(t, 401, doRequest(t, r, http.MethodGet, "/unregistered", "").Code)

	token := issue(t, manager, jwt.Identity{UserID: 3, Username: "bob"})
	assert.Equal(t, 200, doRequest(t, r, http.MethodGet, "/unregistered", token).Code)
}

func TestGuard_PermissionDecisions(t *testing.T) {
	table := rbac.NewTable()
	manager := newTestManager()
	r := setupGuardRouter(t, NewAuthMiddleware(table, manager), table)

	alice := issue(t, manager, jwt.Identity{
		UserID:      7,
		Username:    "alice",
		Roles:       []string{"editor"},
		Permissions: []string{"doc:edit", "doc:view"},
		DataScope:   3,
	})

	body := doRequest(t, r, http.MethodPut, "/docs/1", alice)
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "7", string(body.Data))

	body = doRequest(t, r, http.MethodDelete, "/docs/1", alice)
	assert.Equal(t, 403, body.Code)
	assert.Equal(t, "权限不足", body.Message)

	// 满足任一权限即可
	holder := issue(t, manager, jwt.Identity{UserID: 8, Permissions: []string{"doc:admin"}})
	assert.Equal(t, 200, doRequest(t, r, http.MethodDelete, "/docs/1", holder).Code)

	// 超级管理员不需要具体权限
	admin := issue(t, manager, jwt.Identity{UserID: 1, Username: "admin", Roles: []string{"admin"}})
	assert.Equal(t, 200, doRequest(t, r, http.MethodDelete, "/docs/1", admin).Code)
}

func TestGuard_IdentityInRequestContext(t *testing.T) {
	table := rbac.NewTable()
	manager := newTestManager()
	m := NewAuthMiddleware(table, manager)

	r := gin.New()
	r.Use(m.Guard())
	var seen *jwt.Identity
	r.GET("/me", func(c *gin.Context) {
		seen, _ = IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"code": 200})
	})

	token := issue(t, manager, jwt.Identity{UserID: 9, Username: "carol"})
	doRequest(t, r, http.MethodGet, "/me", token)

	require.NotNil(t, seen)
	assert.Equal(t, uint(9), seen.UserID)

	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestGuard_SessionCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	store := session.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { _ = store.Close() })

	table := rbac.NewTable()
	manager := newTestManager()
	r := setupGuardRouter(t, NewAuthMiddleware(table, manager).WithSessionCheck(store), table)
	ctx := context.Background()

	token := issue(t, manager, jwt.Identity{UserID: 7, Username: "alice", Permissions: []string{"doc:edit"}})

	// 没有会话
	body := doRequest(t, r, http.MethodPut, "/docs/1", token)
	assert.Equal(t, 401, body.Code)

	require.NoError(t, store.Put(ctx, 7, "refresh", time.Hour))
	assert.Equal(t, 200, doRequest(t, r, http.MethodPut, "/docs/1", token).Code)

	// 缓存的权限快照优先于令牌中的权限
	require.NoError(t, store.CachePermissions(ctx, 7, []string{"doc:view"}, time.Hour))
	assert.Equal(t, 403, doRequest(t, r, http.MethodPut, "/docs/1", token).Code)

	require.NoError(t, store.Invalidate(ctx, 7))
	assert.Equal(t, 401, doRequest(t, r, http.MethodPut, "/docs/1", token).Code)
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	body := doRequest(t, r, http.MethodGet, "/boom", "")
	assert.Equal(t, 500, body.Code)
}
