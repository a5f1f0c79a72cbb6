package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/uiaoin/ts-admin/internal/metrics"
	"github.com/uiaoin/ts-admin/internal/rbac"
	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
	"github.com/uiaoin/ts-admin/pkg/jwt"
	"github.com/uiaoin/ts-admin/pkg/logger"
	"github.com/uiaoin/ts-admin/pkg/response"
	"github.com/uiaoin/ts-admin/pkg/session"
)

const (
	claimsKey = "claims"
	userIDKey = "user_id"
)

type identityCtxKey struct{}

// AuthMiddleware 请求鉴权：按路由声明表判断公开、登录、权限
type AuthMiddleware struct {
	table        *rbac.Table
	jwtManager   *jwt.JWTManager
	sessions     session.Store
	sessionCheck bool
	metrics      *metrics.Metrics
}

func NewAuthMiddleware(table *rbac.Table, jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		table:      table,
		jwtManager: jwtManager,
	}
}

// WithSessionCheck 要求会话仍然存在，并以缓存的权限快照替换令牌中的权限
func (m *AuthMiddleware) WithSessionCheck(sessions session.Store) *AuthMiddleware {
	m.sessions = sessions
	m.sessionCheck = sessions != nil
	return m
}

// WithMetrics 设置指标收集
func (m *AuthMiddleware) WithMetrics(mt *metrics.Metrics) *AuthMiddleware {
	m.metrics = mt
	return m
}

// Guard 全局鉴权中间件，需在路由注册前挂载
func (m *AuthMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := m.table.Lookup(c.Request.Method, c.FullPath())
		if rule.Public {
			m.metrics.ObserveDecision(rbac.Allow.String())
			c.Next()
			return
		}

		identity, err := m.authenticate(c)
		if err != nil {
			m.metrics.ObserveDecision(rbac.DenyUnauthenticated.String())
			m.abort(c, err)
			return
		}

		decision := rbac.Decide(rule, identity)
		m.metrics.ObserveDecision(decision.String())
		if decision != rbac.Allow {
			logger.GetLogger().WithFields(logrus.Fields{
				"user_id":  identity.UserID,
				"method":   c.Request.Method,
				"path":     c.FullPath(),
				"required": rule.Permissions,
			}).Debug("权限不足")
			m.abort(c, decision.Err())
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// authenticate 从 Authorization 头解析访问令牌
func (m *AuthMiddleware) authenticate(c *gin.Context) (*jwt.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, rbac.DenyUnauthenticated.Err()
	}

	// 检查Bearer格式
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, apperrors.Unauthenticated("认证头格式错误")
	}
	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	claims, err := m.jwtManager.Verify(tokenString, jwt.KindAccess)
	if err != nil {
		return nil, apperrors.Unauthenticated("Token无效或已过期")
	}
	identity := claims.Identity

	if !m.sessionCheck {
		return &identity, nil
	}

	ctx := c.Request.Context()
	if _, ok, err := m.sessions.Get(ctx, identity.UserID); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "读取会话失败", err)
	} else if !ok {
		return nil, apperrors.Unauthenticated("登录已失效，请重新登录")
	}

	permissions, ok, err := m.sessions.GetCachedPermissions(ctx, identity.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "读取权限缓存失败", err)
	}
	if ok {
		identity.Permissions = permissions
	}
	return &identity, nil
}

func (m *AuthMiddleware) abort(c *gin.Context, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.GetLogger().WithError(err).Error("鉴权失败")
	}
	response.FromError(c, err)
	c.Abort()
}

// SetIdentity 将身份写入 gin 上下文和请求上下文
func SetIdentity(c *gin.Context, identity *jwt.Identity) {
	c.Set(claimsKey, identity)
	c.Set(userIDKey, identity.UserID)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
}

// WithIdentity 返回携带身份的 context
func WithIdentity(ctx context.Context, identity *jwt.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext 从 context 读取身份
func IdentityFromContext(ctx context.Context) (*jwt.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*jwt.Identity)
	return identity, ok && identity != nil
}

// CurrentIdentity 当前请求的身份，公开接口上不存在
func CurrentIdentity(c *gin.Context) (*jwt.Identity, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*jwt.Identity)
	return identity, ok && identity != nil
}
