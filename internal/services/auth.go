package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/uiaoin/ts-admin/internal/metrics"
	"github.com/uiaoin/ts-admin/internal/models"
	"github.com/uiaoin/ts-admin/internal/rbac"
	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
	"github.com/uiaoin/ts-admin/pkg/jwt"
	"github.com/uiaoin/ts-admin/pkg/logger"
	"github.com/uiaoin/ts-admin/pkg/session"
)

// ClientInfo 登录请求的客户端信息
type ClientInfo struct {
	IP        string
	UserAgent string
}

// TokenPair 登录返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // 访问令牌有效期（秒）
}

// AccessToken 刷新返回的访问令牌，刷新令牌不轮换
type AccessToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RoleInfo 用户信息中的角色摘要
type RoleInfo struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	DataScope int    `json:"dataScope"`
}

// UserInfo 当前用户信息，不含密码
type UserInfo struct {
	ID          uint         `json:"id"`
	Username    string       `json:"username"`
	Nickname    string       `json:"nickname"`
	Email       *string      `json:"email"`
	Phone       *string      `json:"phone"`
	Avatar      *string      `json:"avatar"`
	Status      string       `json:"status"`
	DeptID      *uint        `json:"deptId"`
	Dept        *models.Dept `json:"dept,omitempty"`
	LastLoginAt *time.Time   `json:"lastLoginAt"`
	HasPassword bool         `json:"hasPassword"`
	Roles       []RoleInfo   `json:"roles"`
	Permissions []string     `json:"permissions"`
	DataScope   int          `json:"dataScope"`
}

// AuthService 认证编排：登录、刷新、退出、强制下线、修改密码
type AuthService struct {
	users    UserStore
	menus    MenuLister
	sessions session.Store
	tokens   *jwt.JWTManager
	recorder LoginRecorder
	metrics  *metrics.Metrics
}

func NewAuthService(users UserStore, menus MenuLister, sessions session.Store, tokens *jwt.JWTManager, recorder LoginRecorder) *AuthService {
	return &AuthService{
		users:    users,
		menus:    menus,
		sessions: sessions,
		tokens:   tokens,
		recorder: recorder,
	}
}

// WithMetrics 设置指标收集
func (s *AuthService) WithMetrics(m *metrics.Metrics) *AuthService {
	s.metrics = m
	return s
}

// IdentityOf 由用户和聚合结果生成令牌声明
func IdentityOf(user *models.User, agg rbac.Aggregation) jwt.Identity {
	return jwt.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       agg.RoleCodes,
		Permissions: agg.Permissions,
		DeptID:      user.DeptID,
		DataScope:   agg.DataScope,
	}
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// Login 用户登录，每次尝试都写一条登录日志
func (s *AuthService) Login(ctx context.Context, username, password string, client ClientInfo) (*TokenPair, error) {
	pair, msg, err := s.login(ctx, username, password, client)

	s.record(ctx, LoginAttempt{
		Username: username,
		IP:       client.IP,
		Browser:  ParseBrowser(client.UserAgent),
		OS:       ParseOS(client.UserAgent),
		Success:  err == nil,
		Message:  msg,
	})
	s.metrics.ObserveLogin(err == nil)

	return pair, err
}

// login 返回值中的 string 是审计信息
func (s *AuthService) login(ctx context.Context, username, password string, client ClientInfo) (*TokenPair, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "用户不存在", apperrors.Unauthenticated("用户名或密码错误")
		}
		return nil, "查询用户失败", apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	if !user.IsActive() {
		return nil, "用户已被禁用", apperrors.Unauthenticated("用户已被禁用")
	}

	// 第三方登录创建的账号可能没有密码
	if !user.HasPassword() {
		return nil, "该账号未设置密码，请使用第三方登录", apperrors.Unauthenticated("该账号未设置密码，请使用第三方登录")
	}

	if !user.CheckPassword(password) {
		return nil, "密码错误", apperrors.Unauthenticated("用户名或密码错误")
	}

	identity := IdentityOf(user, rbac.Aggregate(user.Roles))

	accessToken, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, "生成Token失败", apperrors.Wrap(apperrors.KindInternal, "生成Token失败", err)
	}
	refreshToken, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, "生成Token失败", apperrors.Wrap(apperrors.KindInternal, "生成Token失败", err)
	}

	ttl := s.tokens.RefreshTTL()
	if err := s.sessions.Put(ctx, user.ID, refreshToken, ttl); err != nil {
		return nil, "保存会话失败", apperrors.Wrap(apperrors.KindInternal, "保存会话失败", err)
	}
	if err := s.sessions.CachePermissions(ctx, user.ID, identity.Permissions, ttl); err != nil {
		return nil, "保存会话失败", apperrors.Wrap(apperrors.KindInternal, "缓存权限失败", err)
	}

	// 更新最后登录信息，失败不影响登录
	now := time.Now()
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"last_login_at": now, "login_ip": client.IP}); err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", user.ID).Warn("更新最后登录时间失败")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    seconds(s.tokens.AccessTTL()),
	}, "登录成功", nil
}

func (s *AuthService) record(ctx context.Context, attempt LoginAttempt) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordLoginAttempt(ctx, attempt); err != nil {
		logger.GetLogger().WithError(err).WithFields(logrus.Fields{
			"username": attempt.Username,
			"success":  attempt.Success,
		}).Warn("记录登录日志失败")
	}
}

// Refresh 用刷新令牌换取新的访问令牌，声明按用户当前角色重新计算
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AccessToken, error) {
	token, err := s.refresh(ctx, refreshToken)
	s.metrics.ObserveRefresh(err == nil)
	return token, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (*AccessToken, error) {
	claims, err := s.tokens.Verify(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, apperrors.Unauthenticated("RefreshToken无效或已过期")
	}

	stored, ok, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "读取会话失败", err)
	}
	if !ok || stored != refreshToken {
		return nil, apperrors.Unauthenticated("RefreshToken已失效")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthenticated("用户不存在或已被禁用")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}
	if !user.IsActive() {
		return nil, apperrors.Unauthenticated("用户不存在或已被禁用")
	}

	identity := IdentityOf(user, rbac.Aggregate(user.Roles))
	accessToken, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "生成Token失败", err)
	}

	// 权限快照与新令牌保持一致，有效期不超过刷新令牌
	if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
		if err := s.sessions.CachePermissions(ctx, user.ID, identity.Permissions, remaining); err != nil {
			logger.GetLogger().WithError(err).WithField("user_id", user.ID).Warn("刷新权限缓存失败")
		}
	}

	return &AccessToken{
		AccessToken: accessToken,
		ExpiresIn:   seconds(s.tokens.AccessTTL()),
	}, nil
}

// Logout 退出登录，删除刷新令牌和权限缓存
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.invalidate(ctx, userID); err != nil {
		return err
	}
	s.metrics.ObserveLogout("logout")
	return nil
}

// KickOut 强制下线；已签发的访问令牌在过期前仍然有效
func (s *AuthService) KickOut(ctx context.Context, userID uint) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return err
	}
	s.metrics.ObserveLogout("kick_out")
	logger.GetLogger().WithField("user_id", userID).Info("用户已被强制下线")
	return nil
}

func (s *AuthService) invalidate(ctx context.Context, userID uint) error {
	if err := s.sessions.Invalidate(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除会话失败", err)
	}
	return nil
}

// ChangePassword 修改密码；未设置过密码的账号直接设置，否则校验原密码并强制重新登录
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hasPassword := user.HasPassword()
	if hasPassword && !user.CheckPassword(oldPassword) {
		return apperrors.InvalidCredential("原密码错误")
	}

	hashed, err := models.HashPassword(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "密码加密失败", err)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password": hashed}); err != nil {
		return err
	}

	// 首次设置密码不需要重新登录
	if !hasPassword {
		return nil
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return err
	}
	s.metrics.ObserveLogout("password_changed")
	return nil
}

// GetUserInfo 当前用户信息，权限优先读取会话缓存
func (s *AuthService) GetUserInfo(ctx context.Context, userID uint) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	agg := rbac.Aggregate(user.Roles)
	permissions, ok, err := s.sessions.GetCachedPermissions(ctx, userID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", userID).Warn("读取权限缓存失败，重新计算")
	}
	if !ok {
		permissions = agg.Permissions
	}

	roles := make([]RoleInfo, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, RoleInfo{ID: r.ID, Code: r.Code, Name: r.Name, DataScope: r.DataScope})
	}

	return &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
		Email:       user.Email,
		Phone:       user.Phone,
		Avatar:      user.Avatar,
		Status:      user.Status,
		DeptID:      user.DeptID,
		Dept:        user.Dept,
		LastLoginAt: user.LastLoginAt,
		HasPassword: user.HasPassword(),
		Roles:       roles,
		Permissions: permissions,
		DataScope:   agg.DataScope,
	}, nil
}

// GetUserMenus 当前用户的路由菜单树，超级管理员返回全部菜单
func (s *AuthService) GetUserMenus(ctx context.Context, userID uint) ([]*MenuNode, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if rbac.Aggregate(user.Roles).IsAdmin {
		menus, err := s.menus.ListRouteMenus(ctx)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "查询菜单失败", err)
		}
		return BuildMenuTree(menus), nil
	}

	return BuildMenuTree(routeMenusOf(user.Roles)), nil
}
