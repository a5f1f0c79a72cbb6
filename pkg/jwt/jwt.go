package jwt

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/uiaoin/ts-admin/pkg/config"
)

// RefreshSecretSuffix 刷新令牌密钥 = 基础密钥 + 后缀，访问令牌密钥泄露不能伪造刷新令牌
const RefreshSecretSuffix = "_refresh"

var (
	ErrTokenInvalid = errors.New("token无效")
	ErrTokenExpired = errors.New("token已过期")
)

// Kind 令牌类型
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// Identity 令牌中携带的身份声明，两种令牌内容相同
type Identity struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	DeptID      *uint    `json:"dept_id,omitempty"`
	DataScope   int      `json:"data_scope"`
}

// HasRole 检查是否拥有指定角色
func (i *Identity) HasRole(code string) bool {
	for _, r := range i.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// JWTClaims JWT声明
type JWTClaims struct {
	Identity
	jwt.RegisteredClaims
}

// JWTManager JWT管理器
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewJWTManager 创建JWT管理器，刷新令牌密钥由 secretKey 派生
func NewJWTManager(secretKey string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:  []byte(secretKey),
		refreshSecret: []byte(secretKey + RefreshSecretSuffix),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        "ts-admin",
	}
}

// WithIssuer 设置 iss 声明
func (m *JWTManager) WithIssuer(issuer string) *JWTManager {
	m.issuer = issuer
	return m
}

// IssueAccess 签发访问令牌
func (m *JWTManager) IssueAccess(identity Identity) (string, error) {
	return m.sign(identity, m.accessSecret, m.accessTTL)
}

// IssueRefresh 签发刷新令牌
func (m *JWTManager) IssueRefresh(identity Identity) (string, error) {
	return m.sign(identity, m.refreshSecret, m.refreshTTL)
}

func (m *JWTManager) sign(identity Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify 按令牌类型校验签名与有效期
func (m *JWTManager) Verify(tokenString string, kind Kind) (*JWTClaims, error) {
	secret := m.accessSecret
	if kind == KindRefresh {
		secret = m.refreshSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// 验证签名方法
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("意外的签名方法")
			}
			return secret, nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// AccessTTL 访问令牌有效期
func (m *JWTManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL 刷新令牌有效期
func (m *JWTManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// 单例实现
var (
	defaultManager *JWTManager
	once           sync.Once
)

// GetJWTManager 获取全局JWT管理器实例
func GetJWTManager() *JWTManager {
	once.Do(func() {
		cfg := config.GetConfig()
		defaultManager = NewJWTManager(
			cfg.JWT.Secret,
			ParseExpires(cfg.JWT.AccessExpires),
			ParseExpires(cfg.JWT.RefreshExpires),
		).WithIssuer(cfg.JWT.Issuer)
	})
	return defaultManager
}
