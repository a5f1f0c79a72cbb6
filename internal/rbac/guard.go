package rbac

import (
	"github.com/uiaoin/ts-admin/internal/models"
	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
	"github.com/uiaoin/ts-admin/pkg/jwt"
)

// Rule 路由的访问声明
type Rule struct {
	Public      bool     // 公开接口，跳过认证
	Permissions []string // 满足任一即可，为空表示登录即可访问
}

// Decision 鉴权结果
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Err 拒绝时对应的业务错误，允许时为 nil
func (d Decision) Err() error {
	switch d {
	case DenyUnauthenticated:
		return apperrors.Unauthenticated("请先登录")
	case DenyForbidden:
		return apperrors.Forbidden("权限不足")
	default:
		return nil
	}
}

// Public 公开接口
func Public() Rule {
	return Rule{Public: true}
}

// Authenticated 登录即可访问
func Authenticated() Rule {
	return Rule{}
}

// RequirePermissions 需要任一权限
func RequirePermissions(permissions ...string) Rule {
	return Rule{Permissions: permissions}
}

// Decide 按 公开 → 登录 → 无权限要求 → 超级管理员 → 任一权限 的顺序判断
func Decide(rule Rule, identity *jwt.Identity) Decision {
	if rule.Public {
		return Allow
	}
	if identity == nil {
		return DenyUnauthenticated
	}
	if len(rule.Permissions) == 0 {
		return Allow
	}
	if identity.HasRole(models.AdminRoleCode) {
		return Allow
	}

	owned := make(map[string]struct{}, len(identity.Permissions))
	for _, p := range identity.Permissions {
		owned[p] = struct{}{}
	}
	for _, required := range rule.Permissions {
		if _, ok := owned[required]; ok {
			return Allow
		}
	}
	return DenyForbidden
}
