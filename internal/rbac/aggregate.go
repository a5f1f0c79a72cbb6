package rbac

import (
	"sort"

	"github.com/uiaoin/ts-admin/internal/models"
)

// DefaultDataScope 未分配角色的用户只能访问本人数据
const DefaultDataScope = models.DataScopeSelf

// Aggregation 用户角色聚合结果
type Aggregation struct {
	RoleCodes   []string
	Permissions []string // 去重并排序
	DataScope   int
	IsAdmin     bool
}

// Aggregate 沿 角色→菜单 收集权限标识，数据权限取所有角色中数值最小者
func Aggregate(roles []models.Role) Aggregation {
	agg := Aggregation{
		RoleCodes: make([]string, 0, len(roles)),
		DataScope: DefaultDataScope,
	}

	seen := make(map[string]struct{})
	for i, role := range roles {
		agg.RoleCodes = append(agg.RoleCodes, role.Code)
		if role.IsAdmin() {
			agg.IsAdmin = true
		}
		if i == 0 || role.DataScope < agg.DataScope {
			agg.DataScope = role.DataScope
		}
		for _, menu := range role.Menus {
			if menu.Permission == "" {
				continue
			}
			seen[menu.Permission] = struct{}{}
		}
	}

	agg.Permissions = make([]string, 0, len(seen))
	for p := range seen {
		agg.Permissions = append(agg.Permissions, p)
	}
	sort.Strings(agg.Permissions)

	return agg
}
