package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
)

// MenuLister 查询可作为路由的菜单
type MenuLister interface {
	ListRouteMenus(ctx context.Context) ([]models.Menu, error)
}

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// ListRouteMenus 所有启用的目录和菜单（不含按钮）
func (s *MenuService) ListRouteMenus(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.db.WithContext(ctx).
		Where("status = ? AND type IN ?", models.MenuStatusActive, []int{models.MenuTypeDirectory, models.MenuTypePage}).
		Order("sort ASC").Order("id ASC").
		Find(&menus).Error
	return menus, err
}

// MenuNode 前端路由树节点
type MenuNode struct {
	models.Menu
	Children []*MenuNode `json:"children,omitempty"`
}

// routeMenusOf 合并用户所有角色的可路由菜单，按ID去重
func routeMenusOf(roles []models.Role) []models.Menu {
	seen := make(map[uint]struct{})
	var menus []models.Menu
	for _, role := range roles {
		for _, menu := range role.Menus {
			if !menu.IsRoute() {
				continue
			}
			if _, ok := seen[menu.ID]; ok {
				continue
			}
			seen[menu.ID] = struct{}{}
			menus = append(menus, menu)
		}
	}
	return menus
}

// BuildMenuTree 按 sort、id 排序后组装为树，父节点不在列表中的菜单挂到根上
func BuildMenuTree(menus []models.Menu) []*MenuNode {
	sorted := make([]models.Menu, len(menus))
	copy(sorted, menus)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sort != sorted[j].Sort {
			return sorted[i].Sort < sorted[j].Sort
		}
		return sorted[i].ID < sorted[j].ID
	})

	nodes := make(map[uint]*MenuNode, len(sorted))
	for _, m := range sorted {
		nodes[m.ID] = &MenuNode{Menu: m}
	}

	roots := make([]*MenuNode, 0)
	for _, m := range sorted {
		node := nodes[m.ID]
		if parent, ok := nodes[m.ParentID]; ok && m.ParentID != m.ID {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}
