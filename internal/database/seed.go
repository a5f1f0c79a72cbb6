package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
	"github.com/uiaoin/ts-admin/pkg/logger"
)

type seedMenu struct {
	models.Menu
	Children []seedMenu
}

func dir(name, path, icon string, sort int, children ...seedMenu) seedMenu {
	return seedMenu{
		Menu:     models.Menu{Name: name, Path: path, Component: "Layout", Type: models.MenuTypeDirectory, Icon: icon, Sort: sort},
		Children: children,
	}
}

func page(name, path, component, permission, icon string, sort int, buttons ...seedMenu) seedMenu {
	return seedMenu{
		Menu:     models.Menu{Name: name, Path: path, Component: component, Permission: permission, Type: models.MenuTypePage, Icon: icon, Sort: sort},
		Children: buttons,
	}
}

func button(name, permission string, sort int) seedMenu {
	return seedMenu{Menu: models.Menu{Name: name, Permission: permission, Type: models.MenuTypeButton, Sort: sort}}
}

// defaultMenus 内置菜单，按钮权限与接口的访问声明对应
func defaultMenus() []seedMenu {
	return []seedMenu{
		dir("系统管理", "/system", "SettingOutlined", 1,
			page("用户管理", "/system/user", "system/user/index", "system:user:list", "UserOutlined", 1,
				button("用户新增", "system:user:add", 1),
				button("用户编辑", "system:user:edit", 2),
				button("用户删除", "system:user:remove", 3),
				button("重置密码", "system:user:resetPwd", 4),
			),
			page("角色管理", "/system/role", "system/role/index", "system:role:list", "TeamOutlined", 2,
				button("角色新增", "system:role:add", 1),
				button("角色编辑", "system:role:edit", 2),
				button("角色删除", "system:role:remove", 3),
			),
			page("菜单管理", "/system/menu", "system/menu/index", "system:menu:list", "MenuOutlined", 3),
			page("部门管理", "/system/dept", "system/dept/index", "system:dept:list", "ApartmentOutlined", 4),
		),
		dir("系统监控", "/monitor", "MonitorOutlined", 2,
			page("在线用户", "/monitor/online", "monitor/online/index", "monitor:online:list", "TeamOutlined", 1,
				button("强制退出", "monitor:online:forceLogout", 1),
			),
			page("登录日志", "/monitor/loginlog", "monitor/loginlog/index", "monitor:loginlog:list", "LoginOutlined", 2),
		),
	}
}

// Seed 初始化部门、菜单、角色和默认账号，已初始化时跳过
func Seed(db *gorm.DB, adminPassword string) error {
	var count int64
	if err := db.Model(&models.Role{}).Where("code = ?", models.AdminRoleCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.GetLogger().Info("种子数据已存在，跳过初始化")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		root := &models.Dept{Name: "总公司", Sort: 0, Status: models.UserStatusActive}
		if err := tx.Create(root).Error; err != nil {
			return fmt.Errorf("创建部门失败: %w", err)
		}
		tech := &models.Dept{ParentID: root.ID, Name: "技术部", Sort: 1, Status: models.UserStatusActive}
		if err := tx.Create(tech).Error; err != nil {
			return fmt.Errorf("创建部门失败: %w", err)
		}

		var all, routes []models.Menu
		if err := createMenus(tx, 0, defaultMenus(), &all); err != nil {
			return fmt.Errorf("创建菜单失败: %w", err)
		}
		for _, m := range all {
			if m.Type != models.MenuTypeButton {
				routes = append(routes, m)
			}
		}

		adminRole := &models.Role{
			Code:      models.AdminRoleCode,
			Name:      "超级管理员",
			Sort:      1,
			Status:    models.RoleStatusActive,
			DataScope: models.DataScopeAll,
			Remark:    "超级管理员，拥有所有权限",
			Menus:     all,
		}
		normalRole := &models.Role{
			Code:      "normal",
			Name:      "普通角色",
			Sort:      2,
			Status:    models.RoleStatusActive,
			DataScope: models.DataScopeSelf,
			Remark:    "普通角色",
			Menus:     routes,
		}
		for _, role := range []*models.Role{adminRole, normalRole} {
			if err := tx.Omit("Menus.*").Create(role).Error; err != nil {
				return fmt.Errorf("创建角色 %s 失败: %w", role.Code, err)
			}
		}

		admin := &models.User{Username: models.AdminUsername, Nickname: "超级管理员", Status: models.UserStatusActive, DeptID: &root.ID}
		test := &models.User{Username: "test", Nickname: "测试用户", Status: models.UserStatusActive, DeptID: &tech.ID}
		for _, u := range []*models.User{admin, test} {
			if err := u.SetPassword(adminPassword); err != nil {
				return err
			}
		}
		admin.Roles = []models.Role{*adminRole}
		test.Roles = []models.Role{*normalRole}
		for _, u := range []*models.User{admin, test} {
			if err := tx.Omit("Roles.*").Create(u).Error; err != nil {
				return fmt.Errorf("创建用户 %s 失败: %w", u.Username, err)
			}
		}

		logger.GetLogger().Infof("种子数据初始化完成，菜单 %d 个", len(all))
		return nil
	})
}

func createMenus(tx *gorm.DB, parentID uint, items []seedMenu, out *[]models.Menu) error {
	for _, item := range items {
		menu := item.Menu
		menu.ParentID = parentID
		menu.Status = models.MenuStatusActive
		menu.Visible = true
		menu.IsCache = true
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		*out = append(*out, menu)
		if err := createMenus(tx, menu.ID, item.Children, out); err != nil {
			return err
		}
	}
	return nil
}
