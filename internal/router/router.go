package router

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/handlers"
	"github.com/uiaoin/ts-admin/internal/metrics"
	"github.com/uiaoin/ts-admin/internal/middleware"
	"github.com/uiaoin/ts-admin/internal/rbac"
	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/config"
	"github.com/uiaoin/ts-admin/pkg/jwt"
	"github.com/uiaoin/ts-admin/pkg/response"
	"github.com/uiaoin/ts-admin/pkg/session"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies 路由依赖的服务
type Dependencies struct {
	DB       *gorm.DB
	Sessions session.Store
	Redis    Pinger
	Tokens   *jwt.JWTManager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS(cfg.CORS))

	table := rbac.NewTable()
	auth := middleware.NewAuthMiddleware(table, deps.Tokens).WithMetrics(deps.Metrics)
	if cfg.Auth.SessionCheck {
		auth.WithSessionCheck(deps.Sessions)
	}
	// 鉴权中间件在注册路由前挂载，路由声明写入 table
	router.Use(auth.Guard())

	registerRoutes(router, table, deps)
	return router
}

// routes 注册路由并同时登记访问声明
type routes struct {
	group *gin.RouterGroup
	table *rbac.Table
}

func (r routes) Group(relativePath string) routes {
	return routes{group: r.group.Group(relativePath), table: r.table}
}

func (r routes) handle(method, relativePath string, rule rbac.Rule, handler gin.HandlerFunc) {
	r.group.Handle(method, relativePath, handler)
	r.table.Register(method, joinPaths(r.group.BasePath(), relativePath), rule)
}

// joinPaths 与 gin 拼接路由的方式一致，保证和 c.FullPath() 对得上
func joinPaths(base, relative string) string {
	if relative == "" {
		return base
	}
	joined := path.Join(base, relative)
	if strings.HasSuffix(relative, "/") && !strings.HasSuffix(joined, "/") {
		return joined + "/"
	}
	return joined
}

func (r routes) GET(relativePath string, rule rbac.Rule, handler gin.HandlerFunc) {
	r.handle(http.MethodGet, relativePath, rule, handler)
}

func (r routes) POST(relativePath string, rule rbac.Rule, handler gin.HandlerFunc) {
	r.handle(http.MethodPost, relativePath, rule, handler)
}

func (r routes) PUT(relativePath string, rule rbac.Rule, handler gin.HandlerFunc) {
	r.handle(http.MethodPut, relativePath, rule, handler)
}

func (r routes) DELETE(relativePath string, rule rbac.Rule, handler gin.HandlerFunc) {
	r.handle(http.MethodDelete, relativePath, rule, handler)
}

// 注册所有路由
func registerRoutes(router *gin.Engine, table *rbac.Table, deps Dependencies) {
	userService := services.NewUserService(deps.DB)
	roleService := services.NewRoleService(deps.DB)
	menuService := services.NewMenuService(deps.DB)
	loginLogService := services.NewLoginLogService(deps.DB)
	authService := services.NewAuthService(userService, menuService, deps.Sessions, deps.Tokens, loginLogService).
		WithMetrics(deps.Metrics)

	root := routes{group: &router.RouterGroup, table: table}
	if deps.Gatherer != nil {
		root.GET("/metrics", rbac.Public(), gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API路由组
	api := root.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", rbac.Public(), healthCheck(deps))
		api.GET("/ping", rbac.Public(), ping)

		authHandler := handlers.NewAuthHandler(authService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", rbac.Public(), authHandler.Login)
			authGroup.POST("/refresh", rbac.Public(), authHandler.Refresh)
			authGroup.POST("/logout", rbac.Authenticated(), authHandler.Logout)
			authGroup.GET("/info", rbac.Authenticated(), authHandler.GetInfo)
			authGroup.GET("/menus", rbac.Authenticated(), authHandler.GetMenus)
			authGroup.POST("/change-password", rbac.Authenticated(), authHandler.ChangePassword)
		}

		system := api.Group("/system")

		userHandler := handlers.NewUserHandler(userService, authService)
		users := system.Group("/users")
		{
			users.POST("/:id/kick-out", rbac.RequirePermissions("monitor:online:forceLogout"), userHandler.KickOut)
			users.PUT("/:id/status", rbac.RequirePermissions("system:user:edit"), userHandler.UpdateStatus)
			users.DELETE("/:id", rbac.RequirePermissions("system:user:remove"), userHandler.Delete)
		}

		roleHandler := handlers.NewRoleHandler(roleService)
		roles := system.Group("/roles")
		{
			roles.PUT("/:id", rbac.RequirePermissions("system:role:edit"), roleHandler.Update)
			roles.PUT("/:id/status", rbac.RequirePermissions("system:role:edit"), roleHandler.UpdateStatus)
			roles.DELETE("/:id", rbac.RequirePermissions("system:role:remove"), roleHandler.Delete)
		}

		loginLogHandler := handlers.NewLoginLogHandler(loginLogService)
		monitor := api.Group("/monitor")
		{
			monitor.GET("/login-logs", rbac.RequirePermissions("monitor:loginlog:list"), loginLogHandler.List)
		}
	}
}

// healthCheck 检查数据库和Redis连接
func healthCheck(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{
			"status":   "ok",
			"database": "ok",
			"redis":    "ok",
			"time":     time.Now().Format(time.RFC3339),
		}

		if deps.DB != nil {
			if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status["database"] = "unavailable"
				status["status"] = "degraded"
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx); err != nil {
				status["redis"] = "unavailable"
				status["status"] = "degraded"
			}
		}

		response.Success(c, status)
	}
}

func ping(c *gin.Context) {
	response.Success(c, "pong")
}
