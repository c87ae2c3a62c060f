package router

import (
	"github.com/labstack/echo/v4"

	"presales-board/internal/cache"
	"presales-board/internal/database"
	"presales-board/internal/handler"
	"presales-board/internal/handler/auth"
	"presales-board/internal/handler/dashboards"
	"presales-board/internal/middleware"
	"presales-board/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, rdb), middleware.RequireAuth(db))

	// 帳號與令牌
	api.POST("/auth/setup", auth.SetupHandler(db))
	api.POST("/auth/register", auth.RegisterHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db, rdb, wp))
	api.POST("/auth/refresh", auth.RefreshHandler(db, rdb))
	api.GET("/auth/me", auth.MeHandler(), middleware.RequireAuth(db))

	// 看板與授權管理
	apiDashboards := api.Group("/dashboards", middleware.RequireAuth(db))
	apiDashboards.GET("", dashboards.ListDashboardsHandler(db))
	apiDashboards.POST("", dashboards.CreateDashboardHandler(db))
	apiDashboards.GET("/:id", dashboards.GetDashboardHandler(db))
	apiDashboards.PUT("/:id", dashboards.UpdateDashboardHandler(db))
	apiDashboards.DELETE("/:id", dashboards.DeleteDashboardHandler(db))
	apiDashboards.GET("/:id/permissions", dashboards.ListPermissionsHandler(db))
	apiDashboards.POST("/:id/permissions", dashboards.GrantPermissionHandler(db))
	apiDashboards.DELETE("/:id/permissions/:user_id", dashboards.RevokePermissionHandler(db))
}
