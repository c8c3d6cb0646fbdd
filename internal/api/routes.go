package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/xtstate/internal/api/middleware"
)

// RouteOptions 路由注册选项
type RouteOptions struct {
	Auth      middleware.AuthConfig
	RateLimit *middleware.RateLimiter // nil 表示不限流
}

// RegisterRoutes 注册槽位API路由。
// 变更类接口（setup、签到）走认证与限流，只读接口直接放行。
func RegisterRoutes(r *gin.Engine, h *SlotHandler, opts RouteOptions) {
	v1 := r.Group("/api/v1")

	// 只读接口
	v1.GET("/slots", h.Snapshot)
	v1.GET("/history", h.History)
	v1.GET("/activated", h.Activated)

	// 变更接口
	mutating := v1.Group("")
	mutating.Use(middleware.APIKeyAuth(opts.Auth, h.logger))
	if opts.RateLimit != nil {
		mutating.Use(middleware.RateLimit(opts.RateLimit))
	}
	mutating.POST("/setup", h.Setup)
	mutating.POST("/slots/:identifier", h.Checkin)
}
