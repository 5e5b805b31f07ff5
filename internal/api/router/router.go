package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-report/backend/config"
	"daily-report/backend/internal/api/handler"
	"daily-report/backend/internal/api/middleware"
	"daily-report/backend/internal/model"
	"daily-report/backend/pkg/jwt"
	"daily-report/backend/pkg/redis"
)

// maxBodyBytes 请求体上限 1MB
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// db 为 nil 时健康检查不探测数据库
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	writeLimit := middleware.RateLimit(rdb, cfg.Feature.RateLimitPerMinute, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentEmployee)

			// 日报模块
			reports := authorized.Group("/reports")
			{
				reports.GET("", h.Report.List)
				reports.POST("", writeLimit, h.Report.Create)
				reports.GET("/export", h.Export.ExportReports)
				reports.GET("/:id", h.Report.Get)
				reports.PUT("/:id", writeLimit, h.Report.Update)
				reports.DELETE("/:id", h.Report.Delete)
			}

			// 员工模块
			authorized.GET("/employees/:code/reports",
				middleware.RoleAuth(string(model.RoleAdmin)), h.Report.ListByEmployee)
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
