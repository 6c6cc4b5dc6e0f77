// Package router 注册 HTTP 路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/odin-ai/internal/config"
	"github.com/ashwinyue/odin-ai/internal/database"
	"github.com/ashwinyue/odin-ai/internal/handler"
	"github.com/ashwinyue/odin-ai/internal/middleware"
	"github.com/ashwinyue/odin-ai/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services, cfg *config.Config, db *database.DB, redisClient *redis.Client) *gin.Engine {
	r := gin.New()

	limiter := middleware.NewRateLimiter(redisClient, &cfg.RateLimit)

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(limiter.General())

	// 健康检查，数据库不可达时报 503
	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// 认证
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", limiter.Auth(), h.Auth.Login)
		}

		// 聊天
		// 发消息走可选认证：开发模式无 token 时回退到固定开发用户
		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("", limiter.Chat(), middleware.OptionalAuth(svc.Auth, &cfg.Auth), h.Chat.Stream)
			chatGroup.GET("/history", middleware.RequireAuth(svc.Auth), h.Chat.History)
			chatGroup.DELETE("/:id", middleware.RequireAuth(svc.Auth), h.Chat.Delete)
		}

		// 搜索
		api.POST("/search", middleware.OptionalAuth(svc.Auth, &cfg.Auth), h.Search.Search)

		// 代码提交
		api.POST("/submissions/submit", middleware.RequireAuth(svc.Auth), h.Submission.Submit)
	}

	return r
}
