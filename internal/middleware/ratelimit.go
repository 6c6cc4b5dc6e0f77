package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/odin-ai/internal/config"
)

// RateLimiter 基于 Redis 固定窗口的限流器
// Redis 不可用时放行，限流只是保护手段，不能成为单点
type RateLimiter struct {
	redis  *redis.Client
	cfg    *config.RateLimitConfig
	window time.Duration
}

// NewRateLimiter 创建限流器
func NewRateLimiter(redisClient *redis.Client, cfg *config.RateLimitConfig) *RateLimiter {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{redis: redisClient, cfg: cfg, window: window}
}

// Limit 按桶名和额度生成限流中间件
func (r *RateLimiter) Limit(bucket string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.cfg.Enabled || r.redis == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", bucket, c.ClientIP())

		// INCR 和 TTL 在同一个事务里提交，计数器不会出现无过期时间的状态
		pipe := r.redis.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		if count := incr.Val(); count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    -1,
				"message": "Too many requests, please slow down",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// General 通用接口限流
func (r *RateLimiter) General() gin.HandlerFunc {
	return r.Limit("general", r.cfg.General)
}

// Auth 登录接口限流
func (r *RateLimiter) Auth() gin.HandlerFunc {
	return r.Limit("auth", r.cfg.Auth)
}

// Chat 聊天接口限流
func (r *RateLimiter) Chat() gin.HandlerFunc {
	return r.Limit("chat", r.cfg.Chat)
}
