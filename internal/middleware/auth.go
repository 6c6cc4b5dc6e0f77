package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/odin-ai/internal/config"
	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/service/auth"
)

// 上下文键
const (
	ContextUserID   = "user_id"
	ContextEmail    = "user_email"
	ContextUsername = "username"
)

// setUser 将用户信息写入请求上下文
func setUser(c *gin.Context, user *model.UserInfo) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextEmail, user.Email)
	c.Set(ContextUsername, user.Username)
}

// RequireAuth 认证中间件
// 缺少凭据返回 401，凭据无效或过期返回 403
func RequireAuth(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    -1,
				"message": "Missing or malformed Authorization header",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    -1,
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件
// 有效 token 使用对应用户；开发模式下无 token 回退到固定开发用户，生产模式仍然拒绝
func OptionalAuth(authSvc *auth.Service, authCfg *config.AuthConfig) gin.HandlerFunc {
	require := RequireAuth(authSvc)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if user, err := authSvc.ValidateToken(c.Request.Context(), token); err == nil {
				setUser(c, user)
				c.Next()
				return
			}
		}

		if authCfg.IsDev() {
			setUser(c, &model.UserInfo{
				ID:       authCfg.DevUserID,
				Email:    authCfg.DevEmail,
				Username: authCfg.DevUsername,
			})
			c.Next()
			return
		}

		require(c)
	}
}

// CurrentUserID 读取上下文中的用户 ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentUserEmail 读取上下文中的用户邮箱
func CurrentUserEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
