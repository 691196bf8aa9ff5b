package middleware

import (
	"strings"

	"team-server/internal/config"
	"team-server/internal/pkg/crypto"
	"team-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT 认证中间件 - 解析调用者身份，缺失即拒绝
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := crypto.ParseToken(parts[1], config.Get().JWT.Secret)
		if err != nil {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetUserEmail 从上下文获取用户邮箱
func GetUserEmail(c *gin.Context) string {
	email, _ := c.Get("email")
	if e, ok := email.(string); ok {
		return e
	}
	return ""
}
