// Package middleware 提供了 gin 的请求中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roomie-match-go/pkg/token"
)

const (
	// CtxUIDKey 存放已认证用户的 ID。
	CtxUIDKey = "uid"
	// CtxClaimsKey 存放完整的令牌声明。
	CtxClaimsKey = "claims"
)

// AuthMiddleware 校验 Authorization 头里的 Bearer 令牌，
// 通过后把用户身份写入请求上下文。
func AuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized: No token provided",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized: Invalid token format",
			})
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized: Invalid token",
			})
			return
		}

		c.Set(CtxUIDKey, claims.UID)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// SelfOrAdmin 限制带 :userId 的路由只能由本人或管理员访问。
// 必须挂在 AuthMiddleware 之后。
func SelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("userId")
		uid := c.GetString(CtxUIDKey)

		admin := false
		if v, ok := c.Get(CtxClaimsKey); ok {
			if claims, ok := v.(*token.CustomClaims); ok {
				admin = claims.Admin
			}
		}

		if targetID != uid && !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden: You do not have permission to access this resource",
			})
			return
		}
		c.Next()
	}
}
