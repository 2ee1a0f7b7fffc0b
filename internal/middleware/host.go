package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chor_police/internal/utils"
)

// HostAuthMiddleware 驗證房主令牌，令牌可以放在 Authorization 頭或 hostToken cookie
func HostAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
				c.Abort()
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie("hostToken"); err == nil {
			token = cookie
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少房主令牌"})
			c.Abort()
			return
		}

		claims, err := utils.ParseHostToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "無效或過期的房主令牌"})
			c.Abort()
			return
		}

		// 將房主信息設置到上下文中
		c.Set("hostID", claims.PlayerID)
		c.Set("hostRoomID", claims.RoomID)
		c.Next()
	}
}
