package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordering-app/utils"
)

// RequireRoles menolak request yang role-nya tidak ada di daftar.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", errors.New("no role in context"))
			c.Abort()
			return
		}

		role, _ := roleValue.(string)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", errors.New("insufficient role"))
		c.Abort()
	}
}
