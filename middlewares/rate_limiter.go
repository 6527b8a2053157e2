package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

// NewStrictRateLimiter membatasi endpoint login/register.
func NewStrictRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(1*time.Minute), 5) // 5 request per menit

	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.RespondErrorCode(c, http.StatusTooManyRequests, "rate_limited",
				errors.New("too many attempts, please wait"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OrderRateLimiter membatasi pembuatan order per identitas pemanggil.
// Hitungan disimpan di counter durable (bukan map in-memory) supaya limit
// tetap berlaku saat service berjalan lebih dari satu instance.
func OrderRateLimiter(counters *services.CounterService, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("order_rate:ip:%s", c.ClientIP())
		if userID, exists := c.Get("user_id"); exists {
			key = fmt.Sprintf("order_rate:user:%v", userID)
		}

		allowed, err := counters.IncrementAndCheck(key, limit, window)
		if err != nil {
			// Counter bermasalah bukan alasan menolak order.
			utils.ErrorLogger.Printf("rate counter failed for %s: %v", key, err)
			c.Next()
			return
		}

		if !allowed {
			utils.RespondErrorCode(c, http.StatusTooManyRequests, "rate_limited",
				errors.New("order rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}
