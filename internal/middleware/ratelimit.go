package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/reservaya/booking-api/internal/httperr"
)

// RateLimitWindow es la ventana fija del límite del endpoint público de
// reservas.
const RateLimitWindow = time.Minute

// RateLimit aplica ventana fija por IP sobre Redis: INCR + EXPIRE en la
// primera petición de la ventana. Si Redis no responde, la petición pasa
// (el límite protege contra abuso, no es parte del contrato de reserva).
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			httperr.TooManyRequests(c, "Demasiadas solicitudes. Intenta de nuevo en unos minutos.")
			c.Abort()
			return
		}

		c.Next()
	}
}
