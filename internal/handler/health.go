package handler

import (
	"context"
	"net/http"
	"time"

	"meubleerp/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MailerStatus exposes the state of the SMTP circuit breaker.
type MailerStatus interface {
	Status() infra.BreakerStatus
}

// Health reports connectivity of both databases and Redis. Redis is optional:
// a nil client reports "disabled" without failing the check. The SMTP breaker
// is reported when mailer is set; an open circuit does not fail the check.
func Health(primary, secondary *gorm.DB, rdb *redis.Client, mailer MailerStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		primaryStatus := pingDB(ctx, primary)
		secondaryStatus := pingDB(ctx, secondary)

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if primaryStatus != "connected" || secondaryStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":           status == http.StatusOK,
			"db_primary":   primaryStatus,
			"db_secondary": secondaryStatus,
			"redis":        redisStatus,
		}
		if mailer != nil {
			body["smtp"] = mailer.Status()
		}
		c.JSON(status, body)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "error"
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "error"
	}
	return "connected"
}
