package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the inventory store and the job queue broker
// are reachable. A degraded dependency turns the response into a 503 so
// load balancers stop routing sells and restocks here; the payload
// names which side is down without exposing connection details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		queue := "up"
		if rdb.Ping(ctx).Err() != nil {
			queue = "down"
		}

		status := http.StatusOK
		if postgres == "down" || queue == "down" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"service":  "stock-smart-backend",
			"healthy":  status == http.StatusOK,
			"postgres": postgres,
			"queue":    queue,
		})
	}
}
