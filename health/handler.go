package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 健康检查 HTTP 端点。
// 健康返回 200，任一检查项失败返回 503。
func Handler(aggregator *Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := aggregator.Check(c.Request.Context())

		status := http.StatusOK
		if !response.IsHealthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}
