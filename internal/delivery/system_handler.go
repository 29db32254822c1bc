package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSystemRoutes mounts the liveness probe and the metrics scrape endpoint.
func RegisterSystemRoutes(router gin.IRouter, metrics http.Handler) {
	router.GET("/health", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, "Admin console is healthy", nil)
	})
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
