package restapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes wires the bridge endpoints onto the router.
func RegisterRoutes(router *gin.Engine, handler *BridgeHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/connect", handler.ConnectHandler)
		v1.POST("/disconnect", handler.DisconnectHandler)
		v1.GET("/connection", handler.ConnectionHandler)
		v1.POST("/network/switch", handler.SwitchNetworkHandler)
		v1.POST("/token/mint", handler.MintHandler)
		v1.POST("/token/burn", handler.BurnHandler)
		v1.GET("/token/balance", handler.BalanceHandler)
	}

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

// ZapLoggerMiddleware logs each request with latency and status through zap.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
