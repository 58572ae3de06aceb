package middleware

import (
	"boutique/pkg/logger"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery panic恢复中间件，记录日志并返回通用500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get(ContextRequestID)
				logger.GetLogger().WithFields(map[string]interface{}{
					"request_id": requestID,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				}).Errorf("Panic récupéré: %v", r)

				response.ServerError(c, "Erreur interne du serveur")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RequestLogger 请求日志中间件
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		requestID, _ := c.Get(ContextRequestID)
		logger.GetLogger().WithFields(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"client_ip":  c.ClientIP(),
		}).Info("Requête traitée")
	}
}
