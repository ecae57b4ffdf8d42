package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/service"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorHandler turns the last error a handler attached with c.Error into a
// JSON response. Backend errors are logged with their cause and reach the
// client with the generic message only.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := service.AsAppError(c.Errors.Last().Err)
		if appErr.Code == service.CodeBackend {
			logger.Error("request failed",
				zap.String("request_id", GetRequestID(c)),
				zap.String("path", c.FullPath()),
				zap.Error(c.Errors.Last().Err))
		}
		c.JSON(appErr.StatusCode(), ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)})
	}
}

// abortWithError records err and stops the chain; ErrorHandler writes it
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
