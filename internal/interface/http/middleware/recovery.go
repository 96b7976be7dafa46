package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// Recovery 捕获panic并以统一格式返回500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered",
			"request_id", c.GetString(RequestIDKey),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		response.Error(c, apperrors.ErrInternal)
		c.Abort()
	})
}
