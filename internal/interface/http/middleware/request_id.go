package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID头，客户端提供时沿用
const RequestIDHeader = "X-Request-ID"

// RequestIDKey gin.Context中的请求ID
const RequestIDKey = "request_id"

// RequestID 为每个请求分配ID并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
