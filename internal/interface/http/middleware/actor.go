package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// ActorHeader 操作人ID请求头
// 系统不做身份认证，操作人由调用方提供并被信任
const ActorHeader = "X-Actor-ID"

const actorKey = "actor_id"

// RequireActor 要求写请求携带正整数操作人ID
// 使用方式：
//
//	v1.POST("/borrows", middleware.RequireActor(), h.Borrow)
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(ActorHeader), 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, apperrors.ErrInvalidActor)
			c.Abort()
			return
		}
		c.Set(actorKey, id)
		c.Next()
	}
}

// OptionalActor 有则解析，用于请求日志
func OptionalActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := strconv.ParseInt(c.GetHeader(ActorHeader), 10, 64); err == nil && id > 0 {
			c.Set(actorKey, id)
		}
		c.Next()
	}
}

// GetActorID 从Context获取操作人ID，未设置时返回0
func GetActorID(c *gin.Context) int64 {
	return c.GetInt64(actorKey)
}

// MustGetActorID 用于已经通过RequireActor的Handler
func MustGetActorID(c *gin.Context) int64 {
	id := GetActorID(c)
	if id == 0 {
		panic("actor_id not found in context")
	}
	return id
}
