package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

var errInvalidPathID = apperrors.Validation("路径ID必须为整数")

// pathID 解析路径参数:id，失败时写出400并返回false
// 保留行ID为负数，这里只要求是整数
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, errInvalidPathID)
		return 0, false
	}
	return id, true
}

// bind 绑定JSON请求体
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BindError(c, err)
		return false
	}
	return true
}

func actor(c *gin.Context) int64 {
	return middleware.MustGetActorID(c)
}
