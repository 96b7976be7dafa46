package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，0表示成功
// 2. HTTP状态码按错误码号段映射（400/404/409/500）
// 3. 内部错误原因只写日志，不返回给客户端
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorKey gin.Context中记录最近一次错误的key，供请求日志中间件读取
const ErrorKey = "app_error"

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	c.Set(ErrorKey, appErr)

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"request_id", c.GetString("request_id"),
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
		)
	}

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// BindError 参数绑定失败
func BindError(c *gin.Context, err error) {
	ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
}
