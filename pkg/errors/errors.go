package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，按号段映射到校验/不存在/冲突/内部错误
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同一错误码视为同一类错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPStatus 按号段返回HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch e.Code / 100 {
	case 400:
		return http.StatusBadRequest
	case 404:
		return http.StatusNotFound
	case 409:
		return http.StatusConflict
	case 429:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapCode 以指定错误码包装系统错误（Redis、消息队列）
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation 参数/输入校验失败
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NotFound 引用的实体不存在
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Conflict 状态前置条件不满足
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 输入校验失败（调用方可修正，不自动重试）
// - 404xx: 引用的实体不存在
// - 409xx: 状态冲突（已借出、已归还、已归档、唯一键重复）
// - 500xx: 服务端错误（数据库、缓存、消息队列）

const (
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeBrokerError   = 50003 // 消息队列错误

	ErrCodeValidation    = 40000 // 校验失败(通用)
	ErrCodeBindError     = 40001 // 参数绑定失败
	ErrCodeInvalidActor  = 40002 // 操作人无效
	ErrCodeInvalidCopyNo = 40003 // 副本编号格式错误

	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound   = 40401 // 用户不存在
	ErrCodeBookNotFound   = 40402 // 图书不存在
	ErrCodeCopyNotFound   = 40403 // 副本不存在
	ErrCodeBorrowNotFound = 40404 // 借阅记录不存在

	ErrCodeConflict         = 40900 // 状态冲突(通用)
	ErrCodeCopyUnavailable  = 40901 // 副本不可借
	ErrCodeAlreadyReturned  = 40902 // 已归还
	ErrCodeAlreadyArchived  = 40903 // 已归档
	ErrCodeDuplicateEntry   = 40904 // 唯一键重复
	ErrCodeOutstandingLoans = 40905 // 存在未归还借阅
	ErrCodeSentinelReadOnly = 40906 // 保留记录不可修改

	ErrCodeTooManyRequests = 42900 // 请求过于频繁
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	ErrInvalidParams   = New(ErrCodeValidation, "参数错误")
	ErrBindError       = New(ErrCodeBindError, "参数格式错误")
	ErrInvalidActor    = New(ErrCodeInvalidActor, "操作人ID必须为正数")
	ErrAlreadyArchived = New(ErrCodeAlreadyArchived, "记录已归档")
	ErrSentinelLocked  = New(ErrCodeSentinelReadOnly, "保留记录不可归档")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: ErrCodeInternal, Message: "系统内部错误", Err: err}
}

func codeBand(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 0
	}
	return appErr.Code / 100
}

// IsValidation 是否为校验错误
func IsValidation(err error) bool { return codeBand(err) == 400 }

// IsNotFound 是否为不存在错误
func IsNotFound(err error) bool { return codeBand(err) == 404 }

// IsConflict 是否为冲突错误
func IsConflict(err error) bool { return codeBand(err) == 409 }
