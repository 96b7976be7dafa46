package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound     = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")
	ErrUserTypeNotFound = apperrors.New(apperrors.ErrCodeNotFound, "用户类型不存在")
	ErrUserDuplicate    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户名或邮箱已存在")
	ErrRoleDuplicate    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户类型已存在")
	ErrInvalidUsername  = apperrors.New(apperrors.ErrCodeValidation, "用户名应为3-50个字符，只能包含字母、数字、下划线、点和短横线")
	ErrInvalidEmail     = apperrors.New(apperrors.ErrCodeValidation, "邮箱格式不正确")
	ErrWeakPassword     = apperrors.New(apperrors.ErrCodeValidation, "密码应为8-20位，且包含字母和数字")
	ErrInvalidRole      = apperrors.New(apperrors.ErrCodeValidation, "用户类型名称应为1-50个字符")
	ErrInvalidID        = apperrors.New(apperrors.ErrCodeValidation, "ID无效")
	ErrUserTypeArchived = apperrors.New(apperrors.ErrCodeConflict, "用户类型已归档")
	ErrUserArchived     = apperrors.New(apperrors.ErrCodeAlreadyArchived, "用户已归档")
	ErrOutstandingLoans = apperrors.New(apperrors.ErrCodeOutstandingLoans, "用户仍有未归还的借阅，不能归档")
)
