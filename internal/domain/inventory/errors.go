package inventory

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 库存领域错误定义
var (
	ErrCopyNotFound      = apperrors.New(apperrors.ErrCodeCopyNotFound, "副本不存在")
	ErrCopyCodeDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "副本编号已存在")
	ErrInvalidCopyCode   = apperrors.New(apperrors.ErrCodeInvalidCopyNo, "副本编号格式不正确(如 AB-01)")
	ErrInvalidBookID     = apperrors.New(apperrors.ErrCodeValidation, "图书ID必须为正数")
	ErrInvalidCopyID     = apperrors.New(apperrors.ErrCodeValidation, "副本ID必须为正数")
	ErrCopyUnavailable   = apperrors.New(apperrors.ErrCodeCopyUnavailable, "副本不可借")
	ErrCopyOnLoan        = apperrors.New(apperrors.ErrCodeOutstandingLoans, "副本仍有未归还的借阅")
	ErrCopyArchived      = apperrors.New(apperrors.ErrCodeAlreadyArchived, "副本已归档")
	ErrBookArchived      = apperrors.New(apperrors.ErrCodeAlreadyArchived, "图书已归档，不能新增副本")
)
