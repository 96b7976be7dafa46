package borrow

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	ErrBorrowNotFound   = apperrors.New(apperrors.ErrCodeBorrowNotFound, "借阅记录不存在")
	ErrAlreadyReturned  = apperrors.New(apperrors.ErrCodeAlreadyReturned, "借阅记录已归还")
	ErrInvalidBorrowID  = apperrors.New(apperrors.ErrCodeValidation, "借阅记录ID必须为正数")
	ErrInvalidUserID    = apperrors.New(apperrors.ErrCodeValidation, "用户ID必须为正数")
	ErrDueBeforeBorrow  = apperrors.New(apperrors.ErrCodeValidation, "应还日期不能早于借阅日期")
	ErrBorrowerArchived = apperrors.New(apperrors.ErrCodeConflict, "用户已归档，不能借阅")
)
