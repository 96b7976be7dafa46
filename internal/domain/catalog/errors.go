package catalog

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 目录领域错误定义
var (
	ErrBookNotFound   = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrLookupNotFound = apperrors.New(apperrors.ErrCodeNotFound, "作者/分类/出版社不存在")
	ErrDuplicateName  = apperrors.New(apperrors.ErrCodeDuplicateEntry, "名称已存在")
	ErrInvalidName    = apperrors.New(apperrors.ErrCodeValidation, "名称长度应为1-100个字符")
	ErrInvalidTitle   = apperrors.New(apperrors.ErrCodeValidation, "书名长度应为1-200个字符")
	ErrInvalidKind    = apperrors.New(apperrors.ErrCodeValidation, "不支持的类型")
	ErrInvalidID      = apperrors.New(apperrors.ErrCodeValidation, "ID必须为正数")
	ErrArchivedRef    = apperrors.New(apperrors.ErrCodeConflict, "引用的作者/分类/出版社已归档")
	ErrBookArchived   = apperrors.New(apperrors.ErrCodeAlreadyArchived, "图书已归档")
)
