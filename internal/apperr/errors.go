// Package apperr 定义跨层共享的错误分类，所有具体错误都通过 %w 包装这些哨兵值。
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 必填字段缺失、slug 格式错误等输入问题。
	ErrValidation = errors.New("validation error")
	// ErrConflict 唯一键冲突。
	ErrConflict = errors.New("duplicate key")
	// ErrNotFound 按 slug 或 id 查询无结果。
	ErrNotFound = errors.New("not found")
	// ErrStateConflict 在非 PENDING 状态上审核，或晋升所需字段缺失。
	ErrStateConflict = errors.New("state conflict")
	// ErrPersistence 其余数据库/存储错误。
	ErrPersistence = errors.New("persistence error")
)

// Validation 构造校验错误。
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound 构造未找到错误。
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict 构造唯一键冲突错误，保留底层原因。
func Conflict(cause error, format string, args ...any) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%w: %s: %w", ErrConflict, fmt.Sprintf(format, args...), cause)
}

// StateConflict 构造状态冲突错误。
func StateConflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, fmt.Sprintf(format, args...))
}

// Persistence 包装未分类的存储错误。
func Persistence(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, cause)
}

// Reason 返回批处理失败列表使用的简短原因码。
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrConflict):
		return "duplicate"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStateConflict):
		return "state_conflict"
	default:
		return "error"
	}
}
