// Package model 包含了应用的数据模型定义与错误分类。
package model

import "errors"

// 业务错误分类。handler 层据此映射 HTTP 状态码：
// ValidationError -> 400，ErrUnauthorized -> 401，ErrForbidden -> 403，
// ErrNotFound -> 404，其余（存储/协作方失败）一律 500。
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError 表示边界校验失败，按字段携带错误描述。
// 校验发生在任何写操作之前，因此它保证零部分写入。
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 根据字段错误表构造一个 ValidationError。
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
