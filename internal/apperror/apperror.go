package apperror

import (
	"errors"
	"fmt"
)

// 错误种类（哨兵错误），handler层用errors.Is判断种类，再映射成HTTP状态码
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInfrastructure  = errors.New("infrastructure error")
)

// AppError 业务错误：Err是种类，Message可以安全地展示给调用方，Cause只用于日志，绝不返回给客户端
type AppError struct {
	Err     error
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 只暴露种类，errors.Is(err, ErrNotFound)才能命中
func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: resource + "不存在"}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Infrastructure 存储、缓存、对象存储等基础设施故障，op描述失败的操作，cause保留原始错误供运维排查
func Infrastructure(op string, cause error) *AppError {
	return &AppError{Err: ErrInfrastructure, Message: op, Cause: cause}
}

// IsInfrastructure 未知错误一律按基础设施错误处理
func IsInfrastructure(err error) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return true
	}
	return errors.Is(err, ErrInfrastructure)
}
