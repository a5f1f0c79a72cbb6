package errors

import (
	stderrors "errors"
	"fmt"
)

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// Kind 错误分类
type Kind int

const (
	KindInternal          Kind = iota // 未分类错误
	KindUnauthenticated               // 凭证错误、令牌缺失/过期/无效、会话失效、账号禁用
	KindInvalidCredential             // 修改密码时原密码错误
	KindForbidden                     // 身份有效但权限不足
	KindNotFound                      // 操作的用户/角色不存在
	KindInvalidParam                  // 业务规则拒绝的请求
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidParam:
		return "invalid_param"
	default:
		return "internal"
	}
}

// Code 返回分类对应的响应码
func (k Kind) Code() int {
	switch k {
	case KindUnauthenticated:
		return CodeUnauthorized
	case KindInvalidCredential, KindInvalidParam:
		return CodeInvalidParam
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeNotFound
	default:
		return CodeServerError
	}
}

// AppError 带分类的业务错误，Message 可直接返回给调用方
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同分类的 AppError 视为相等，便于 errors.Is(err, ErrUnauthenticated) 这类判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// 分类哨兵，仅用于 errors.Is 比较
var (
	ErrUnauthenticated   = &AppError{Kind: KindUnauthenticated}
	ErrInvalidCredential = &AppError{Kind: KindInvalidCredential}
	ErrForbidden         = &AppError{Kind: KindForbidden}
	ErrNotFound          = &AppError{Kind: KindNotFound}
	ErrInvalidParam      = &AppError{Kind: KindInvalidParam}
)

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap 包装底层错误，保留分类信息
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Unauthenticated(message string) *AppError {
	return New(KindUnauthenticated, message)
}

func InvalidCredential(message string) *AppError {
	return New(KindInvalidCredential, message)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func InvalidParam(message string) *AppError {
	return New(KindInvalidParam, message)
}

// KindOf 取错误链上第一个 AppError 的分类，没有则为 KindInternal
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf 取可返回给客户端的错误信息，内部错误使用 fallback
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Kind != KindInternal && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
