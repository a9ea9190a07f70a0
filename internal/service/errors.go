package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorKind 可供调用方识别的错误类别
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindFetch      ErrorKind = "fetch"
	KindInvariant  ErrorKind = "invariant"
	KindInternal   ErrorKind = "internal"
)

// 错误类别哨兵，具体业务错误均包裹其中之一
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrFetch              = errors.New("store request failed")
	ErrInvariantViolation = errors.New("invariant violated")
)

var (
	ErrPostNotFound          = fmt.Errorf("%w: post not found", ErrNotFound)
	ErrSlugConflict          = fmt.Errorf("%w: slug already exists", ErrConflict)
	ErrPublishStateInvariant = fmt.Errorf("%w: status and published_at disagree", ErrInvariantViolation)
	ErrInvalidPage           = fmt.Errorf("%w: page must be a positive integer", ErrValidation)
	ErrInvalidLimit          = fmt.Errorf("%w: limit must be a positive integer", ErrValidation)
	ErrLimitTooLarge         = fmt.Errorf("%w: limit exceeds the maximum", ErrValidation)
	ErrPageTooLarge          = fmt.Errorf("%w: page is out of range", ErrValidation)
	ErrAuthorRequired        = fmt.Errorf("%w: author is required", ErrValidation)
	ErrPostAlreadyPublished  = fmt.Errorf("%w: post is already published", ErrValidation)
	ErrPostArchived          = fmt.Errorf("%w: archived post cannot be published", ErrValidation)
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// KindOf 返回错误所属类别
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariant
	case errors.Is(err, ErrFetch):
		return KindFetch
	default:
		return KindInternal
	}
}

// wrapFetchError 存储层失败统一归为 fetch 类别
func wrapFetchError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

// toValidationError 将 ozzo 校验结果转换为 ValidationError
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: map[string]string{"input": err.Error()}}
	}
	fields := make(map[string]string, len(fieldErrs))
	for key, fieldErr := range fieldErrs {
		if fieldErr != nil {
			fields[key] = fieldErr.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
