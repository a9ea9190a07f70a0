package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey 唯一约束冲突
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrCheckViolation 检查约束冲突
	ErrCheckViolation = errors.New("check constraint violated")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// classifyWriteError 将驱动层约束错误归一为仓库错误，其他错误原样返回
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %v", ErrCheckViolation, err)
	default:
		return err
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCheckViolation
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}
