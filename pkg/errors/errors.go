package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation PostgreSQL unique_violation SQLSTATE
const pgUniqueViolation = "23505"

// ErrDuplicateKey 存储层唯一约束冲突
var ErrDuplicateKey = errors.New("违反唯一约束")

// IsUniqueViolation 判断错误是否为存储层唯一约束冲突。
// 兼容 gorm TranslateError、pgx 原始错误与 SQLite 驱动错误文本。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
