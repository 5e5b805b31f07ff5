package service

import (
	"errors"
	"fmt"
)

// ── 日报模块业务错误 ──

var (
	ErrReportNotFound      = errors.New("日报不存在")
	ErrDuplicateReportDate = errors.New("该日期的日报已存在")
	// ErrReportDuplicateKey 预检查通过后写入时触发存储层唯一约束（并发登记同一日期）
	ErrReportDuplicateKey = errors.New("该日期的日报已存在（并发写入冲突）")
	ErrValidation         = errors.New("参数校验失败")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field string // JSON 字段名
	Rule  string // 未通过的规则，如 required / max
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: 字段 %s 未通过 %s 校验", ErrValidation.Error(), e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ErrorKind 对外暴露的错误分类
type ErrorKind string

const (
	KindSuccess            ErrorKind = "SUCCESS"
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindDuplicateDate      ErrorKind = "DUPLICATE_DATE"
	KindDuplicateException ErrorKind = "DUPLICATE_EXCEPTION"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindStorage            ErrorKind = "STORAGE_ERROR"
)

// KindOf 将服务层返回的错误归类；nil 归为 SUCCESS
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateReportDate):
		return KindDuplicateDate
	case errors.Is(err, ErrReportDuplicateKey):
		return KindDuplicateException
	case errors.Is(err, ErrReportNotFound):
		return KindNotFound
	default:
		return KindStorage
	}
}

// Message 面向用户的提示文案；两类重复错误使用同一文案
func (k ErrorKind) Message() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidation:
		return ErrValidation.Error()
	case KindDuplicateDate, KindDuplicateException:
		return ErrDuplicateReportDate.Error()
	case KindNotFound:
		return ErrReportNotFound.Error()
	default:
		return "服务器内部错误"
	}
}
