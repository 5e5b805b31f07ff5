package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportDateLayout 日报日期格式（无时间部分）
const ReportDateLayout = "2006-01-02"

// ── 日期类型 ──

// Date 不含时间部分的日历日期，实现 GORM Scanner/Valuer 接口。
// 以 yyyy-mm-dd 文本写入数据库，避免 date 列与带时区时间戳比较时的偏移。
type Date struct {
	time.Time
}

// NewDate 截取 t 的年月日，统一为 UTC 零点
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate 解析 yyyy-mm-dd 文本
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ReportDateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String 返回 yyyy-mm-dd
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(ReportDateLayout)
}

// Equal 判断是否为同一日历日
func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

// GormDataType 声明列类型
func (Date) GormDataType() string { return "date" }

// Value 序列化为 yyyy-mm-dd 文本。
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan 兼容驱动返回 time.Time 或文本两种形式。
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("Date.Scan: unsupported type %T", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) < len(ReportDateLayout) {
		return fmt.Errorf("Date.Scan: invalid date %q", s)
	}
	parsed, err := ParseDate(s[:len(ReportDateLayout)])
	if err != nil {
		return fmt.Errorf("Date.Scan: invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// MarshalJSON 输出 "yyyy-mm-dd"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 解析 "yyyy-mm-dd"
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Report 日报表，对应 reports
// 同一员工同一日期仅允许一条 delete_flg = false 的记录（uk_reports_active_employee_date）
type Report struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"         json:"id"`
	ReportDate   Date   `gorm:"type:date;not null"               json:"report_date"`
	Title        string `gorm:"type:varchar(100);not null"       json:"title"`
	Content      string `gorm:"type:text;not null"               json:"content"`
	EmployeeCode string `gorm:"type:varchar(10);not null;index"  json:"employee_code"`
	FlagDeleteModel
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }
