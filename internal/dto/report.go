package dto

import "time"

// ── 日报模块 DTO ──

// CreateReportRequest 创建日报请求
// 字段校验由服务层完成，以便返回字段级错误
// EmployeeCode 仅为兼容表单提交保留，服务端始终以登录员工为提交人
type CreateReportRequest struct {
	ReportDate   string `json:"report_date" validate:"required,datetime=2006-01-02"`
	Title        string `json:"title" validate:"required,max=100"`
	Content      string `json:"content" validate:"required"`
	EmployeeCode string `json:"employee_code"`
}

// UpdateReportRequest 更新日报请求（整体替换 日期/标题/内容）
// EmployeeCode 会被忽略，员工编号与创建时间沿用原记录
type UpdateReportRequest struct {
	ReportDate   string `json:"report_date" validate:"required,datetime=2006-01-02"`
	Title        string `json:"title" validate:"required,max=100"`
	Content      string `json:"content" validate:"required"`
	EmployeeCode string `json:"employee_code"`
}

// ReportResponse 日报信息响应
type ReportResponse struct {
	ID           uint      `json:"id"`
	ReportDate   string    `json:"report_date"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	EmployeeCode string    `json:"employee_code"`
	EmployeeName string    `json:"employee_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
