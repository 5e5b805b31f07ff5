package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-report/backend/internal/dto"
	"daily-report/backend/internal/model"
	"daily-report/backend/internal/repository"
	pkgerrors "daily-report/backend/pkg/errors"
)

// ReportService 日报业务接口
type ReportService interface {
	Create(ctx context.Context, req *dto.CreateReportRequest, caller Caller) (*dto.ReportResponse, error)
	GetByID(ctx context.Context, id uint, caller Caller) (*dto.ReportResponse, error)
	ListVisible(ctx context.Context, caller Caller) ([]dto.ReportResponse, error)
	ListByEmployee(ctx context.Context, employeeCode string, caller Caller) ([]dto.ReportResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateReportRequest, caller Caller) (*dto.ReportResponse, error)
	Delete(ctx context.Context, id uint, caller Caller) error
}

// ReportOption 日报服务可选配置
type ReportOption func(*reportService)

// WithClock 替换时间源
func WithClock(now func() time.Time) ReportOption {
	return func(s *reportService) { s.now = now }
}

// WithOwnerOnlyDetail 开启后普通员工只能查看/修改/删除本人的日报
func WithOwnerOnlyDetail(enabled bool) ReportOption {
	return func(s *reportService) { s.ownerOnlyDetail = enabled }
}

type reportService struct {
	repo            *repository.Repository
	logger          *zap.Logger
	now             func() time.Time
	ownerOnlyDetail bool
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger, opts ...ReportOption) ReportService {
	s := &reportService{
		repo:   repo,
		logger: logger,
		now: func() time.Time {
			// 与 PostgreSQL timestamp 精度保持一致
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ────────────────────── Create ──────────────────────

func (s *reportService) Create(ctx context.Context, req *dto.CreateReportRequest, caller Caller) (*dto.ReportResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := validateEmployeeCode(caller.EmployeeCode); err != nil {
		return nil, err
	}
	date, err := model.ParseDate(req.ReportDate)
	if err != nil {
		return nil, &ValidationError{Field: "report_date", Rule: "datetime"}
	}

	// 提交人始终为当前登录员工，忽略请求体中的 employee_code
	report := &model.Report{
		ReportDate:   date,
		Title:        req.Title,
		Content:      req.Content,
		EmployeeCode: caller.EmployeeCode,
	}
	now := s.now()
	report.DeleteFlg = false
	report.CreatedAt = now
	report.UpdatedAt = now

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		exists, err := tx.Report.ExistsByEmployeeCodeAndDate(ctx, report.EmployeeCode, date)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateReportDate
		}
		return tx.Report.Create(ctx, report)
	})
	if err != nil {
		return nil, s.translateError(err, "创建日报失败",
			zap.String("employee_code", report.EmployeeCode),
			zap.String("report_date", date.String()))
	}

	return s.toReportResponse(ctx, report), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *reportService) GetByID(ctx context.Context, id uint, caller Caller) (*dto.ReportResponse, error) {
	report, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, "查询日报失败", zap.Uint("id", id))
	}
	if !s.canAccess(caller, report) {
		return nil, ErrReportNotFound
	}

	return s.toReportResponse(ctx, report), nil
}

// ────────────────────── List ──────────────────────

func (s *reportService) ListVisible(ctx context.Context, caller Caller) ([]dto.ReportResponse, error) {
	var (
		reports []model.Report
		err     error
	)
	if caller.Role == model.RoleAdmin {
		reports, err = s.repo.Report.List(ctx)
	} else {
		reports, err = s.repo.Report.ListByEmployeeCode(ctx, caller.EmployeeCode)
	}
	if err != nil {
		s.logger.Error("列出日报失败", zap.String("employee_code", caller.EmployeeCode), zap.Error(err))
		return nil, err
	}

	return s.toReportResponses(ctx, FilterVisible(caller, reports)), nil
}

func (s *reportService) ListByEmployee(ctx context.Context, employeeCode string, caller Caller) ([]dto.ReportResponse, error) {
	reports, err := s.repo.Report.ListByEmployeeCode(ctx, employeeCode)
	if err != nil {
		s.logger.Error("按员工列出日报失败", zap.String("employee_code", employeeCode), zap.Error(err))
		return nil, err
	}

	return s.toReportResponses(ctx, FilterVisible(caller, reports)), nil
}

// ────────────────────── Update ──────────────────────

func (s *reportService) Update(ctx context.Context, id uint, req *dto.UpdateReportRequest, caller Caller) (*dto.ReportResponse, error) {
	var updated *model.Report

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Report.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.canAccess(caller, existing) {
			return ErrReportNotFound
		}

		if err := validateStruct(req); err != nil {
			return err
		}
		date, err := model.ParseDate(req.ReportDate)
		if err != nil {
			return &ValidationError{Field: "report_date", Rule: "datetime"}
		}

		// 重复检查以原记录的员工编号为准，并排除自身
		others, err := tx.Report.ListByEmployeeCodeAndDateExcludingID(ctx, existing.EmployeeCode, date, existing.ID)
		if err != nil {
			return err
		}
		if len(others) > 0 {
			return ErrDuplicateReportDate
		}

		merged := &model.Report{
			ID:           existing.ID,
			ReportDate:   date,
			Title:        req.Title,
			Content:      req.Content,
			EmployeeCode: existing.EmployeeCode,
		}
		merged.DeleteFlg = false
		merged.CreatedAt = existing.CreatedAt
		merged.UpdatedAt = s.now()

		if err := tx.Report.Update(ctx, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, s.translateError(err, "更新日报失败", zap.Uint("id", id))
	}

	return s.toReportResponse(ctx, updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *reportService) Delete(ctx context.Context, id uint, caller Caller) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		report, err := tx.Report.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.canAccess(caller, report) {
			return ErrReportNotFound
		}

		report.DeleteFlg = true
		report.UpdatedAt = s.now()
		return tx.Report.Update(ctx, report)
	})
	if err != nil {
		return s.translateError(err, "删除日报失败", zap.Uint("id", id))
	}

	s.logger.Info("日报已逻辑删除", zap.Uint("id", id), zap.String("operator", caller.EmployeeCode))
	return nil
}

// ── 内部辅助方法 ──

// canAccess 详情/更新/删除的访问策略
func (s *reportService) canAccess(caller Caller, report *model.Report) bool {
	if !s.ownerOnlyDetail {
		return true
	}
	return CanView(caller.Role, caller.EmployeeCode, report)
}

// translateError 将存储层错误转换为业务错误，业务错误原样返回
func (s *reportService) translateError(err error, msg string, fields ...zap.Field) error {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, ErrDuplicateReportDate),
		errors.Is(err, ErrReportNotFound):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrReportNotFound
	case pkgerrors.IsUniqueViolation(err):
		s.logger.Warn("日报唯一约束冲突", append(fields, zap.Error(err))...)
		return ErrReportDuplicateKey
	default:
		s.logger.Error(msg, append(fields, zap.Error(err))...)
		return err
	}
}

func (s *reportService) toReportResponse(ctx context.Context, report *model.Report) *dto.ReportResponse {
	resp := newReportResponse(report)
	employee, err := s.repo.Employee.GetByCode(ctx, report.EmployeeCode)
	if err == nil {
		resp.EmployeeName = employee.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("查询员工失败", zap.String("code", report.EmployeeCode), zap.Error(err))
	}
	return resp
}

// toReportResponses 批量查询员工姓名，避免逐条查询
func (s *reportService) toReportResponses(ctx context.Context, reports []model.Report) []dto.ReportResponse {
	names := make(map[string]string)
	codes := make([]string, 0, len(reports))
	for i := range reports {
		code := reports[i].EmployeeCode
		if _, seen := names[code]; !seen {
			names[code] = ""
			codes = append(codes, code)
		}
	}

	employees, err := s.repo.Employee.ListByCodes(ctx, codes)
	if err != nil {
		s.logger.Warn("批量查询员工失败", zap.Error(err))
	}
	for i := range employees {
		names[employees[i].Code] = employees[i].Name
	}

	result := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		resp := newReportResponse(&reports[i])
		resp.EmployeeName = names[reports[i].EmployeeCode]
		result = append(result, *resp)
	}
	return result
}

func newReportResponse(report *model.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:           report.ID,
		ReportDate:   report.ReportDate.String(),
		Title:        report.Title,
		Content:      report.Content,
		EmployeeCode: report.EmployeeCode,
		CreatedAt:    report.CreatedAt,
		UpdatedAt:    report.UpdatedAt,
	}
}
