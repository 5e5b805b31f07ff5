package repository

import (
	"context"

	"gorm.io/gorm"

	"daily-report/backend/internal/model"
)

// ReportRepository 日报数据访问接口
// 所有读操作只返回 delete_flg = false 的记录
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id uint) (*model.Report, error)
	List(ctx context.Context) ([]model.Report, error)
	ListByEmployeeCode(ctx context.Context, employeeCode string) ([]model.Report, error)
	ExistsByEmployeeCodeAndDate(ctx context.Context, employeeCode string, date model.Date) (bool, error)
	ListByEmployeeCodeAndDateExcludingID(ctx context.Context, employeeCode string, date model.Date, excludeID uint) ([]model.Report, error)
	// Update 按 ID 覆盖有效记录的可变字段与 delete_flg/updated_at；created_at 永不写入
	Update(ctx context.Context, report *model.Report) error
}

// ActiveReports 有效日报过滤条件
func ActiveReports(db *gorm.DB) *gorm.DB {
	return db.Where("reports.delete_flg = ?", false)
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

// active 所有读路径的统一入口
func (r *reportRepo) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Report{}).Scopes(ActiveReports)
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	err := r.active(ctx).
		Where("reports.id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.active(ctx).Order("reports.id ASC").Find(&reports).Error
	return reports, err
}

func (r *reportRepo) ListByEmployeeCode(ctx context.Context, employeeCode string) ([]model.Report, error) {
	var reports []model.Report
	err := r.active(ctx).
		Where("reports.employee_code = ?", employeeCode).
		Order("reports.id ASC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) ExistsByEmployeeCodeAndDate(ctx context.Context, employeeCode string, date model.Date) (bool, error) {
	var count int64
	err := r.active(ctx).
		Where("reports.employee_code = ? AND reports.report_date = ?", employeeCode, date).
		Count(&count).Error
	return count > 0, err
}

func (r *reportRepo) ListByEmployeeCodeAndDateExcludingID(ctx context.Context, employeeCode string, date model.Date, excludeID uint) ([]model.Report, error) {
	var reports []model.Report
	err := r.active(ctx).
		Where("reports.employee_code = ? AND reports.report_date = ? AND reports.id <> ?", employeeCode, date, excludeID).
		Order("reports.id ASC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) Update(ctx context.Context, report *model.Report) error {
	result := r.active(ctx).
		Where("reports.id = ?", report.ID).
		Updates(map[string]interface{}{
			"report_date":   report.ReportDate,
			"title":         report.Title,
			"content":       report.Content,
			"employee_code": report.EmployeeCode,
			"delete_flg":    report.DeleteFlg,
			"updated_at":    report.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
