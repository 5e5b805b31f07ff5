package repository

import (
	"context"

	"gorm.io/gorm"

	"daily-report/backend/internal/model"
)

// EmployeeRepository 员工目录只读访问接口
type EmployeeRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Employee, error)
	ListByCodes(ctx context.Context, codes []string) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("code = ? AND delete_flg = ?", code, false).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) ListByCodes(ctx context.Context, codes []string) ([]model.Employee, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("code IN ? AND delete_flg = ?", codes, false).
		Find(&employees).Error
	return employees, err
}
