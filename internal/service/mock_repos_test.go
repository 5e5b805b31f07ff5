package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"daily-report/backend/internal/model"
	"daily-report/backend/internal/repository"
)

// ── Mock ReportRepository ──

// mockReportRepo 内存实现，读操作只返回有效记录，
// 并模拟 (employee_code, report_date) 的部分唯一索引
type mockReportRepo struct {
	reports map[uint]*model.Report
	nextID  uint

	// forceDuplicate 模拟预检查通过后并发写入触发唯一约束
	forceDuplicate bool
	// failWith 非 nil 时所有操作返回该错误
	failWith error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[uint]*model.Report), nextID: 1}
}

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	if m.failWith != nil {
		return m.failWith
	}
	if m.forceDuplicate || m.conflicts(report) {
		return gorm.ErrDuplicatedKey
	}
	report.ID = m.nextID
	m.nextID++
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id uint) (*model.Report, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if r, ok := m.reports[id]; ok && !r.DeleteFlg {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) List(_ context.Context) ([]model.Report, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.filter(func(*model.Report) bool { return true }), nil
}

func (m *mockReportRepo) ListByEmployeeCode(_ context.Context, employeeCode string) ([]model.Report, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.filter(func(r *model.Report) bool { return r.EmployeeCode == employeeCode }), nil
}

func (m *mockReportRepo) ExistsByEmployeeCodeAndDate(_ context.Context, employeeCode string, date model.Date) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	found := m.filter(func(r *model.Report) bool {
		return r.EmployeeCode == employeeCode && r.ReportDate.Equal(date)
	})
	return len(found) > 0, nil
}

func (m *mockReportRepo) ListByEmployeeCodeAndDateExcludingID(_ context.Context, employeeCode string, date model.Date, excludeID uint) ([]model.Report, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.filter(func(r *model.Report) bool {
		return r.EmployeeCode == employeeCode && r.ReportDate.Equal(date) && r.ID != excludeID
	}), nil
}

func (m *mockReportRepo) Update(_ context.Context, report *model.Report) error {
	if m.failWith != nil {
		return m.failWith
	}
	stored, ok := m.reports[report.ID]
	if !ok || stored.DeleteFlg {
		return gorm.ErrRecordNotFound
	}
	if !report.DeleteFlg && (m.forceDuplicate || m.conflicts(report)) {
		return gorm.ErrDuplicatedKey
	}
	createdAt := stored.CreatedAt
	*stored = *report
	stored.CreatedAt = createdAt // created_at 不可写
	return nil
}

// raw 测试中直接读取存储（包含已删除记录）
func (m *mockReportRepo) raw(id uint) *model.Report {
	return m.reports[id]
}

func (m *mockReportRepo) conflicts(report *model.Report) bool {
	for _, r := range m.reports {
		if r.ID != report.ID && !r.DeleteFlg &&
			r.EmployeeCode == report.EmployeeCode && r.ReportDate.Equal(report.ReportDate) {
			return true
		}
	}
	return false
}

func (m *mockReportRepo) filter(match func(*model.Report) bool) []model.Report {
	result := make([]model.Report, 0)
	for _, r := range m.reports {
		if !r.DeleteFlg && match(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	failWith  error
}

func newMockEmployeeRepo(employees ...*model.Employee) *mockEmployeeRepo {
	m := &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
	for _, e := range employees {
		m.employees[e.Code] = e
	}
	return m
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if e, ok := m.employees[code]; ok && !e.DeleteFlg {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListByCodes(_ context.Context, codes []string) ([]model.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var result []model.Employee
	for _, code := range codes {
		if e, ok := m.employees[code]; ok && !e.DeleteFlg {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── 测试辅助 ──

var errStorage = errors.New("connection refused")

func newMockRepository(reportRepo *mockReportRepo, employeeRepo *mockEmployeeRepo) *repository.Repository {
	return &repository.Repository{
		Report:   reportRepo,
		Employee: employeeRepo,
	}
}

func defaultEmployees() []*model.Employee {
	return []*model.Employee{
		{Code: "E001", Name: "山田太郎", Role: model.RoleGeneral},
		{Code: "E002", Name: "佐藤花子", Role: model.RoleGeneral},
		{Code: "A001", Name: "管理者", Role: model.RoleAdmin},
	}
}
