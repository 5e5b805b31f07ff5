package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"daily-report/backend/internal/dto"
	"daily-report/backend/internal/model"
)

// ── 测试辅助 ──

// fakeClock 每次调用前进一分钟
type fakeClock struct {
	cur time.Time
}

func (c *fakeClock) Now() time.Time {
	c.cur = c.cur.Add(time.Minute)
	return c.cur
}

var t0 = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

var (
	callerE001  = Caller{EmployeeCode: "E001", Role: model.RoleGeneral}
	callerE002  = Caller{EmployeeCode: "E002", Role: model.RoleGeneral}
	callerAdmin = Caller{EmployeeCode: "A001", Role: model.RoleAdmin}
)

func setupTestReportService(opts ...ReportOption) (ReportService, *mockReportRepo, *mockEmployeeRepo) {
	reportRepo := newMockReportRepo()
	employeeRepo := newMockEmployeeRepo(defaultEmployees()...)
	clock := &fakeClock{cur: t0}
	opts = append([]ReportOption{WithClock(clock.Now)}, opts...)
	svc := NewReportService(newMockRepository(reportRepo, employeeRepo), zap.NewNop(), opts...)
	return svc, reportRepo, employeeRepo
}

func createReq(date, title string) *dto.CreateReportRequest {
	return &dto.CreateReportRequest{ReportDate: date, Title: title, Content: "x"}
}

func updateReq(date, title string) *dto.UpdateReportRequest {
	return &dto.UpdateReportRequest{ReportDate: date, Title: title, Content: "y"}
}

func mustCreate(t *testing.T, svc ReportService, caller Caller, date string) *dto.ReportResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), createReq(date, "日报"), caller)
	if err != nil {
		t.Fatalf("创建日报失败: %v", err)
	}
	return resp
}

// ────────────────────── Create ──────────────────────

func TestReportService_Create_DuplicateDatePerEmployee(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq("2024-01-10", "A"), callerE001)
	if err != nil {
		t.Fatalf("期望创建成功，实际: %v", err)
	}
	if repo.raw(first.ID).DeleteFlg {
		t.Error("期望 delete_flg=false")
	}
	if first.EmployeeName != "山田太郎" {
		t.Errorf("期望员工姓名 山田太郎，实际 %q", first.EmployeeName)
	}

	_, err = svc.Create(ctx, createReq("2024-01-10", "B"), callerE001)
	if !errors.Is(err, ErrDuplicateReportDate) {
		t.Errorf("期望 ErrDuplicateReportDate，实际: %v", err)
	}
	if KindOf(err) != KindDuplicateDate {
		t.Errorf("期望 DUPLICATE_DATE，实际 %s", KindOf(err))
	}

	if _, err := svc.Create(ctx, createReq("2024-01-10", "C"), callerE002); err != nil {
		t.Errorf("其他员工同一日期应创建成功，实际: %v", err)
	}
}

func TestReportService_Create_ForcesCallerEmployeeCode(t *testing.T) {
	svc, repo, _ := setupTestReportService()

	req := createReq("2024-01-10", "A")
	req.EmployeeCode = "E002"
	resp, err := svc.Create(context.Background(), req, callerE001)
	if err != nil {
		t.Fatalf("期望创建成功，实际: %v", err)
	}
	if resp.EmployeeCode != "E001" {
		t.Errorf("期望员工编号 E001，实际 %s", resp.EmployeeCode)
	}
	if repo.raw(resp.ID).EmployeeCode != "E001" {
		t.Errorf("存储中的员工编号应为 E001，实际 %s", repo.raw(resp.ID).EmployeeCode)
	}
}

func TestReportService_Create_StampsTimestamps(t *testing.T) {
	svc, repo, _ := setupTestReportService()

	resp := mustCreate(t, svc, callerE001, "2024-01-10")
	stored := repo.raw(resp.ID)
	if !stored.CreatedAt.Equal(stored.UpdatedAt) {
		t.Errorf("创建时 created_at 与 updated_at 应相同，实际 %v / %v", stored.CreatedAt, stored.UpdatedAt)
	}
	if !stored.CreatedAt.After(t0) {
		t.Errorf("created_at 应取自时钟，实际 %v", stored.CreatedAt)
	}
}

func TestReportService_Create_DeletedReportDoesNotBlock(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	first := mustCreate(t, svc, callerE001, "2024-01-10")
	if err := svc.Delete(ctx, first.ID, callerE001); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := svc.Create(ctx, createReq("2024-01-10", "重新提交"), callerE001); err != nil {
		t.Errorf("已删除日报不应阻止同日期创建，实际: %v", err)
	}
}

func TestReportService_Create_Validation(t *testing.T) {
	svc, repo, _ := setupTestReportService()

	tests := []struct {
		name   string
		req    *dto.CreateReportRequest
		caller Caller
		field  string
	}{
		{"缺少标题", &dto.CreateReportRequest{ReportDate: "2024-01-10", Content: "x"}, callerE001, "title"},
		{"标题超长", &dto.CreateReportRequest{ReportDate: "2024-01-10", Title: strings.Repeat("a", 101), Content: "x"}, callerE001, "title"},
		{"缺少内容", &dto.CreateReportRequest{ReportDate: "2024-01-10", Title: "A"}, callerE001, "content"},
		{"缺少日期", &dto.CreateReportRequest{Title: "A", Content: "x"}, callerE001, "report_date"},
		{"日期格式错误", &dto.CreateReportRequest{ReportDate: "2024/01/10", Title: "A", Content: "x"}, callerE001, "report_date"},
		{"员工编号超长", createReq("2024-01-10", "A"), Caller{EmployeeCode: "E0000000001", Role: model.RoleGeneral}, "employee_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req, tt.caller)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("期望 ValidationError，实际: %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("期望字段 %s，实际 %s", tt.field, vErr.Field)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("期望 VALIDATION_ERROR，实际 %s", KindOf(err))
			}
		})
	}

	if len(repo.reports) != 0 {
		t.Errorf("校验失败不应写入存储，实际 %d 条", len(repo.reports))
	}
}

func TestReportService_Create_TitleLengthCountsCharacters(t *testing.T) {
	svc, _, _ := setupTestReportService()

	title := strings.Repeat("報", 100)
	if _, err := svc.Create(context.Background(), createReq("2024-01-10", title), callerE001); err != nil {
		t.Errorf("100 个字符的标题应通过校验，实际: %v", err)
	}
}

func TestReportService_Create_StorageDuplicateIsTranslated(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	repo.forceDuplicate = true

	_, err := svc.Create(context.Background(), createReq("2024-01-10", "A"), callerE001)
	if !errors.Is(err, ErrReportDuplicateKey) {
		t.Fatalf("期望 ErrReportDuplicateKey，实际: %v", err)
	}
	if KindOf(err) != KindDuplicateException {
		t.Errorf("期望 DUPLICATE_EXCEPTION，实际 %s", KindOf(err))
	}
	if KindOf(err).Message() != KindDuplicateDate.Message() {
		t.Error("两类重复错误应使用同一提示文案")
	}
}

func TestReportService_Create_StorageError(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	repo.failWith = errStorage

	_, err := svc.Create(context.Background(), createReq("2024-01-10", "A"), callerE001)
	if !errors.Is(err, errStorage) {
		t.Errorf("期望透传存储错误，实际: %v", err)
	}
	if KindOf(err) != KindStorage {
		t.Errorf("期望 STORAGE_ERROR，实际 %s", KindOf(err))
	}
}

// ────────────────────── GetByID ──────────────────────

func TestReportService_GetByID(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	created := mustCreate(t, svc, callerE001, "2024-01-10")

	got, err := svc.GetByID(ctx, created.ID, callerE001)
	if err != nil {
		t.Fatalf("期望查询成功，实际: %v", err)
	}
	if got.ReportDate != "2024-01-10" || got.Title != "日报" {
		t.Errorf("查询结果不符: %+v", got)
	}

	if _, err := svc.GetByID(ctx, 999, callerE001); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("期望 ErrReportNotFound，实际: %v", err)
	}
}

func TestReportService_GetByID_DefaultPolicyAllowsOtherEmployees(t *testing.T) {
	svc, _, _ := setupTestReportService()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	if _, err := svc.GetByID(context.Background(), created.ID, callerE002); err != nil {
		t.Errorf("默认策略下详情不按所有者限制，实际: %v", err)
	}
}

func TestReportService_OwnerOnlyDetail(t *testing.T) {
	svc, _, _ := setupTestReportService(WithOwnerOnlyDetail(true))
	ctx := context.Background()

	created := mustCreate(t, svc, callerE001, "2024-01-10")

	if _, err := svc.GetByID(ctx, created.ID, callerE002); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("非本人详情期望 ErrReportNotFound，实际: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, updateReq("2024-01-11", "改"), callerE002); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("非本人更新期望 ErrReportNotFound，实际: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, callerE002); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("非本人删除期望 ErrReportNotFound，实际: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, callerAdmin); err != nil {
		t.Errorf("管理员应可查看，实际: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, callerE001); err != nil {
		t.Errorf("本人应可查看，实际: %v", err)
	}
}

// ────────────────────── ListVisible ──────────────────────

func TestReportService_ListVisible(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	mustCreate(t, svc, callerE001, "2024-01-10")
	mustCreate(t, svc, callerE002, "2024-01-10")
	mustCreate(t, svc, callerE001, "2024-01-11")
	deleted := mustCreate(t, svc, callerE002, "2024-01-12")
	if err := svc.Delete(ctx, deleted.ID, callerE002); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	general, err := svc.ListVisible(ctx, callerE001)
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if len(general) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(general))
	}
	for _, r := range general {
		if r.EmployeeCode != "E001" {
			t.Errorf("普通员工只能看到本人日报，实际包含 %s", r.EmployeeCode)
		}
	}

	admin, err := svc.ListVisible(ctx, callerAdmin)
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if len(admin) != 3 {
		t.Fatalf("管理员期望 3 条有效日报，实际 %d", len(admin))
	}
	for i := 1; i < len(admin); i++ {
		if admin[i-1].ID >= admin[i].ID {
			t.Errorf("期望按 ID 升序，实际 %d 在 %d 之前", admin[i-1].ID, admin[i].ID)
		}
	}
	for _, r := range admin {
		if r.ID == deleted.ID {
			t.Error("已删除日报不应出现在列表中")
		}
		if r.EmployeeName == "" {
			t.Errorf("日报 %d 缺少员工姓名", r.ID)
		}
	}
}

func TestReportService_ListVisible_UnknownRoleSeesNothing(t *testing.T) {
	svc, _, _ := setupTestReportService()

	mustCreate(t, svc, callerE001, "2024-01-10")
	got, err := svc.ListVisible(context.Background(), Caller{EmployeeCode: "E001", Role: "GUEST"})
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("未知角色期望 0 条，实际 %d", len(got))
	}
}

func TestReportService_ListVisible_EmployeeLookupFailureIsTolerated(t *testing.T) {
	svc, _, employeeRepo := setupTestReportService()

	mustCreate(t, svc, callerE001, "2024-01-10")
	employeeRepo.failWith = errStorage

	got, err := svc.ListVisible(context.Background(), callerE001)
	if err != nil {
		t.Fatalf("员工目录故障不应导致列表失败，实际: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeName != "" {
		t.Errorf("期望 1 条且无员工姓名，实际 %+v", got)
	}
}

func TestReportService_ListByEmployee(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	mustCreate(t, svc, callerE001, "2024-01-10")
	mustCreate(t, svc, callerE002, "2024-01-10")

	got, err := svc.ListByEmployee(ctx, "E002", callerAdmin)
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeCode != "E002" {
		t.Errorf("期望仅 E002 的 1 条日报，实际 %+v", got)
	}

	// 普通员工查看他人仍受可见性规则约束
	got, err = svc.ListByEmployee(ctx, "E002", callerE001)
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("期望 0 条，实际 %d", len(got))
	}
}

// ────────────────────── Update ──────────────────────

func TestReportService_Update_PreservesImmutableFields(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	ctx := context.Background()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	createdAt := repo.raw(created.ID).CreatedAt

	req := updateReq("2024-01-11", "修改后")
	req.EmployeeCode = "E002"
	updated, err := svc.Update(ctx, created.ID, req, callerE001)
	if err != nil {
		t.Fatalf("期望更新成功，实际: %v", err)
	}

	stored := repo.raw(created.ID)
	if stored.ReportDate.String() != "2024-01-11" {
		t.Errorf("期望日期 2024-01-11，实际 %s", stored.ReportDate)
	}
	if stored.Title != "修改后" || stored.Content != "y" {
		t.Errorf("标题/内容未更新: %+v", stored)
	}
	if stored.EmployeeCode != "E001" {
		t.Errorf("员工编号不可变更，实际 %s", stored.EmployeeCode)
	}
	if !stored.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at 不可变更，期望 %v，实际 %v", createdAt, stored.CreatedAt)
	}
	if !stored.UpdatedAt.After(createdAt) {
		t.Errorf("updated_at 应晚于 created_at，实际 %v", stored.UpdatedAt)
	}
	if stored.DeleteFlg {
		t.Error("更新后 delete_flg 应为 false")
	}
	if !updated.CreatedAt.Equal(createdAt) || updated.EmployeeCode != "E001" {
		t.Errorf("响应中的不可变字段不符: %+v", updated)
	}
}

func TestReportService_Update_SameDateKeepsOwnRecord(t *testing.T) {
	svc, _, _ := setupTestReportService()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	if _, err := svc.Update(context.Background(), created.ID, updateReq("2024-01-10", "仅改标题"), callerE001); err != nil {
		t.Errorf("日期不变时不应与自身冲突，实际: %v", err)
	}
}

func TestReportService_Update_DuplicateDate(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	mustCreate(t, svc, callerE001, "2024-01-10")
	second := mustCreate(t, svc, callerE001, "2024-01-11")

	_, err := svc.Update(ctx, second.ID, updateReq("2024-01-10", "冲突"), callerE001)
	if !errors.Is(err, ErrDuplicateReportDate) {
		t.Errorf("期望 ErrDuplicateReportDate，实际: %v", err)
	}
}

func TestReportService_Update_DuplicateCheckUsesOwner(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	// 管理员修改 E001 的日报时，以 E001 的日报判断重复
	mustCreate(t, svc, callerAdmin, "2024-01-11")
	target := mustCreate(t, svc, callerE001, "2024-01-10")

	if _, err := svc.Update(ctx, target.ID, updateReq("2024-01-11", "A"), callerAdmin); err != nil {
		t.Errorf("其他员工的同日期日报不构成重复，实际: %v", err)
	}

	mustCreate(t, svc, callerE001, "2024-01-12")
	_, err := svc.Update(ctx, target.ID, updateReq("2024-01-12", "B"), callerAdmin)
	if !errors.Is(err, ErrDuplicateReportDate) {
		t.Errorf("期望 ErrDuplicateReportDate，实际: %v", err)
	}
}

func TestReportService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupTestReportService()

	// 不存在的记录优先返回 NOT_FOUND，即使请求体不合法
	_, err := svc.Update(context.Background(), 42, &dto.UpdateReportRequest{}, callerE001)
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("期望 ErrReportNotFound，实际: %v", err)
	}
}

func TestReportService_Update_Validation(t *testing.T) {
	svc, repo, _ := setupTestReportService()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	before := *repo.raw(created.ID)

	_, err := svc.Update(context.Background(), created.ID, updateReq("2024-01-11", ""), callerE001)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Fatalf("期望 title 校验错误，实际: %v", err)
	}
	after := repo.raw(created.ID)
	if after.Title != before.Title || !after.UpdatedAt.Equal(before.UpdatedAt) || !after.ReportDate.Equal(before.ReportDate) {
		t.Error("校验失败不应修改存储")
	}
}

func TestReportService_Update_StorageDuplicateIsTranslated(t *testing.T) {
	svc, repo, _ := setupTestReportService()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	repo.forceDuplicate = true

	_, err := svc.Update(context.Background(), created.ID, updateReq("2024-01-11", "A"), callerE001)
	if !errors.Is(err, ErrReportDuplicateKey) {
		t.Errorf("期望 ErrReportDuplicateKey，实际: %v", err)
	}
}

// ────────────────────── Delete ──────────────────────

func TestReportService_Delete(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	ctx := context.Background()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	createdAt := repo.raw(created.ID).CreatedAt

	if err := svc.Delete(ctx, created.ID, callerE001); err != nil {
		t.Fatalf("期望删除成功，实际: %v", err)
	}

	stored := repo.raw(created.ID)
	if stored == nil {
		t.Fatal("逻辑删除不应移除记录")
	}
	if !stored.DeleteFlg {
		t.Error("期望 delete_flg=true")
	}
	if stored.Title != "日报" || stored.Content != "x" {
		t.Error("逻辑删除不应修改内容")
	}
	if !stored.UpdatedAt.After(createdAt) {
		t.Errorf("删除应刷新 updated_at，实际 %v", stored.UpdatedAt)
	}
	if !stored.CreatedAt.Equal(createdAt) {
		t.Error("删除不应修改 created_at")
	}
}

func TestReportService_DeleteThenReadOrUpdate(t *testing.T) {
	svc, _, _ := setupTestReportService()
	ctx := context.Background()

	created := mustCreate(t, svc, callerE001, "2024-01-10")
	if err := svc.Delete(ctx, created.ID, callerE001); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID, callerE001); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("删除后查询期望 ErrReportNotFound，实际: %v", err)
	}
	_, err := svc.Update(ctx, created.ID, updateReq("2024-01-11", "A"), callerE001)
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("删除后更新期望 ErrReportNotFound，实际: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, callerE001); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("重复删除期望 ErrReportNotFound，实际: %v", err)
	}

	for _, caller := range []Caller{callerE001, callerAdmin} {
		list, err := svc.ListVisible(ctx, caller)
		if err != nil {
			t.Fatalf("列表失败: %v", err)
		}
		for _, r := range list {
			if r.ID == created.ID {
				t.Errorf("%s 的列表仍包含已删除日报", caller.Role)
			}
		}
	}
}

// ────────────────────── 唯一性 ──────────────────────

func TestReportService_ActiveReportsStayUnique(t *testing.T) {
	svc, repo, _ := setupTestReportService()
	ctx := context.Background()

	dates := []string{"2024-01-10", "2024-01-11", "2024-01-10", "2024-01-12", "2024-01-11"}
	for _, caller := range []Caller{callerE001, callerE002} {
		for _, d := range dates {
			_, _ = svc.Create(ctx, createReq(d, "A"), caller)
		}
	}
	all, _ := repo.List(ctx)
	for i, r := range all {
		_, _ = svc.Update(ctx, r.ID, updateReq(dates[(i+1)%len(dates)], "B"), callerAdmin)
	}

	all, _ = repo.List(ctx)
	seen := make(map[string]bool)
	for _, r := range all {
		key := r.EmployeeCode + "/" + r.ReportDate.String()
		if seen[key] {
			t.Errorf("存在重复的有效日报 %s", key)
		}
		seen[key] = true
	}
}
