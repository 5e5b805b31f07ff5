package service

import "daily-report/backend/internal/model"

// Caller 调用方身份，由认证中间件从会话中解析
type Caller struct {
	EmployeeCode string
	Role         model.Role
}

// CanView 日报可见性规则：ADMIN 可见全部，GENERAL 仅可见本人提交的日报。
// 未知角色一律不可见。
func CanView(role model.Role, callerCode string, report *model.Report) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleGeneral:
		return report.EmployeeCode == callerCode
	default:
		return false
	}
}

// FilterVisible 保持原有顺序，过滤出调用方可见的日报
func FilterVisible(caller Caller, reports []model.Report) []model.Report {
	visible := make([]model.Report, 0, len(reports))
	for i := range reports {
		if CanView(caller.Role, caller.EmployeeCode, &reports[i]) {
			visible = append(visible, reports[i])
		}
	}
	return visible
}
