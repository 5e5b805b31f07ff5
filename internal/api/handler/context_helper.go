package handler

import (
	"github.com/gin-gonic/gin"

	"daily-report/backend/internal/model"
	"daily-report/backend/internal/service"
	"daily-report/backend/pkg/response"
)

// MustGetEmployeeCode 从 Gin 上下文中安全提取 employee_code。
// 如果 JWT 中间件未正确注入 employee_code，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetEmployeeCode(c *gin.Context) (string, bool) {
	return mustGetString(c, "employee_code")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetCaller 组合员工编号与角色，作为服务层的调用方身份
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	code, ok := MustGetEmployeeCode(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{EmployeeCode: code, Role: model.Role(role)}, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
