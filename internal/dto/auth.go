package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required,max=10"`
	Password     string `json:"password"      binding:"required"`
}

// TokenResponse Token 响应
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int              `json:"expires_in"` // Access Token 有效期（秒）
	Employee    EmployeeResponse `json:"employee"`
}

// EmployeeResponse 员工简要信息
type EmployeeResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Role string `json:"role"`
}
