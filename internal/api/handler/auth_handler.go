package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daily-report/backend/internal/dto"
	"daily-report/backend/internal/service"
	"daily-report/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 员工登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "员工编号或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 登出，将当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, _ := exp.(time.Time)

	if jti != "" {
		if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
			response.InternalError(c)
			return
		}
	}

	response.OK(c, nil)
}

// GetCurrentEmployee 当前登录员工信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentEmployee(c *gin.Context) {
	code, ok := MustGetEmployeeCode(c)
	if !ok {
		return
	}

	me, err := h.authSvc.GetCurrentEmployee(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 11002, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, me)
}
