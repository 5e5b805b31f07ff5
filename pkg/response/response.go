package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构，code=0 表示成功
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ListData 列表响应数据
type ListData struct {
	List  interface{} `json:"list"`
	Total int         `json:"total"`
}

const (
	codeOK          = 0
	messageOK       = "success"
	codeInternal    = 50000
	messageInternal = "服务器内部错误"
)

// ── 成功响应 ──

func success(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, Response{Code: codeOK, Message: messageOK, Data: data})
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

// OKList 200 列表成功
func OKList(c *gin.Context, list interface{}, total int) {
	OK(c, ListData{List: list, Total: total})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	ErrorWithDetails(c, httpStatus, code, message, "")
}

// ErrorWithDetails 带详情的错误响应，details 通常为出错字段名
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Details: details})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, code int, message string) {
	Error(c, http.StatusTooManyRequests, code, message)
}

// InternalError 500，不向客户端暴露错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, codeInternal, messageInternal)
}
