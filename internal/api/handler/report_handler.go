package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"daily-report/backend/internal/dto"
	"daily-report/backend/internal/service"
	"daily-report/backend/pkg/response"
)

// ReportHandler 日报模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// List 当前员工可见的日报列表
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	reports, err := h.reportSvc.ListVisible(c.Request.Context(), caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OKList(c, reports, len(reports))
}

// ListByEmployee 指定员工的日报列表（管理员）
// GET /api/v1/employees/:code/reports
func (h *ReportHandler) ListByEmployee(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	code := c.Param("code")
	if code == "" || len(code) > 10 {
		response.BadRequest(c, 10001, "员工编号无效")
		return
	}

	reports, err := h.reportSvc.ListByEmployee(c.Request.Context(), code, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OKList(c, reports, len(reports))
}

// Get 日报详情
// GET /api/v1/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// Create 提交日报
// POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	report, err := h.reportSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.Created(c, report)
}

// Update 修改日报
// PUT /api/v1/reports/:id
func (h *ReportHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	report, err := h.reportSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// Delete 逻辑删除日报
// DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	if err := h.reportSvc.Delete(c.Request.Context(), id, caller); err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, nil)
}

func parseReportID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "日报 ID 无效")
		return 0, false
	}
	return uint(id), true
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 30004, service.KindValidation.Message(), validationErr.Field)
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 30001, service.KindNotFound.Message())
	case errors.Is(err, service.ErrDuplicateReportDate):
		response.Conflict(c, 30002, service.KindDuplicateDate.Message())
	case errors.Is(err, service.ErrReportDuplicateKey):
		response.Conflict(c, 30003, service.KindDuplicateException.Message())
	default:
		response.InternalError(c)
	}
}
