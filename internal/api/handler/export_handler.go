package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"daily-report/backend/internal/service"
	"daily-report/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReports 导出当前员工可见的日报
// GET /api/v1/reports/export
func (h *ExportHandler) ExportReports(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportVisible(c.Request.Context(), caller)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
