package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// CatalogHandler 课程目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListCourses 检索课程
// GET /api/v1/catalog/courses?q=&category=&credits=&term=&department=&sort=&only_available=&exclude_completed=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if !MustBindQuery(c, &req) {
		return
	}

	resp, err := h.catalogSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OKPage(c, resp.Items, int64(resp.Total), resp.Page, resp.PageSize)
}

// GetCourse 课程详情
// GET /api/v1/catalog/courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "课程ID不能为空")
	if !ok {
		return
	}

	resp, err := h.catalogSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, resp)
}

// Integrity 目录完整性报告
// GET /api/v1/catalog/integrity
func (h *CatalogHandler) Integrity(c *gin.Context) {
	response.OK(c, h.catalogSvc.Integrity(c.Request.Context()))
}

func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20001, "课程不存在")
	case errors.Is(err, service.ErrInvalidCategory):
		response.BadRequest(c, 20002, err.Error())
	case errors.Is(err, service.ErrInvalidSortBy):
		response.BadRequest(c, 20003, err.Error())
	default:
		response.InternalError(c)
	}
}
