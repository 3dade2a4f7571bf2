package handler

import (
	exportapp "github.com/labeldesk/backend/internal/application/export"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportHandler handles export job API endpoints
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export godoc
// @Summary      Export a design
// @Description  Render a design to PNG or PDF, store the artifact, and create an export job
// @Tags         exports
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body exportapp.ExportRequest true "Export request"
// @Success      201 {object} dto.Response{data=exportapp.ExportJobResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /export/jobs [post]
func (h *ExportHandler) Export(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req exportapp.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.exportService.ExportDesign(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, job)
}

// GetJob godoc
// @Summary      Get export job by ID
// @Tags         exports
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=exportapp.ExportJobResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /export/jobs/{id} [get]
func (h *ExportHandler) GetJob(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := h.exportService.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, job)
}

// ListJobs godoc
// @Summary      List export jobs
// @Description  List export jobs with pagination, optionally filtered by status or format
// @Tags         exports
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter"
// @Param        format query string false "Format filter"
// @Success      200 {object} dto.Response{data=exportapp.ListJobsResponse}
// @Router       /export/jobs [get]
func (h *ExportHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := exportapp.ListJobsRequest{
		Page:     1,
		PageSize: 20,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.exportService.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJobsByDesign godoc
// @Summary      Get export jobs for a design
// @Tags         exports
// @Produce      json
// @Param        design_id path string true "Design ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]exportapp.ExportJobResponse}
// @Router       /export/jobs/by-design/{design_id} [get]
func (h *ExportHandler) GetJobsByDesign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("design_id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	jobs, err := h.exportService.GetJobsByDesign(c.Request.Context(), tenantID, designID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, jobs)
}

// Download godoc
// @Summary      Get a fresh download URL for a completed job
// @Description  Generate a new pre-signed URL for the stored artifact
// @Tags         exports
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=exportapp.DownloadResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /export/jobs/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	download, err := h.exportService.RefreshDownloadURL(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, download)
}

// GetFormats godoc
// @Summary      List available export formats
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=[]exportapp.FormatResponse}
// @Router       /export/formats [get]
func (h *ExportHandler) GetFormats(c *gin.Context) {
	h.Success(c, h.exportService.GetFormats())
}
