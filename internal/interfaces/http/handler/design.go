package handler

import (
	designerapp "github.com/labeldesk/backend/internal/application/designer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DesignHandler handles label design API endpoints
type DesignHandler struct {
	BaseHandler
	designService *designerapp.DesignService
}

// NewDesignHandler creates a new DesignHandler
func NewDesignHandler(designService *designerapp.DesignService) *DesignHandler {
	return &DesignHandler{
		designService: designService,
	}
}

// Create godoc
// @Summary      Create a label design
// @Description  Create a new label design for a label kind
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body designerapp.CreateDesignRequest true "Design creation request"
// @Success      201 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs [post]
func (h *DesignHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req designerapp.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	design, err := h.designService.CreateDesign(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, design)
}

// GetByID godoc
// @Summary      Get design by ID
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs/{id} [get]
func (h *DesignHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	design, err := h.designService.GetDesign(c.Request.Context(), tenantID, designID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// List godoc
// @Summary      List label designs
// @Description  List designs with pagination, optionally filtered by kind, status, or name search
// @Tags         designs
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        kind query string false "Label kind filter"
// @Param        status query string false "Status filter (ACTIVE, ARCHIVED)"
// @Success      200 {object} dto.Response{data=designerapp.ListDesignsResponse}
// @Router       /designer/designs [get]
func (h *DesignHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := designerapp.ListDesignsRequest{
		Page:     1,
		PageSize: 20,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.designService.ListDesigns(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// Update godoc
// @Summary      Update a label design
// @Description  Update name, description, page, or elements of a design
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Param        request body designerapp.UpdateDesignRequest true "Design update request"
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs/{id} [put]
func (h *DesignHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	var req designerapp.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	design, err := h.designService.UpdateDesign(c.Request.Context(), tenantID, designID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// Delete godoc
// @Summary      Delete a label design
// @Description  Delete a design. The default design of a kind cannot be deleted.
// @Tags         designs
// @Param        id path string true "Design ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs/{id} [delete]
func (h *DesignHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	if err := h.designService.DeleteDesign(c.Request.Context(), tenantID, designID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefault godoc
// @Summary      Set a design as the default for its label kind
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs/{id}/default [post]
func (h *DesignHandler) SetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	design, err := h.designService.SetDefaultDesign(c.Request.Context(), tenantID, designID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// Archive godoc
// @Summary      Archive a label design
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Router       /designer/designs/{id}/archive [post]
func (h *DesignHandler) Archive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	design, err := h.designService.ArchiveDesign(c.Request.Context(), tenantID, designID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// Restore godoc
// @Summary      Restore an archived label design
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Router       /designer/designs/{id}/restore [post]
func (h *DesignHandler) Restore(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design ID format")
		return
	}

	design, err := h.designService.RestoreDesign(c.Request.Context(), tenantID, designID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// GetByKind godoc
// @Summary      Get all designs for a label kind
// @Tags         designs
// @Produce      json
// @Param        kind path string true "Label kind"
// @Success      200 {object} dto.Response{data=[]designerapp.DesignResponse}
// @Router       /designer/designs/by-kind/{kind} [get]
func (h *DesignHandler) GetByKind(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	kind := c.Param("kind")
	if kind == "" {
		h.BadRequest(c, "Label kind is required")
		return
	}

	designs, err := h.designService.GetDesignsByKind(c.Request.Context(), tenantID, kind)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, designs)
}

// GetDefault godoc
// @Summary      Get the default design for a label kind
// @Tags         designs
// @Produce      json
// @Param        kind path string true "Label kind"
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/designs/default/{kind} [get]
func (h *DesignHandler) GetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	kind := c.Param("kind")
	if kind == "" {
		h.BadRequest(c, "Label kind is required")
		return
	}

	design, err := h.designService.GetDefaultDesign(c.Request.Context(), tenantID, kind)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// ValidateElements godoc
// @Summary      Validate an element set without persisting it
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        request body designerapp.ValidateElementsRequest true "Elements to validate"
// @Success      200 {object} dto.Response{data=designerapp.ValidateElementsResponse}
// @Router       /designer/designs/validate [post]
func (h *DesignHandler) ValidateElements(c *gin.Context) {
	var req designerapp.ValidateElementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, h.designService.ValidateElements(req))
}

// GetPagePresets godoc
// @Summary      List available page presets
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=[]designerapp.PagePresetResponse}
// @Router       /designer/page-presets [get]
func (h *DesignHandler) GetPagePresets(c *gin.Context) {
	h.Success(c, h.designService.GetPagePresets())
}

// GetLabelKinds godoc
// @Summary      List available label kinds
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=[]designerapp.LabelKindResponse}
// @Router       /designer/label-kinds [get]
func (h *DesignHandler) GetLabelKinds(c *gin.Context) {
	h.Success(c, h.designService.GetLabelKinds())
}

// GetSymbologies godoc
// @Summary      List available barcode symbologies
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=[]designerapp.SymbologyResponse}
// @Router       /designer/symbologies [get]
func (h *DesignHandler) GetSymbologies(c *gin.Context) {
	h.Success(c, h.designService.GetSymbologies())
}
