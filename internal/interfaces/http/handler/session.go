package handler

import (
	"net/http"

	designerapp "github.com/labeldesk/backend/internal/application/designer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler handles editing session API endpoints
type SessionHandler struct {
	BaseHandler
	sessionService *designerapp.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *designerapp.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// sessionID parses the :id path parameter
func (h *SessionHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Open godoc
// @Summary      Open an editing session
// @Description  Load a design into an in-memory editing session with undo history
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body designerapp.OpenSessionRequest true "Session open request"
// @Success      201 {object} dto.Response{data=designerapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req designerapp.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, session)
}

// Get godoc
// @Summary      Get session state
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// Close godoc
// @Summary      Close an editing session
// @Description  Discard the session without saving. Unsaved edits are lost.
// @Tags         sessions
// @Param        id path string true "Session ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id} [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Close(tenantID, sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Save godoc
// @Summary      Save session edits back to the design
// @Description  Persist the session's current elements and page to the stored design
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.DesignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id}/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	design, err := h.sessionService.Save(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, design)
}

// UpdateSelection godoc
// @Summary      Update the session selection
// @Description  Select by element ID, by rectangle, or clear the selection
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body designerapp.SelectionRequest true "Selection request"
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/selection [put]
func (h *SessionHandler) UpdateSelection(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req designerapp.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.UpdateSelection(tenantID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// BeginGesture godoc
// @Summary      Begin a drag or resize gesture
// @Tags         gestures
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body designerapp.BeginGestureRequest true "Gesture start request"
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id}/gesture [post]
func (h *SessionHandler) BeginGesture(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req designerapp.BeginGestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.BeginGesture(tenantID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// UpdateGesture godoc
// @Summary      Update the active gesture
// @Description  Apply a cumulative pixel delta from the gesture anchor
// @Tags         gestures
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body designerapp.UpdateGestureRequest true "Gesture delta"
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/gesture [put]
func (h *SessionHandler) UpdateGesture(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req designerapp.UpdateGestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.UpdateGesture(tenantID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// EndGesture godoc
// @Summary      Commit the active gesture
// @Description  Finish the gesture and record it as a single undo step
// @Tags         gestures
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/gesture/end [post]
func (h *SessionHandler) EndGesture(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.EndGesture(tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// CancelGesture godoc
// @Summary      Cancel the active gesture
// @Description  Revert elements to their pre-gesture geometry
// @Tags         gestures
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/gesture/cancel [post]
func (h *SessionHandler) CancelGesture(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.CancelGesture(tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// Apply godoc
// @Summary      Apply a discrete editing operation
// @Description  Dispatch operations such as rotate, flip, align, distribute, duplicate, copy, paste, insert, delete, z-order, lock and visibility toggles, and view changes
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body designerapp.OperationRequest true "Operation request"
// @Success      200 {object} dto.Response{data=designerapp.OperationResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id}/operations [post]
func (h *SessionHandler) Apply(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req designerapp.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.sessionService.Apply(tenantID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Undo godoc
// @Summary      Undo the last committed operation
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/undo [post]
func (h *SessionHandler) Undo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Undo(tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// Redo godoc
// @Summary      Redo the last undone operation
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=designerapp.SessionResponse}
// @Router       /designer/sessions/{id}/redo [post]
func (h *SessionHandler) Redo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Redo(tenantID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// Preview godoc
// @Summary      Render a PNG preview of the session
// @Description  Render the current session state, optionally with grid and selection chrome
// @Tags         sessions
// @Produce      png
// @Param        id path string true "Session ID" format(uuid)
// @Param        zoom query number false "Zoom factor" default(1)
// @Param        show_grid query bool false "Overlay the alignment grid"
// @Param        show_selection query bool false "Overlay selection outlines"
// @Success      200 {file} binary
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designer/sessions/{id}/preview [get]
func (h *SessionHandler) Preview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req designerapp.PreviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	frame, err := h.sessionService.Preview(c.Request.Context(), tenantID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", frame.PNGData)
}
