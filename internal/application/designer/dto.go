package designer

import (
	"time"

	"github.com/google/uuid"

	"github.com/labeldesk/backend/internal/domain/designer"
)

// =============================================================================
// Design DTOs
// =============================================================================

// PageDTO describes the physical sheet a design targets
type PageDTO struct {
	Preset   string  `json:"preset" binding:"required"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// CreateDesignRequest represents a request to create a new label design
type CreateDesignRequest struct {
	Kind        string             `json:"kind" binding:"required"`
	Name        string             `json:"name" binding:"required,min=1,max=100"`
	Description string             `json:"description" binding:"max=500"`
	Page        PageDTO            `json:"page" binding:"required"`
	Elements    []designer.Element `json:"elements"`
}

// UpdateDesignRequest represents a request to update a label design.
// Nil fields are left unchanged; a nil Elements slice keeps the stored set.
type UpdateDesignRequest struct {
	Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description" binding:"omitempty,max=500"`
	Page        *PageDTO           `json:"page"`
	Elements    []designer.Element `json:"elements"`
}

// ListDesignsRequest represents a request to list designs
type ListDesignsRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Kind     string `form:"kind"`
	Status   string `form:"status"`
}

// DesignResponse represents a label design response
type DesignResponse struct {
	ID          string             `json:"id"`
	TenantID    string             `json:"tenant_id"`
	Kind        string             `json:"kind"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Page        PageDTO            `json:"page"`
	Elements    []designer.Element `json:"elements"`
	IsDefault   bool               `json:"is_default"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ListDesignsResponse represents a paginated list of designs
type ListDesignsResponse struct {
	Items []DesignResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// ValidateElementsRequest carries an element set for standalone validation
type ValidateElementsRequest struct {
	Elements []designer.Element `json:"elements" binding:"required"`
}

// ValidationIssueDTO describes a single element validation failure
type ValidationIssueDTO struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateElementsResponse reports the outcome of element validation
type ValidateElementsResponse struct {
	Valid  bool                 `json:"valid"`
	Issues []ValidationIssueDTO `json:"issues,omitempty"`
}

// PagePresetResponse describes an available page preset
type PagePresetResponse struct {
	Code     string  `json:"code"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// LabelKindResponse describes an available label kind
type LabelKindResponse struct {
	Code string `json:"code"`
}

// SymbologyResponse describes an available barcode symbology
type SymbologyResponse struct {
	Code      string `json:"code"`
	TwoDimens bool   `json:"two_dimensional"`
}

// =============================================================================
// Session DTOs
// =============================================================================

// OpenSessionRequest represents a request to open an editing session
type OpenSessionRequest struct {
	DesignID uuid.UUID `json:"design_id" binding:"required"`
}

// SessionResponse represents the observable state of an editing session
type SessionResponse struct {
	SessionID     string             `json:"session_id"`
	DesignID      string             `json:"design_id"`
	Page          PageDTO            `json:"page"`
	Elements      []designer.Element `json:"elements"`
	Selection     []string           `json:"selection"`
	Hovered       string             `json:"hovered,omitempty"`
	Zoom          float64            `json:"zoom"`
	GridEnabled   bool               `json:"grid_enabled"`
	GridSize      float64            `json:"grid_size_percent"`
	CanUndo       bool               `json:"can_undo"`
	CanRedo       bool               `json:"can_redo"`
	GestureActive bool               `json:"gesture_active"`
}

// RectDTO is a rectangle in percent-of-page coordinates
type RectDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SelectionRequest mutates the session selection. Exactly one of ElementID,
// Rect, or Clear applies; Toggle and Additive refine the first two.
type SelectionRequest struct {
	ElementID *uuid.UUID `json:"element_id"`
	Toggle    bool       `json:"toggle"`
	Rect      *RectDTO   `json:"rect"`
	Additive  bool       `json:"additive"`
	Clear     bool       `json:"clear"`
}

// BeginGestureRequest starts a drag or resize gesture
type BeginGestureRequest struct {
	Kind      string    `json:"kind" binding:"required,oneof=drag resize"`
	ElementID uuid.UUID `json:"element_id" binding:"required"`
	Handle    string    `json:"handle"`
}

// UpdateGestureRequest applies a cumulative pixel delta to the active gesture
type UpdateGestureRequest struct {
	DxPx float64 `json:"dx_px"`
	DyPx float64 `json:"dy_px"`
}

// OperationRequest applies a discrete editing operation to a session.
// Op selects the operation; the remaining fields carry its parameters.
type OperationRequest struct {
	Op string `json:"op" binding:"required"`

	// rotate
	Degrees float64 `json:"degrees"`
	// flip
	Horizontal bool `json:"horizontal"`
	// align
	Edge string `json:"edge"`
	// distribute
	Axis string `json:"axis"`
	// z-order
	Move string `json:"move"`
	// lock / visibility toggles
	ElementID *uuid.UUID `json:"element_id"`
	// insert
	Element *designer.Element `json:"element"`
	// delete-all
	Confirm bool `json:"confirm"`
	// view state
	Zoom        *float64 `json:"zoom"`
	GridEnabled *bool    `json:"grid_enabled"`
	GridSize    *float64 `json:"grid_size_percent"`
}

// OperationResponse reports the effect of a discrete operation
type OperationResponse struct {
	// Affected is the number of elements the operation touched, when the
	// operation counts them (delete, copy)
	Affected int `json:"affected,omitempty"`
	// Created holds elements produced by duplicate, paste, or insert
	Created []designer.Element `json:"created,omitempty"`
	// Session is the post-operation session state
	Session *SessionResponse `json:"session"`
}

// PreviewRequest renders a session frame
type PreviewRequest struct {
	Zoom          float64 `form:"zoom" binding:"omitempty,gt=0,lte=10"`
	ShowGrid      *bool   `form:"show_grid"`
	ShowSelection bool    `form:"show_selection"`
}

// PreviewResponse carries an encoded PNG frame
type PreviewResponse struct {
	PNGData  []byte `json:"-"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`
}
