// Package rendering implements the preview and export pipeline: raster
// surfaces, barcode/QR symbol encoding, the element paint pass, and the
// PDF backends. It consumes the same unit profile as the interactive
// editor so preview and print output never diverge.
package rendering

import (
	"context"
	"time"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/units"
)

// RasterRequest contains the parameters for rendering a design to a bitmap
type RasterRequest struct {
	// Page is the physical sheet the design targets
	Page designer.PageDescriptor
	// Elements in insertion order; the pipeline applies visibility and
	// z-order itself
	Elements []designer.Element
	// Zoom scales the output bitmap (1.0 = 96 DPI equivalent)
	Zoom float64
	// ShowGrid draws the alignment grid behind the elements
	ShowGrid bool
	// GridSizePercent is the grid increment; ignored unless ShowGrid is set
	GridSizePercent float64
	// Selection draws selection decorations around the listed element ids
	Selection map[string]bool
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RasterResult contains the output from a raster render
type RasterResult struct {
	// PNGData is the encoded bitmap
	PNGData []byte
	// WidthPx and HeightPx are the bitmap dimensions
	WidthPx  int
	HeightPx int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFResult contains the output from a PDF render
type PDFResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// RasterRenderer renders a design to an encoded bitmap
type RasterRenderer interface {
	RenderPNG(ctx context.Context, req *RasterRequest) (*RasterResult, error)
}

// PDFRenderer renders a design to a PDF document
type PDFRenderer interface {
	RenderPDF(ctx context.Context, req *RasterRequest) (*PDFResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// Profile returns the unit profile every renderer in this package shares.
func Profile() units.Profile {
	return units.DefaultProfile()
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidPage     = "INVALID_PAGE_SIZE"
	ErrCodeInvalidElements = "INVALID_ELEMENTS"
	ErrCodeEncodeFailed    = "SYMBOL_ENCODE_FAILED"
	ErrCodeStorageFailed   = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
