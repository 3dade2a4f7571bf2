package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// RasterPDFRenderer wraps the raster pipeline output into a single-page
// PDF whose page box matches the physical sheet. It needs no browser and
// is the default PDF backend; the chromedp renderer covers the vector
// format.
type RasterPDFRenderer struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewRasterPDFRenderer creates a pdfcpu-backed PDF renderer
func NewRasterPDFRenderer(pipeline *Pipeline, logger *zap.Logger) *RasterPDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RasterPDFRenderer{
		pipeline: pipeline,
		logger:   logger,
	}
}

// exportZoom oversamples the raster for print so a 100mm label lands
// around 1100px wide (roughly 280 DPI) instead of screen resolution.
const exportZoom = 3.0

// RenderPDF rasterizes the design and imports the bitmap as a full-bleed
// PDF page in the exact physical dimensions.
func (r *RasterPDFRenderer) RenderPDF(ctx context.Context, req *RasterRequest) (*PDFResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidElements, "render request is nil", nil)
	}
	if req.Page.IsZero() {
		return nil, NewRenderError(ErrCodeInvalidPage, "page dimensions must be positive", nil)
	}

	start := time.Now()

	rasterReq := *req
	rasterReq.Zoom = exportZoom
	rasterReq.ShowGrid = false
	rasterReq.Selection = nil

	raster, err := r.pipeline.RenderPNG(ctx, &rasterReq)
	if err != nil {
		return nil, err
	}

	// Page box in points; pdfcpu positions the image full-bleed.
	widthPt := r.pipeline.profile.MMToPt(req.Page.WidthMM)
	heightPt := r.pipeline.profile.MMToPt(req.Page.HeightMM)
	importSpec := fmt.Sprintf("dim:%.2f %.2f, pos:full, sc:1.0 abs", widthPt, heightPt)

	imp, err := pdfapi.Import(importSpec, types.POINTS)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "invalid PDF import parameters", err)
	}

	var out bytes.Buffer
	imgs := []io.Reader{bytes.NewReader(raster.PNGData)}
	if err := pdfapi.ImportImages(nil, &out, imgs, imp, nil); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF image import failed", err)
	}

	renderDuration := time.Since(start)
	r.logger.Info("raster PDF rendered",
		zap.Int("bytes", out.Len()),
		zap.Duration("duration", renderDuration))

	return &PDFResult{
		PDFData:        out.Bytes(),
		PageCount:      1,
		RenderDuration: renderDuration,
	}, nil
}

// Close implements PDFRenderer; the raster backend holds no resources
func (r *RasterPDFRenderer) Close() error {
	return nil
}

// Ensure RasterPDFRenderer implements PDFRenderer
var _ PDFRenderer = (*RasterPDFRenderer)(nil)
