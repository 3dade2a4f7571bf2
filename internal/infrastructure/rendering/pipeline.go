package rendering

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/units"
)

// Canvas colors shared by preview and export rasters
var (
	colorPaper     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorGrid      = color.RGBA{R: 0xE4, G: 0xE7, B: 0xEB, A: 0xFF}
	colorInk       = color.RGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	colorImageSlot = color.RGBA{R: 0xF0, G: 0xF2, B: 0xF5, A: 0xFF}
	colorSelection = color.RGBA{R: 0x2B, G: 0x6C, B: 0xE6, A: 0xFF}
)

// Pipeline paints a design onto a raster surface: paper, optional grid,
// visible elements in z-order, then selection decorations. Every physical
// dimension flows through the shared unit profile.
type Pipeline struct {
	symbols *SymbolRenderer
	profile units.Profile
	logger  *zap.Logger
}

// NewPipeline creates a raster pipeline
func NewPipeline(symbols *SymbolRenderer, profile units.Profile, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !profile.Valid() {
		profile = units.DefaultProfile()
	}
	return &Pipeline{
		symbols: symbols,
		profile: profile,
		logger:  logger,
	}
}

// RenderPNG paints the design and returns it PNG-encoded
func (p *Pipeline) RenderPNG(ctx context.Context, req *RasterRequest) (*RasterResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidElements, "render request is nil", nil)
	}
	if req.Page.IsZero() {
		return nil, NewRenderError(ErrCodeInvalidPage, "page dimensions must be positive", nil)
	}

	start := time.Now()

	zoom := req.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	pageWPx := int(math.Round(req.Page.WidthMM * p.profile.MMToPx * zoom))
	pageHPx := int(math.Round(req.Page.HeightMM * p.profile.MMToPx * zoom))
	surface := NewSurface(pageWPx, pageHPx, colorPaper)

	if req.ShowGrid {
		p.paintGrid(surface, req.GridSizePercent)
	}

	for _, element := range paintOrder(req.Elements) {
		select {
		case <-ctx.Done():
			return nil, NewRenderError(ErrCodeRenderTimeout, "rendering cancelled", ctx.Err())
		default:
		}
		p.paintElement(ctx, surface, element, zoom)
		if req.Selection[element.ID.String()] {
			surface.StrokeRect(p.elementRect(surface, element), colorSelection, 2)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image()); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PNG encoding failed", err)
	}

	return &RasterResult{
		PNGData:        buf.Bytes(),
		WidthPx:        pageWPx,
		HeightPx:       pageHPx,
		RenderDuration: time.Since(start),
	}, nil
}

// paintOrder filters to visible elements and sorts them by z-index,
// insertion order breaking ties, matching the interactive canvas.
func paintOrder(elements []designer.Element) []designer.Element {
	visible := make([]designer.Element, 0, len(elements))
	for _, element := range elements {
		if element.Visible {
			visible = append(visible, element)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].ZIndex < visible[j].ZIndex
	})
	return visible
}

// elementRect resolves percentage geometry against the page bitmap
func (p *Pipeline) elementRect(surface *Surface, element designer.Element) image.Rectangle {
	bounds := surface.Bounds()
	pageW := float64(bounds.Dx())
	pageH := float64(bounds.Dy())
	x0 := int(math.Round(element.Position.X / 100 * pageW))
	y0 := int(math.Round(element.Position.Y / 100 * pageH))
	x1 := int(math.Round(element.Right() / 100 * pageW))
	y1 := int(math.Round(element.Bottom() / 100 * pageH))
	return image.Rect(x0, y0, x1, y1)
}

func (p *Pipeline) paintGrid(surface *Surface, sizePct float64) {
	if sizePct <= 0 {
		sizePct = 5
	}
	bounds := surface.Bounds()
	stepX := float64(bounds.Dx()) * sizePct / 100
	stepY := float64(bounds.Dy()) * sizePct / 100
	if stepX < 1 || stepY < 1 {
		return
	}
	for x := stepX; x < float64(bounds.Dx()); x += stepX {
		surface.VLine(int(math.Round(x)), 0, bounds.Dy(), colorGrid)
	}
	for y := stepY; y < float64(bounds.Dy()); y += stepY {
		surface.HLine(0, bounds.Dx(), int(math.Round(y)), colorGrid)
	}
}

func (p *Pipeline) paintElement(ctx context.Context, surface *Surface, element designer.Element, zoom float64) {
	rect := p.elementRect(surface, element)
	if rect.Empty() {
		return
	}

	switch style := element.Style.(type) {
	case *designer.TextStyle:
		p.paintText(surface, rect, style)
	case *designer.ImageStyle:
		p.paintImagePlaceholder(surface, rect, style)
	case *designer.BarcodeStyle:
		p.paintSymbol(ctx, surface, rect, element, style.Content, style.Symbology, style.Scale, zoom)
	case *designer.QRCodeStyle:
		p.paintSymbol(ctx, surface, rect, element, style.Content, designer.SymbologyQR, style.Scale, zoom)
	case *designer.ShapeStyle:
		p.paintShape(surface, rect, style)
	default:
		// Validation guarantees a known style; an unknown payload still
		// leaves a visible footprint rather than silently vanishing.
		surface.StrokeRect(rect, colorInk, 1)
	}
}

func (p *Pipeline) paintText(surface *Surface, rect image.Rectangle, style *designer.TextStyle) {
	text := style.Text
	if text == "" && style.DataField != "" {
		text = "{" + style.DataField + "}"
	}
	align := AlignStart
	switch style.Align {
	case designer.TextAlignCenter:
		align = AlignMid
	case designer.TextAlignRight:
		align = AlignEnd
	}
	surface.DrawText(rect, text, parseColor(style.Color, colorInk), align)
}

// paintImagePlaceholder draws the image slot. Actual bitmap sources are a
// host concern; the designer canvas shows the framed footprint.
func (p *Pipeline) paintImagePlaceholder(surface *Surface, rect image.Rectangle, style *designer.ImageStyle) {
	surface.FillRect(rect, colorImageSlot)
	borderWidth := int(style.BorderWidthPx)
	if borderWidth < 1 {
		borderWidth = 1
	}
	surface.StrokeRect(rect, parseColor(style.BorderColor, colorInk), borderWidth)
}

// paintSymbol sizes a barcode or QR element through the physical pipeline:
// percentage size to millimeters, linear-symbol ratio clamp, millimeters to
// pixels with the style scale, then the interactive footprint floor. The
// symbol is centered in the element rectangle.
func (p *Pipeline) paintSymbol(ctx context.Context, surface *Surface, rect image.Rectangle, element designer.Element, content string, symbology designer.Symbology, scale, zoom float64) {
	px := p.symbolFootprint(element, symbology, scale, zoom)

	widthPx := int(math.Round(px.Width))
	heightPx := int(math.Round(px.Height))

	if !symbology.IsValid() {
		p.paintUnknownSymbology(surface, rect, element, content, symbology, widthPx, heightPx)
		return
	}

	img, err := p.symbols.Render(ctx, content, symbology, widthPx, heightPx)
	if err != nil {
		p.logger.Warn("symbol encoding failed, drawing error glyph",
			zap.String("symbology", string(symbology)),
			zap.Error(err))
		img = ErrorGlyph(widthPx, heightPx)
	}

	surface.DrawImage(centeredRect(rect, widthPx, heightPx), img)
}

// paintUnknownSymbology centers the diagnostic tile in the element box for
// a format the encoder does not implement.
func (p *Pipeline) paintUnknownSymbology(surface *Surface, rect image.Rectangle, element designer.Element, content string, symbology designer.Symbology, widthPx, heightPx int) {
	p.logger.Warn("unknown symbology, drawing diagnostic tile",
		zap.String("symbology", string(symbology)),
		zap.String("element_id", element.ID.String()))

	tile := unknownSymbologyTile(element.Type, content, symbology, widthPx, heightPx)
	surface.DrawImage(centeredRect(rect, widthPx, heightPx), tile)
}

// symbolFootprint computes the on-canvas pixel size of a symbol element.
// When the percentage geometry is degenerate the literal pixel hints carried
// on the element stand in, scaled by zoom only.
func (p *Pipeline) symbolFootprint(element designer.Element, symbology designer.Symbology, scale, zoom float64) units.PixelSize {
	phys, ok := p.profile.ToPhysical(units.SizePercent{
		Width:  element.Size.Width,
		Height: element.Size.Height,
	})
	if !ok {
		return p.profile.FloorFootprint(units.PixelSize{
			Width:  element.PixelW * zoom,
			Height: element.PixelH * zoom,
		})
	}
	if symbology.IsLinear() {
		phys = p.profile.ClampSymbolRatio(phys)
	}
	px := p.profile.ToPixels(phys, zoom, scale)
	return p.profile.FloorFootprint(px)
}

func centeredRect(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	return image.Rect(cx-widthPx/2, cy-heightPx/2, cx-widthPx/2+widthPx, cy-heightPx/2+heightPx)
}

func (p *Pipeline) paintShape(surface *Surface, rect image.Rectangle, style *designer.ShapeStyle) {
	stroke := parseColor(style.StrokeColor, colorInk)
	strokeWidth := int(style.StrokeWidthPx)
	if strokeWidth < 1 {
		strokeWidth = 1
	}

	switch style.Kind {
	case designer.ShapeLine:
		mid := (rect.Min.Y + rect.Max.Y) / 2
		surface.FillRect(image.Rect(rect.Min.X, mid, rect.Max.X, mid+strokeWidth), stroke)
	case designer.ShapeEllipse:
		p.paintEllipse(surface, rect, style, stroke)
	default:
		if style.FillColor != "" {
			surface.FillRect(rect, parseColor(style.FillColor, colorPaper))
		}
		surface.StrokeRect(rect, stroke, strokeWidth)
	}
}

func (p *Pipeline) paintEllipse(surface *Surface, rect image.Rectangle, style *designer.ShapeStyle, stroke color.Color) {
	a := float64(rect.Dx()) / 2
	b := float64(rect.Dy()) / 2
	if a < 1 || b < 1 {
		return
	}
	cx := float64(rect.Min.X) + a
	cy := float64(rect.Min.Y) + b
	fill := parseColor(style.FillColor, colorPaper)
	hasFill := style.FillColor != ""

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / a
			dy := (float64(y) + 0.5 - cy) / b
			d := dx*dx + dy*dy
			switch {
			case d > 1:
			case d > 0.90:
				surface.FillRect(image.Rect(x, y, x+1, y+1), stroke)
			case hasFill:
				surface.FillRect(image.Rect(x, y, x+1, y+1), fill)
			}
		}
	}
}

// parseColor decodes a #RRGGBB hex string, returning the fallback on any
// malformed value. Styling is clamped-not-rejected like geometry.
func parseColor(hex string, fallback color.Color) color.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}
}

var _ RasterRenderer = (*Pipeline)(nil)
