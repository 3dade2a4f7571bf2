package rendering

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/png"
	"math"

	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/units"
)

// symbolExportScale oversamples embedded symbol bitmaps so they stay crisp
// when the vector page is printed.
const symbolExportScale = 4.0

// SVGBuilder serializes a design into an SVG document in millimeter units.
// The vector path shares the unit profile with the raster pipeline; only
// symbol elements embed bitmaps, everything else stays vector.
type SVGBuilder struct {
	symbols *SymbolRenderer
	profile units.Profile
	logger  *zap.Logger
}

// NewSVGBuilder creates an SVG serializer
func NewSVGBuilder(symbols *SymbolRenderer, profile units.Profile, logger *zap.Logger) *SVGBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !profile.Valid() {
		profile = units.DefaultProfile()
	}
	return &SVGBuilder{
		symbols: symbols,
		profile: profile,
		logger:  logger,
	}
}

// Build serializes the page and its visible elements
func (b *SVGBuilder) Build(ctx context.Context, page designer.PageDescriptor, elements []designer.Element) (string, error) {
	if page.IsZero() {
		return "", NewRenderError(ErrCodeInvalidPage, "page dimensions must be positive", nil)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.2fmm" height="%.2fmm" viewBox="0 0 %.2f %.2f">`,
		page.WidthMM, page.HeightMM, page.WidthMM, page.HeightMM)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%.2f" height="%.2f" fill="#ffffff"/>`,
		page.WidthMM, page.HeightMM)

	for _, element := range paintOrder(elements) {
		if err := b.writeElement(ctx, &buf, page, element); err != nil {
			return "", err
		}
	}

	buf.WriteString(`</svg>`)
	return buf.String(), nil
}

// elementBoxMM resolves percentage geometry against the physical page
func elementBoxMM(page designer.PageDescriptor, element designer.Element) (x, y, w, h float64) {
	x = element.Position.X / 100 * page.WidthMM
	y = element.Position.Y / 100 * page.HeightMM
	w = element.Size.Width / 100 * page.WidthMM
	h = element.Size.Height / 100 * page.HeightMM
	return
}

func (b *SVGBuilder) writeElement(ctx context.Context, buf *bytes.Buffer, page designer.PageDescriptor, element designer.Element) error {
	x, y, w, h := elementBoxMM(page, element)
	if w <= 0 || h <= 0 {
		return nil
	}

	if rotation := element.DisplayRotation(); rotation != 0 {
		fmt.Fprintf(buf, `<g transform="rotate(%.2f %.2f %.2f)">`, rotation, x+w/2, y+h/2)
		defer buf.WriteString(`</g>`)
	}

	switch style := element.Style.(type) {
	case *designer.TextStyle:
		b.writeText(buf, x, y, w, h, style)
	case *designer.ImageStyle:
		b.writeImage(buf, x, y, w, h, style)
	case *designer.BarcodeStyle:
		return b.writeSymbol(ctx, buf, element, x, y, w, h, style.Content, style.Symbology, style.Scale)
	case *designer.QRCodeStyle:
		return b.writeSymbol(ctx, buf, element, x, y, w, h, style.Content, designer.SymbologyQR, style.Scale)
	case *designer.ShapeStyle:
		b.writeShape(buf, x, y, w, h, style)
	}
	return nil
}

func (b *SVGBuilder) writeText(buf *bytes.Buffer, x, y, w, h float64, style *designer.TextStyle) {
	text := style.Text
	if text == "" && style.DataField != "" {
		text = "{" + style.DataField + "}"
	}
	if text == "" {
		return
	}

	sizePt := style.FontSizePt
	if sizePt <= 0 {
		sizePt = 10
	}
	sizeMM := sizePt * b.profile.PtToMM

	anchor := "start"
	textX := x
	switch style.Align {
	case designer.TextAlignCenter:
		anchor = "middle"
		textX = x + w/2
	case designer.TextAlignRight:
		anchor = "end"
		textX = x + w
	}

	family := style.FontFamily
	if family == "" {
		family = "sans-serif"
	}
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	fontStyle := "normal"
	if style.Italic {
		fontStyle = "italic"
	}

	fmt.Fprintf(buf,
		`<text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" font-weight="%s" font-style="%s" fill="%s" text-anchor="%s">%s</text>`,
		textX, y+sizeMM,
		html.EscapeString(family), sizeMM, weight, fontStyle,
		svgColor(style.Color, "#1a1a1a"), anchor,
		html.EscapeString(text))
}

func (b *SVGBuilder) writeImage(buf *bytes.Buffer, x, y, w, h float64, style *designer.ImageStyle) {
	opacity := style.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	if style.SourceURL != "" {
		fmt.Fprintf(buf,
			`<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" opacity="%.2f" href="%s" preserveAspectRatio="xMidYMid meet"/>`,
			x, y, w, h, opacity, html.EscapeString(style.SourceURL))
	} else {
		fmt.Fprintf(buf,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#f0f2f5"/>`,
			x, y, w, h)
	}
	if style.BorderWidthPx > 0 {
		fmt.Fprintf(buf,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`,
			x, y, w, h, svgColor(style.BorderColor, "#1a1a1a"), style.BorderWidthPx/b.profile.MMToPx)
	}
}

// writeSymbol embeds an oversampled symbol bitmap, sized through the same
// physical chain as the raster pipeline so both outputs agree.
func (b *SVGBuilder) writeSymbol(ctx context.Context, buf *bytes.Buffer, element designer.Element, x, y, w, h float64, content string, symbology designer.Symbology, scale float64) error {
	phys, ok := b.profile.ToPhysical(units.SizePercent{
		Width:  element.Size.Width,
		Height: element.Size.Height,
	})
	if !ok {
		phys = units.Physical{WidthMM: w, HeightMM: h}
	}
	if symbology.IsLinear() {
		phys = b.profile.ClampSymbolRatio(phys)
	}

	px := b.profile.ToPixels(phys, symbolExportScale, scale)
	widthPx := int(math.Round(px.Width))
	heightPx := int(math.Round(px.Height))

	var img image.Image
	if !symbology.IsValid() {
		b.logger.Warn("unknown symbology, embedding diagnostic tile",
			zap.String("symbology", string(symbology)),
			zap.String("element_id", element.ID.String()))
		img = unknownSymbologyTile(element.Type, content, symbology, widthPx, heightPx)
	} else if rendered, err := b.symbols.Render(ctx, content, symbology, widthPx, heightPx); err != nil {
		b.logger.Warn("symbol encoding failed for vector export, embedding error glyph",
			zap.String("symbology", string(symbology)),
			zap.Error(err))
		img = ErrorGlyph(widthPx, heightPx)
	} else {
		img = rendered
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "symbol PNG encoding failed", err)
	}

	// Center the clamped physical footprint inside the element box.
	symbolX := x + (w-phys.WidthMM)/2
	symbolY := y + (h-phys.HeightMM)/2

	fmt.Fprintf(buf,
		`<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="data:image/png;base64,%s" preserveAspectRatio="none" image-rendering="pixelated"/>`,
		symbolX, symbolY, phys.WidthMM, phys.HeightMM,
		base64.StdEncoding.EncodeToString(pngBuf.Bytes()))
	return nil
}

func (b *SVGBuilder) writeShape(buf *bytes.Buffer, x, y, w, h float64, style *designer.ShapeStyle) {
	stroke := svgColor(style.StrokeColor, "#1a1a1a")
	strokeWidthMM := style.StrokeWidthPx / b.profile.MMToPx
	if strokeWidthMM <= 0 {
		strokeWidthMM = 1 / b.profile.MMToPx
	}
	fill := "none"
	if style.FillColor != "" {
		fill = svgColor(style.FillColor, "#ffffff")
	}

	switch style.Kind {
	case designer.ShapeLine:
		mid := y + h/2
		fmt.Fprintf(buf,
			`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`,
			x, mid, x+w, mid, stroke, strokeWidthMM)
	case designer.ShapeEllipse:
		fmt.Fprintf(buf,
			`<ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`,
			x+w/2, y+h/2, w/2, h/2, fill, stroke, strokeWidthMM)
	default:
		fmt.Fprintf(buf,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`,
			x, y, w, h, fill, stroke, strokeWidthMM)
	}
}

// svgColor validates a #RRGGBB string for direct SVG use
func svgColor(hex, fallback string) string {
	if parseColor(hex, nil) != nil {
		return hex
	}
	return fallback
}
