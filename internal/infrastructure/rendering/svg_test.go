package rendering

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/units"
)

func newTestSVGBuilder() *SVGBuilder {
	return NewSVGBuilder(NewSymbolRenderer(nil, nil), units.DefaultProfile(), nil)
}

func TestSVGBuildPageFrame(t *testing.T) {
	b := newTestSVGBuilder()

	svg, err := b.Build(context.Background(), labelPage(t), nil)
	require.NoError(t, err)

	assert.Contains(t, svg, `width="100.00mm"`)
	assert.Contains(t, svg, `height="150.00mm"`)
	assert.Contains(t, svg, `viewBox="0 0 100.00 150.00"`)
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestSVGBuildRejectsZeroPage(t *testing.T) {
	b := newTestSVGBuilder()

	_, err := b.Build(context.Background(), designer.PageDescriptor{}, nil)
	require.Error(t, err)

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeInvalidPage, rerr.Code)
}

func TestSVGBuildTextElement(t *testing.T) {
	text := designer.NewElement(designer.ElementTypeText,
		designer.Position{X: 10, Y: 10}, designer.Size{Width: 50, Height: 10})
	text.Style = &designer.TextStyle{
		Text:  "Ship to <warehouse>",
		Bold:  true,
		Align: designer.TextAlignCenter,
	}

	b := newTestSVGBuilder()
	svg, err := b.Build(context.Background(), labelPage(t), []designer.Element{text})
	require.NoError(t, err)

	assert.Contains(t, svg, "Ship to &lt;warehouse&gt;")
	assert.Contains(t, svg, `font-weight="bold"`)
	assert.Contains(t, svg, `text-anchor="middle"`)
}

func TestSVGBuildSymbolEmbedsBitmap(t *testing.T) {
	code := designer.NewElement(designer.ElementTypeBarcode,
		designer.Position{X: 10, Y: 60}, designer.Size{Width: 50, Height: 12})
	code.Style = &designer.BarcodeStyle{Content: "PKG-42", Symbology: designer.SymbologyCode128}

	b := newTestSVGBuilder()
	svg, err := b.Build(context.Background(), labelPage(t), []designer.Element{code})
	require.NoError(t, err)

	assert.Contains(t, svg, "data:image/png;base64,")
	assert.Contains(t, svg, `image-rendering="pixelated"`)
}

func TestSVGBuildRotationTransform(t *testing.T) {
	shape := designer.NewElement(designer.ElementTypeShape,
		designer.Position{X: 20, Y: 20}, designer.Size{Width: 20, Height: 20})
	shape.Style = &designer.ShapeStyle{Kind: designer.ShapeEllipse}
	shape.RotateBy(45)

	b := newTestSVGBuilder()
	svg, err := b.Build(context.Background(), labelPage(t), []designer.Element{shape})
	require.NoError(t, err)

	assert.Contains(t, svg, `transform="rotate(45.00`)
	assert.Contains(t, svg, "<ellipse")
}

func TestSVGBuildSkipsHiddenElements(t *testing.T) {
	shape := designer.NewElement(designer.ElementTypeShape,
		designer.Position{X: 20, Y: 20}, designer.Size{Width: 20, Height: 20})
	shape.Style = &designer.ShapeStyle{Kind: designer.ShapeRectangle}
	shape.Visible = false

	b := newTestSVGBuilder()
	svg, err := b.Build(context.Background(), labelPage(t), []designer.Element{shape})
	require.NoError(t, err)

	assert.NotContains(t, svg, "<rect x=\"20.00\"")
}

func TestSVGColorValidation(t *testing.T) {
	assert.Equal(t, "#a1b2c3", svgColor("#a1b2c3", "#000000"))
	assert.Equal(t, "#000000", svgColor("crimson", "#000000"))
	assert.Equal(t, "#000000", svgColor("", "#000000"))
}
