package rendering

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is a mutable RGBA canvas with the primitive operations the
// element paint pass needs: rectangle fills, borders, line strokes, image
// composition, and simple text.
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a canvas filled with the given background color
func NewSurface(widthPx, heightPx int, background color.Color) *Surface {
	if widthPx < 1 {
		widthPx = 1
	}
	if heightPx < 1 {
		heightPx = 1
	}
	s := &Surface{img: image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))}
	s.FillRect(image.Rect(0, 0, widthPx, heightPx), background)
	return s
}

// Image exposes the underlying bitmap for encoding
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Bounds returns the canvas bounds
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// FillRect fills a rectangle with an opaque color using draw.Draw
func (s *Surface) FillRect(rect image.Rectangle, c color.Color) {
	draw.Draw(s.img, rect.Intersect(s.img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Over)
}

// StrokeRect draws a rectangle border of the given thickness, inset into
// the rectangle so adjacent elements do not overdraw each other.
func (s *Surface) StrokeRect(rect image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	s.FillRect(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness), c)
	s.FillRect(image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y), c)
	s.FillRect(image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y), c)
	s.FillRect(image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

// HLine draws a 1px horizontal line across [x0,x1) at y
func (s *Surface) HLine(x0, x1, y int, c color.Color) {
	s.FillRect(image.Rect(x0, y, x1, y+1), c)
}

// VLine draws a 1px vertical line across [y0,y1) at x
func (s *Surface) VLine(x, y0, y1 int, c color.Color) {
	s.FillRect(image.Rect(x, y0, x+1, y1), c)
}

// DrawImage composes src scaled by nearest-neighbor into the destination
// rectangle. Nearest-neighbor keeps barcode modules crisp; smoothing would
// blur the bars and hurt scanability.
func (s *Surface) DrawImage(rect image.Rectangle, src image.Image) {
	rect = rect.Intersect(s.img.Bounds())
	if rect.Empty() {
		return
	}
	srcBounds := src.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return
	}
	dstW := rect.Dx()
	dstH := rect.Dy()

	for y := 0; y < dstH; y++ {
		sy := srcBounds.Min.Y + y*srcH/dstH
		for x := 0; x < dstW; x++ {
			sx := srcBounds.Min.X + x*srcW/dstW
			s.img.Set(rect.Min.X+x, rect.Min.Y+y, src.At(sx, sy))
		}
	}
}

// TextAlignment mirrors the element-level alignment for the drawer
type TextAlignment int

const (
	AlignStart TextAlignment = iota
	AlignMid
	AlignEnd
)

// DrawText renders text into the rectangle with the fixed bitmap face,
// wrapping at the rectangle width and clipping at its height. The preview
// face is intentionally simple; print output goes through the vector path.
func (s *Surface) DrawText(rect image.Rectangle, text string, c color.Color, align TextAlignment) {
	rect = rect.Intersect(s.img.Bounds())
	if rect.Empty() || text == "" {
		return
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	lines := wrapText(face, text, rect.Dx())
	y := rect.Min.Y + ascent
	for _, line := range lines {
		if y > rect.Max.Y {
			break
		}
		lineWidth := font.MeasureString(face, line).Ceil()
		x := rect.Min.X
		switch align {
		case AlignMid:
			x += (rect.Dx() - lineWidth) / 2
		case AlignEnd:
			x += rect.Dx() - lineWidth
		}
		if x < rect.Min.X {
			x = rect.Min.X
		}

		d := &font.Drawer{
			Dst:  s.img,
			Src:  &image.Uniform{C: c},
			Face: face,
			Dot:  fixed.P(x, y),
		}
		d.DrawString(line)
		y += lineHeight
	}
}

// wrapText splits text into lines no wider than maxWidth, breaking on
// whitespace where possible.
func wrapText(face font.Face, text string, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if font.MeasureString(face, candidate).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}
