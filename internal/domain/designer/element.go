package designer

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// Position is an element origin in percentage-of-page units, top-left origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an element size in percentage-of-page units, range (0,100].
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MinSizePercent is the smallest element extent per axis. Resizes are
// floored here, never rejected.
const MinSizePercent = 1.0

// Element is a single placed design object. Geometry lives in percentage
// coordinates so the record is independent of page size and pixel density;
// that percentage basis is the wire contract with the host application.
//
// Every geometry mutation clamps the bounding box into [0,100] on both axes.
// An element can never be moved or resized fully off-page.
type Element struct {
	ID       uuid.UUID    `json:"id"`
	Type     ElementType  `json:"type"`
	Position Position     `json:"position"`
	Size     Size         `json:"size"`
	Rotation float64      `json:"rotation"`
	ZIndex   int          `json:"z_index"`
	Visible  bool         `json:"visible"`
	Locked   bool         `json:"locked"`
	FlipH    bool         `json:"flip_h,omitempty"`
	FlipV    bool         `json:"flip_v,omitempty"`
	Style    ElementStyle `json:"-"`
	// PixelW/PixelH are literal pixel hints used only by the degraded
	// editor path when percentage geometry or the page is unusable.
	PixelW float64 `json:"pixel_width,omitempty"`
	PixelH float64 `json:"pixel_height,omitempty"`
}

// NewElement creates an element of the given type with a generated id and
// the default style payload for that type.
func NewElement(elementType ElementType, pos Position, size Size) Element {
	e := Element{
		ID:      uuid.New(),
		Type:    elementType,
		Visible: true,
		Style:   defaultStyleFor(elementType),
	}
	e.Size = clampSize(size)
	e.Position = pos
	e.clampPosition()
	return e
}

// Clone returns a deep, independent copy. Snapshots and clipboard entries
// rely on there being no aliasing between the copy and live state.
func (e Element) Clone() Element {
	clone := e
	if e.Style != nil {
		clone.Style = e.Style.CloneStyle()
	}
	return clone
}

// MoveBy translates the element by a percentage delta, clamped to the page.
func (e *Element) MoveBy(dx, dy float64) {
	e.Position.X += dx
	e.Position.Y += dy
	e.clampPosition()
}

// MoveTo places the element at an absolute percentage position, clamped.
func (e *Element) MoveTo(x, y float64) {
	e.Position.X = x
	e.Position.Y = y
	e.clampPosition()
}

// SetSize applies a new size, floored to the minimum extent and clamped so
// the bounding box stays on-page.
func (e *Element) SetSize(size Size) {
	e.Size = clampSize(size)
	e.clampPosition()
}

// SetGeometry applies position and size together, used by resize handles
// where one edge moves and the opposite edge stays fixed.
func (e *Element) SetGeometry(pos Position, size Size) {
	e.Size = clampSize(size)
	e.Position = pos
	e.clampPosition()
}

// RotateBy adds degrees to the rotation. The stored value is unbounded;
// normalization happens only at display time.
func (e *Element) RotateBy(degrees float64) {
	e.Rotation += degrees
}

// DisplayRotation returns the rotation normalized into [0,360).
func (e *Element) DisplayRotation() float64 {
	r := math.Mod(e.Rotation, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// Flip toggles the mirroring flags
func (e *Element) Flip(horizontal bool) {
	if horizontal {
		e.FlipH = !e.FlipH
	} else {
		e.FlipV = !e.FlipV
	}
}

// Right returns the right edge of the bounding box in percent
func (e Element) Right() float64 {
	return e.Position.X + e.Size.Width
}

// Bottom returns the bottom edge of the bounding box in percent
func (e Element) Bottom() float64 {
	return e.Position.Y + e.Size.Height
}

// clampPosition keeps the bounding box inside [0,100] on both axes.
// Out-of-range geometry is always clamped, never rejected.
func (e *Element) clampPosition() {
	e.Position.X = clampAxis(e.Position.X, e.Size.Width)
	e.Position.Y = clampAxis(e.Position.Y, e.Size.Height)
}

func clampAxis(origin, extent float64) float64 {
	limit := 100 - extent
	if limit < 0 {
		limit = 0
	}
	if origin < 0 {
		return 0
	}
	if origin > limit {
		return limit
	}
	return origin
}

func clampSize(size Size) Size {
	width := math.Min(math.Max(size.Width, MinSizePercent), 100)
	height := math.Min(math.Max(size.Height, MinSizePercent), 100)
	return Size{Width: width, Height: height}
}

// elementJSON is the wire form of Element with the style payload kept raw
// until the element type is known.
type elementJSON struct {
	ID       uuid.UUID       `json:"id"`
	Type     ElementType     `json:"type"`
	Position Position        `json:"position"`
	Size     Size            `json:"size"`
	Rotation float64         `json:"rotation"`
	ZIndex   int             `json:"z_index"`
	Visible  bool            `json:"visible"`
	Locked   bool            `json:"locked"`
	FlipH    bool            `json:"flip_h,omitempty"`
	FlipV    bool            `json:"flip_v,omitempty"`
	Style    json.RawMessage `json:"style,omitempty"`
	PixelW   float64         `json:"pixel_width,omitempty"`
	PixelH   float64         `json:"pixel_height,omitempty"`
}

// MarshalJSON implements the element exchange schema
func (e Element) MarshalJSON() ([]byte, error) {
	var rawStyle json.RawMessage
	if e.Style != nil {
		encoded, err := json.Marshal(e.Style)
		if err != nil {
			return nil, err
		}
		rawStyle = encoded
	}
	return json.Marshal(elementJSON{
		ID:       e.ID,
		Type:     e.Type,
		Position: e.Position,
		Size:     e.Size,
		Rotation: e.Rotation,
		ZIndex:   e.ZIndex,
		Visible:  e.Visible,
		Locked:   e.Locked,
		FlipH:    e.FlipH,
		FlipV:    e.FlipV,
		Style:    rawStyle,
		PixelW:   e.PixelW,
		PixelH:   e.PixelH,
	})
}

// UnmarshalJSON implements the element exchange schema. Structural problems
// (unknown type, malformed style payload) surface as errors; geometry is not
// validated here because ingestion validation owns that concern.
func (e *Element) UnmarshalJSON(data []byte) error {
	var wire elementJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	style, err := decodeStyle(wire.Type, wire.Style)
	if err != nil {
		return err
	}
	*e = Element{
		ID:       wire.ID,
		Type:     wire.Type,
		Position: wire.Position,
		Size:     wire.Size,
		Rotation: wire.Rotation,
		ZIndex:   wire.ZIndex,
		Visible:  wire.Visible,
		Locked:   wire.Locked,
		FlipH:    wire.FlipH,
		FlipV:    wire.FlipV,
		Style:    style,
		PixelW:   wire.PixelW,
		PixelH:   wire.PixelH,
	}
	return nil
}

// CloneElements deep-copies a whole element set
func CloneElements(elements []Element) []Element {
	clones := make([]Element, len(elements))
	for i, element := range elements {
		clones[i] = element.Clone()
	}
	return clones
}
