package editor

import (
	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// GestureKind identifies a continuous pointer interaction
type GestureKind string

const (
	GestureDrag   GestureKind = "drag"
	GestureResize GestureKind = "resize"
)

// Handle identifies one of the eight resize handles: four corners and four
// edge midpoints.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
)

// IsValid checks if the Handle is a valid value
func (h Handle) IsValid() bool {
	switch h {
	case HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW:
		return true
	}
	return false
}

// AllHandles returns the eight resize handles in clockwise order from nw
func AllHandles() []Handle {
	return []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}
}

type originalGeometry struct {
	position designer.Position
	size     designer.Size
}

// gestureState captures the pre-gesture geometry of every affected element.
// Updates are pure functions of that original geometry plus the cumulative
// pointer delta, which makes pointer-move events idempotent: replaying the
// same cumulative delta yields the same result.
type gestureState struct {
	kind     GestureKind
	handle   Handle
	anchor   uuid.UUID
	affected []uuid.UUID
	original map[uuid.UUID]originalGeometry
}

// GestureActive reports whether a gesture is in progress
func (e *Editor) GestureActive() bool {
	return e.gesture != nil
}

// GestureKindActive returns the active gesture kind, or ""
func (e *Editor) GestureKindActive() GestureKind {
	if e.gesture == nil {
		return ""
	}
	return e.gesture.kind
}

// BeginDrag starts a drag gesture anchored on the given element. The anchor
// must exist and be unlocked; if it is not already selected it becomes the
// sole selection. Every unlocked selected element participates, so a
// multi-drag moves the whole set coherently.
func (e *Editor) BeginDrag(anchorID uuid.UUID) error {
	i := e.indexOf(anchorID)
	if i < 0 {
		return shared.ErrNotFound
	}
	if e.elements[i].Locked {
		return shared.ErrElementLocked
	}
	if e.gesture != nil {
		e.CancelGesture()
	}
	if !e.isSelected(anchorID) {
		e.selection = []uuid.UUID{anchorID}
	}

	state := &gestureState{
		kind:     GestureDrag,
		anchor:   anchorID,
		original: make(map[uuid.UUID]originalGeometry),
	}
	for _, idx := range e.selectedIndices() {
		element := &e.elements[idx]
		if element.Locked {
			continue
		}
		state.affected = append(state.affected, element.ID)
		state.original[element.ID] = originalGeometry{position: element.Position, size: element.Size}
	}
	e.gesture = state
	return nil
}

// BeginResize starts a resize gesture on a single element via one of the
// eight handles. Unknown handle identifiers are the malformed-input case
// and raise a structured error.
func (e *Editor) BeginResize(id uuid.UUID, handle Handle) error {
	if !handle.IsValid() {
		return shared.ErrInvalidHandle
	}
	i := e.indexOf(id)
	if i < 0 {
		return shared.ErrNotFound
	}
	if e.elements[i].Locked {
		return shared.ErrElementLocked
	}
	if e.gesture != nil {
		e.CancelGesture()
	}
	if !e.isSelected(id) {
		e.selection = []uuid.UUID{id}
	}

	e.gesture = &gestureState{
		kind:     GestureResize,
		handle:   handle,
		anchor:   id,
		affected: []uuid.UUID{id},
		original: map[uuid.UUID]originalGeometry{
			id: {position: e.elements[i].Position, size: e.elements[i].Size},
		},
	}
	return nil
}

// UpdateGesture applies the cumulative pointer delta, given in device
// pixels, to the gesture. The delta converts back to percentage units
// through the inverse of the unit pipeline, independent of the symbol
// ratio clamp. Visual-only: nothing is committed to history.
func (e *Editor) UpdateGesture(dxPx, dyPx float64) error {
	if e.gesture == nil {
		return shared.ErrInvalidState
	}
	dx, dy := e.profile.PixelDeltaToPercent(dxPx, dyPx, e.zoom)

	switch e.gesture.kind {
	case GestureDrag:
		e.applyDrag(dx, dy)
	case GestureResize:
		e.applyResize(dx, dy)
	}
	return nil
}

// EndGesture commits the gesture result as a single history entry.
// One entry per gesture, not per pointer move: this bounds history growth
// no matter how fast the pointer generates events. A gesture that left
// every element at its original geometry (a plain click-release) commits
// nothing.
func (e *Editor) EndGesture() error {
	if e.gesture == nil {
		return shared.ErrInvalidState
	}
	state := e.gesture
	e.gesture = nil
	if !e.gestureMoved(state) {
		return nil
	}
	e.commit(string(state.kind))
	return nil
}

// gestureMoved reports whether any affected element ended up away from its
// pre-gesture geometry.
func (e *Editor) gestureMoved(state *gestureState) bool {
	for _, id := range state.affected {
		i := e.indexOf(id)
		if i < 0 {
			return true
		}
		orig := state.original[id]
		if e.elements[i].Position != orig.position || e.elements[i].Size != orig.size {
			return true
		}
	}
	return false
}

// CancelGesture reverts every affected element to its pre-gesture geometry
// without committing (Escape mid-gesture, or releasing outside any drop
// target).
func (e *Editor) CancelGesture() {
	if e.gesture == nil {
		return
	}
	for _, id := range e.gesture.affected {
		if i := e.indexOf(id); i >= 0 {
			orig := e.gesture.original[id]
			e.elements[i].SetGeometry(orig.position, orig.size)
		}
	}
	e.gesture = nil
}

func (e *Editor) applyDrag(dx, dy float64) {
	for _, id := range e.gesture.affected {
		i := e.indexOf(id)
		if i < 0 {
			continue
		}
		orig := e.gesture.original[id]
		x := e.snapToGrid(orig.position.X + dx)
		y := e.snapToGrid(orig.position.Y + dy)
		e.elements[i].MoveTo(x, y)
	}
}

// applyResize maps the pointer delta onto the handle's fixed
// deltas-to-dimension rule so the opposite corner or edge stays put. The
// minimum size floor is enforced by re-anchoring the moving edge, never by
// shifting the fixed one.
func (e *Editor) applyResize(dx, dy float64) {
	id := e.gesture.anchor
	i := e.indexOf(id)
	if i < 0 {
		return
	}
	orig := e.gesture.original[id]

	x := orig.position.X
	y := orig.position.Y
	width := orig.size.Width
	height := orig.size.Height

	switch e.gesture.handle {
	case HandleE:
		width += dx
	case HandleW:
		x += dx
		width -= dx
	case HandleS:
		height += dy
	case HandleN:
		y += dy
		height -= dy
	case HandleSE:
		width += dx
		height += dy
	case HandleSW:
		x += dx
		width -= dx
		height += dy
	case HandleNE:
		width += dx
		y += dy
		height -= dy
	case HandleNW:
		x += dx
		width -= dx
		y += dy
		height -= dy
	}

	// Keep the opposite edge fixed when the size floor kicks in.
	if width < designer.MinSizePercent {
		if movesLeftEdge(e.gesture.handle) {
			x = orig.position.X + orig.size.Width - designer.MinSizePercent
		}
		width = designer.MinSizePercent
	}
	if height < designer.MinSizePercent {
		if movesTopEdge(e.gesture.handle) {
			y = orig.position.Y + orig.size.Height - designer.MinSizePercent
		}
		height = designer.MinSizePercent
	}

	e.elements[i].SetGeometry(
		designer.Position{X: x, Y: y},
		designer.Size{Width: width, Height: height},
	)
}

func movesLeftEdge(h Handle) bool {
	return h == HandleW || h == HandleNW || h == HandleSW
}

func movesTopEdge(h Handle) bool {
	return h == HandleN || h == HandleNW || h == HandleNE
}
