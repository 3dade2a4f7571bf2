// Package editor implements the interactive editing state machine for the
// label designer: selection, gestures, arrangement, clipboard, and the
// undo/redo wiring. All state a UI would otherwise scatter across event
// handlers lives in one Editor so the geometry invariants are enforced at a
// single choke point.
package editor

import (
	"sort"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/history"
	"github.com/labeldesk/backend/internal/domain/designer/units"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// Viewport zoom bounds
const (
	MinZoom = 0.1
	MaxZoom = 8.0
)

// DefaultGridSizePercent is the default grid increment used for snapping
const DefaultGridSizePercent = 5.0

// Editor owns the full editing state of one session. It is not safe for
// concurrent use; callers serialize access, matching the single-threaded
// UI event loop the designer models.
type Editor struct {
	page     designer.PageDescriptor
	elements []designer.Element
	profile  units.Profile
	log      *history.Log

	selection []uuid.UUID // insertion-ordered; first entry is the primary
	clipboard []designer.Element
	hovered   uuid.UUID

	zoom        float64
	gridEnabled bool
	gridSizePct float64

	gesture *gestureState
}

// Option configures an Editor
type Option func(*Editor)

// WithHistoryLimit overrides the snapshot ring size
func WithHistoryLimit(limit int) Option {
	return func(e *Editor) {
		e.log = history.NewLog(e.elements, limit)
	}
}

// WithProfile overrides the unit conversion profile
func WithProfile(profile units.Profile) Option {
	return func(e *Editor) {
		e.profile = profile
	}
}

// WithGrid configures grid snapping
func WithGrid(enabled bool, sizePct float64) Option {
	return func(e *Editor) {
		e.gridEnabled = enabled
		if sizePct > 0 {
			e.gridSizePct = sizePct
		}
	}
}

// New creates an editor over a host-supplied element set. The set passes
// ingestion validation; malformed records are the one input class rejected
// rather than clamped.
func New(page designer.PageDescriptor, elements []designer.Element, opts ...Option) (*Editor, error) {
	if err := designer.ValidateElements(elements); err != nil {
		return nil, err
	}
	if page.IsZero() {
		page = designer.DefaultPage()
	}

	e := &Editor{
		page:        page,
		elements:    designer.NormalizeElements(elements),
		profile:     units.DefaultProfile(),
		zoom:        1.0,
		gridSizePct: DefaultGridSizePercent,
	}
	e.log = history.NewLog(e.elements, history.DefaultLimit)

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Page returns the active page descriptor
func (e *Editor) Page() designer.PageDescriptor {
	return e.page
}

// SetPage replaces the page descriptor without rescaling element
// percentage coordinates.
func (e *Editor) SetPage(page designer.PageDescriptor) error {
	if page.IsZero() {
		return shared.NewDomainError("INVALID_PAGE_SIZE", "Page dimensions must be positive")
	}
	e.page = page
	return nil
}

// Profile returns the unit conversion profile shared with the export path
func (e *Editor) Profile() units.Profile {
	return e.profile
}

// Zoom returns the current viewport zoom factor
func (e *Editor) Zoom() float64 {
	return e.zoom
}

// SetZoom clamps and applies a viewport zoom factor
func (e *Editor) SetZoom(zoom float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	e.zoom = zoom
}

// GridEnabled reports whether grid snapping is on
func (e *Editor) GridEnabled() bool {
	return e.gridEnabled
}

// GridSize returns the grid increment in percent
func (e *Editor) GridSize() float64 {
	return e.gridSizePct
}

// SetGrid toggles snapping and optionally changes the increment
func (e *Editor) SetGrid(enabled bool, sizePct float64) {
	e.gridEnabled = enabled
	if sizePct > 0 {
		e.gridSizePct = sizePct
	}
}

// Elements returns a deep copy of the live element set in insertion order
func (e *Editor) Elements() []designer.Element {
	return designer.CloneElements(e.elements)
}

// Len returns the number of elements
func (e *Editor) Len() int {
	return len(e.elements)
}

// Find returns a copy of the element with the given id
func (e *Editor) Find(id uuid.UUID) (designer.Element, bool) {
	if i := e.indexOf(id); i >= 0 {
		return e.elements[i].Clone(), true
	}
	return designer.Element{}, false
}

// VisibleSorted returns deep copies of the visible elements in paint order:
// ascending z-index, insertion order breaking ties. Hidden elements are
// excluded but remain in the element set and in history.
func (e *Editor) VisibleSorted() []designer.Element {
	visible := make([]designer.Element, 0, len(e.elements))
	for _, element := range e.elements {
		if element.Visible {
			visible = append(visible, element.Clone())
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].ZIndex < visible[j].ZIndex
	})
	return visible
}

// =============================================================================
// Selection
// =============================================================================

// SetHovered tracks the element under the pointer
func (e *Editor) SetHovered(id uuid.UUID) {
	if e.indexOf(id) >= 0 {
		e.hovered = id
	} else {
		e.hovered = uuid.Nil
	}
}

// Hovered returns the hovered element id, or uuid.Nil
func (e *Editor) Hovered() uuid.UUID {
	return e.hovered
}

// Select replaces the selection set with exactly one element. Locked
// elements stay selectable so they can be inspected.
func (e *Editor) Select(id uuid.UUID) error {
	if e.indexOf(id) < 0 {
		return shared.ErrNotFound
	}
	e.selection = []uuid.UUID{id}
	return nil
}

// ToggleSelect flips one element's membership in the selection set without
// affecting the others (multi-select modifier click).
func (e *Editor) ToggleSelect(id uuid.UUID) error {
	if e.indexOf(id) < 0 {
		return shared.ErrNotFound
	}
	for i, selected := range e.selection {
		if selected == id {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			return nil
		}
	}
	e.selection = append(e.selection, id)
	return nil
}

// ClearSelection empties the selection set (background click)
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// SelectInRect selects every visible element whose bounding box intersects
// the given percentage rectangle (box-select gesture result). When additive
// is false the selection is replaced.
func (e *Editor) SelectInRect(x, y, width, height float64, additive bool) {
	if !additive {
		e.selection = nil
	}
	for _, element := range e.elements {
		if !element.Visible {
			continue
		}
		if element.Position.X < x+width && element.Right() > x &&
			element.Position.Y < y+height && element.Bottom() > y {
			if !e.isSelected(element.ID) {
				e.selection = append(e.selection, element.ID)
			}
		}
	}
}

// Selection returns the selected ids in selection order
func (e *Editor) Selection() []uuid.UUID {
	out := make([]uuid.UUID, len(e.selection))
	copy(out, e.selection)
	return out
}

// SelectionCount returns the number of selected elements
func (e *Editor) SelectionCount() int {
	return len(e.selection)
}

// =============================================================================
// Discrete mutations
// =============================================================================

// ToggleLock flips an element's locked flag. Always allowed; locking is not
// a geometry mutation.
func (e *Editor) ToggleLock(id uuid.UUID) error {
	i := e.indexOf(id)
	if i < 0 {
		return shared.ErrNotFound
	}
	e.elements[i].Locked = !e.elements[i].Locked
	e.commit("toggle lock")
	return nil
}

// ToggleVisible flips an element's visibility. Hidden elements drop out of
// the render pass but stay in the element set, history, and the layers view.
func (e *Editor) ToggleVisible(id uuid.UUID) error {
	i := e.indexOf(id)
	if i < 0 {
		return shared.ErrNotFound
	}
	e.elements[i].Visible = !e.elements[i].Visible
	e.commit("toggle visibility")
	return nil
}

// DeleteSelected removes the selected elements and clears the selection
func (e *Editor) DeleteSelected() int {
	if len(e.selection) == 0 {
		return 0
	}
	selected := make(map[uuid.UUID]bool, len(e.selection))
	for _, id := range e.selection {
		selected[id] = true
	}
	kept := e.elements[:0]
	removed := 0
	for _, element := range e.elements {
		if selected[element.ID] {
			removed++
			continue
		}
		kept = append(kept, element)
	}
	e.elements = kept
	e.selection = nil
	if removed > 0 {
		e.commit("delete")
	}
	return removed
}

// DeleteAll clears the whole element set. The destructive bulk action
// demands explicit confirmation; declining leaves state untouched and adds
// no history entry.
func (e *Editor) DeleteAll(confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationNeeded
	}
	if len(e.elements) == 0 {
		return nil
	}
	e.elements = nil
	e.selection = nil
	e.commit("delete all")
	return nil
}

// Insert adds a host-created element (already validated upstream) and
// selects it.
func (e *Editor) Insert(element designer.Element) error {
	if err := designer.ValidateElements([]designer.Element{element}); err != nil {
		return err
	}
	if e.indexOf(element.ID) >= 0 {
		return shared.ErrAlreadyExists
	}
	normalized := designer.NormalizeElements([]designer.Element{element})[0]
	normalized.ZIndex = e.maxZIndex() + 1
	e.elements = append(e.elements, normalized)
	e.selection = []uuid.UUID{normalized.ID}
	e.commit("insert")
	return nil
}

// =============================================================================
// Z-order
// =============================================================================

// ZOrderMove identifies a stacking-order operation
type ZOrderMove string

const (
	ZOrderFront    ZOrderMove = "front"
	ZOrderBack     ZOrderMove = "back"
	ZOrderForward  ZOrderMove = "forward"
	ZOrderBackward ZOrderMove = "backward"
)

// IsValid checks if the ZOrderMove is a valid value
func (m ZOrderMove) IsValid() bool {
	switch m {
	case ZOrderFront, ZOrderBack, ZOrderForward, ZOrderBackward:
		return true
	}
	return false
}

// MoveZOrder restacks the primary selected element
func (e *Editor) MoveZOrder(move ZOrderMove) error {
	if !move.IsValid() {
		return shared.NewDomainError("INVALID_ZORDER_MOVE", "Unknown z-order operation")
	}
	if len(e.selection) == 0 {
		return nil
	}
	i := e.indexOf(e.selection[0])
	if i < 0 {
		return shared.ErrNotFound
	}

	switch move {
	case ZOrderFront:
		e.elements[i].ZIndex = e.maxZIndex() + 1
	case ZOrderBack:
		e.elements[i].ZIndex = e.minZIndex() - 1
	case ZOrderForward:
		e.elements[i].ZIndex++
	case ZOrderBackward:
		e.elements[i].ZIndex--
	}
	e.commit("restack")
	return nil
}

// =============================================================================
// Undo / redo
// =============================================================================

// Undo steps one snapshot back. A no-op at the earliest snapshot.
// The selection is cleared because its members may no longer exist.
func (e *Editor) Undo() bool {
	elements, ok := e.log.Undo()
	if !ok {
		return false
	}
	e.log.WhileApplying(func() {
		e.elements = elements
		e.selection = nil
		e.gesture = nil
	})
	return true
}

// Redo steps one snapshot forward. A no-op at the newest snapshot.
func (e *Editor) Redo() bool {
	elements, ok := e.log.Redo()
	if !ok {
		return false
	}
	e.log.WhileApplying(func() {
		e.elements = elements
		e.selection = nil
		e.gesture = nil
	})
	return true
}

// CanUndo reports whether an undo would change state
func (e *Editor) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether a redo would change state
func (e *Editor) CanRedo() bool { return e.log.CanRedo() }

// HistoryLen returns the number of retained snapshots
func (e *Editor) HistoryLen() int { return e.log.Len() }

// =============================================================================
// Internal helpers
// =============================================================================

func (e *Editor) commit(description string) {
	e.log.Commit(e.elements, description)
}

func (e *Editor) indexOf(id uuid.UUID) int {
	for i := range e.elements {
		if e.elements[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) isSelected(id uuid.UUID) bool {
	for _, selected := range e.selection {
		if selected == id {
			return true
		}
	}
	return false
}

// selectedIndices returns element indices for the selection, in selection order
func (e *Editor) selectedIndices() []int {
	out := make([]int, 0, len(e.selection))
	for _, id := range e.selection {
		if i := e.indexOf(id); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func (e *Editor) maxZIndex() int {
	max := 0
	for _, element := range e.elements {
		if element.ZIndex > max {
			max = element.ZIndex
		}
	}
	return max
}

func (e *Editor) minZIndex() int {
	min := 0
	for _, element := range e.elements {
		if element.ZIndex < min {
			min = element.ZIndex
		}
	}
	return min
}

func (e *Editor) snapToGrid(v float64) float64 {
	if !e.gridEnabled || e.gridSizePct <= 0 {
		return v
	}
	steps := int(v/e.gridSizePct + 0.5)
	return float64(steps) * e.gridSizePct
}
