package editor

import (
	"sort"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// AlignEdge identifies an alignment target against the page bounds
type AlignEdge string

const (
	AlignLeft   AlignEdge = "left"
	AlignCenter AlignEdge = "center"
	AlignRight  AlignEdge = "right"
	AlignTop    AlignEdge = "top"
	AlignMiddle AlignEdge = "middle"
	AlignBottom AlignEdge = "bottom"
)

// IsValid checks if the AlignEdge is a valid value
func (a AlignEdge) IsValid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return true
	}
	return false
}

// DistributeAxis identifies the axis of a distribute operation
type DistributeAxis string

const (
	DistributeHorizontal DistributeAxis = "horizontal"
	DistributeVertical   DistributeAxis = "vertical"
)

// IsValid checks if the DistributeAxis is a valid value
func (a DistributeAxis) IsValid() bool {
	return a == DistributeHorizontal || a == DistributeVertical
}

// RotateSelected adds degrees to every unlocked selected element and
// commits once. Rotation is a discrete action, not a gesture.
func (e *Editor) RotateSelected(degrees float64) {
	changed := false
	for _, i := range e.selectedIndices() {
		if e.elements[i].Locked {
			continue
		}
		e.elements[i].RotateBy(degrees)
		changed = true
	}
	if changed {
		e.commit("rotate")
	}
}

// FlipSelected mirrors every unlocked selected element and commits once
func (e *Editor) FlipSelected(horizontal bool) {
	changed := false
	for _, i := range e.selectedIndices() {
		if e.elements[i].Locked {
			continue
		}
		e.elements[i].Flip(horizontal)
		changed = true
	}
	if changed {
		e.commit("flip")
	}
}

// AlignSelected repositions every unlocked selected element against the
// page bounds and commits once for the whole batch.
func (e *Editor) AlignSelected(edge AlignEdge) error {
	if !edge.IsValid() {
		return shared.NewDomainError("INVALID_ALIGN_EDGE", "Unknown alignment target")
	}
	changed := false
	for _, i := range e.selectedIndices() {
		element := &e.elements[i]
		if element.Locked {
			continue
		}
		switch edge {
		case AlignLeft:
			element.MoveTo(0, element.Position.Y)
		case AlignCenter:
			element.MoveTo(50-element.Size.Width/2, element.Position.Y)
		case AlignRight:
			element.MoveTo(100-element.Size.Width, element.Position.Y)
		case AlignTop:
			element.MoveTo(element.Position.X, 0)
		case AlignMiddle:
			element.MoveTo(element.Position.X, 50-element.Size.Height/2)
		case AlignBottom:
			element.MoveTo(element.Position.X, 100-element.Size.Height)
		}
		changed = true
	}
	if changed {
		e.commit("align " + string(edge))
	}
	return nil
}

// DistributeSelected spaces the selected elements at equal intervals along
// the chosen axis. The first and last elements (by position) stay fixed;
// only the interior moves. Requires at least three unlocked selected
// elements and commits once.
func (e *Editor) DistributeSelected(axis DistributeAxis) error {
	if !axis.IsValid() {
		return shared.NewDomainError("INVALID_DISTRIBUTE_AXIS", "Unknown distribute axis")
	}

	indices := make([]int, 0, len(e.selection))
	for _, i := range e.selectedIndices() {
		if !e.elements[i].Locked {
			indices = append(indices, i)
		}
	}
	if len(indices) < 3 {
		return shared.NewDomainError("DISTRIBUTE_TOO_FEW", "Distribute requires at least 3 elements")
	}

	horizontal := axis == DistributeHorizontal
	sort.Slice(indices, func(a, b int) bool {
		if horizontal {
			return e.elements[indices[a]].Position.X < e.elements[indices[b]].Position.X
		}
		return e.elements[indices[a]].Position.Y < e.elements[indices[b]].Position.Y
	})

	first := e.elements[indices[0]]
	last := e.elements[indices[len(indices)-1]]

	var span, interior float64
	if horizontal {
		span = last.Position.X - first.Right()
	} else {
		span = last.Position.Y - first.Bottom()
	}
	for _, i := range indices[1 : len(indices)-1] {
		if horizontal {
			interior += e.elements[i].Size.Width
		} else {
			interior += e.elements[i].Size.Height
		}
	}

	gap := (span - interior) / float64(len(indices)-1)

	var cursor float64
	if horizontal {
		cursor = first.Right() + gap
	} else {
		cursor = first.Bottom() + gap
	}
	for _, i := range indices[1 : len(indices)-1] {
		element := &e.elements[i]
		if horizontal {
			element.MoveTo(cursor, element.Position.Y)
			cursor += element.Size.Width + gap
		} else {
			element.MoveTo(element.Position.X, cursor)
			cursor += element.Size.Height + gap
		}
	}

	e.commit("distribute " + string(axis))
	return nil
}

// clipboardOffset is the positional offset applied to duplicates and pastes
const clipboardOffset = 5.0

// DuplicateSelected clones every selected element with a fresh id and a
// small positional offset, inserted above its source in z-order. The
// duplicates become the new selection; one commit covers the batch.
func (e *Editor) DuplicateSelected() []designer.Element {
	indices := e.selectedIndices()
	if len(indices) == 0 {
		return nil
	}

	duplicates := make([]designer.Element, 0, len(indices))
	for _, i := range indices {
		duplicates = append(duplicates, e.spawnCopy(e.elements[i]))
	}
	e.elements = append(e.elements, duplicates...)

	e.selection = e.selection[:0]
	for _, dup := range duplicates {
		e.selection = append(e.selection, dup.ID)
	}
	e.commit("duplicate")
	return designer.CloneElements(duplicates)
}

// Copy stores a deep copy of the current selection in the clipboard slot.
// The clipboard is not part of history.
func (e *Editor) Copy() int {
	indices := e.selectedIndices()
	e.clipboard = make([]designer.Element, 0, len(indices))
	for _, i := range indices {
		e.clipboard = append(e.clipboard, e.elements[i].Clone())
	}
	return len(e.clipboard)
}

// Paste inserts fresh-id copies of the clipboard contents with the same
// offset rule as duplicate. The pasted set becomes the new selection.
func (e *Editor) Paste() []designer.Element {
	if len(e.clipboard) == 0 {
		return nil
	}

	pasted := make([]designer.Element, 0, len(e.clipboard))
	for _, entry := range e.clipboard {
		pasted = append(pasted, e.spawnCopy(entry))
	}
	e.elements = append(e.elements, pasted...)

	e.selection = e.selection[:0]
	for _, element := range pasted {
		e.selection = append(e.selection, element.ID)
	}
	e.commit("paste")
	return designer.CloneElements(pasted)
}

// spawnCopy clones an element with a fresh id, offset position, and a spot
// just above the source in paint order. Insertion order breaks the z tie,
// so sharing the source z-index renders the copy on top of it.
func (e *Editor) spawnCopy(source designer.Element) designer.Element {
	clone := source.Clone()
	clone.ID = uuid.New()
	clone.Locked = false
	clone.MoveBy(clipboardOffset, clipboardOffset)
	return clone
}
