package editor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
)

func selectAll(t *testing.T, e *Editor, elements ...designer.Element) {
	t.Helper()
	e.ClearSelection()
	for _, element := range elements {
		require.NoError(t, e.ToggleSelect(element.ID))
	}
}

func TestAlignSelected(t *testing.T) {
	tests := []struct {
		name  string
		edge  AlignEdge
		wantX float64
		wantY float64
	}{
		{"left", AlignLeft, 0, 30},
		{"center", AlignCenter, 40, 30},
		{"right", AlignRight, 80, 30},
		{"top", AlignTop, 30, 0},
		{"middle", AlignMiddle, 30, 45},
		{"bottom", AlignBottom, 30, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := textElement(30, 30, 20, 10)
			e := newTestEditor(t, a)
			require.NoError(t, e.Select(a.ID))

			require.NoError(t, e.AlignSelected(tt.edge))

			got, _ := e.Find(a.ID)
			assert.Equal(t, tt.wantX, got.Position.X)
			assert.Equal(t, tt.wantY, got.Position.Y)
		})
	}
}

func TestAlignInvalidEdge(t *testing.T) {
	e := newTestEditor(t, textElement(10, 10, 20, 10))
	assert.Error(t, e.AlignSelected(AlignEdge("diagonal")))
}

func TestAlignSkipsLockedElements(t *testing.T) {
	a := textElement(30, 30, 20, 10)
	b := textElement(50, 50, 20, 10)
	b.Locked = true
	e := newTestEditor(t, a, b)
	selectAll(t, e, a, b)

	require.NoError(t, e.AlignSelected(AlignLeft))

	moved, _ := e.Find(a.ID)
	assert.Equal(t, 0.0, moved.Position.X)
	stayed, _ := e.Find(b.ID)
	assert.Equal(t, 50.0, stayed.Position.X)
}

func TestDistributeHorizontalEqualGaps(t *testing.T) {
	a := textElement(0, 10, 10, 10)
	b := textElement(12, 10, 10, 10)
	c := textElement(55, 10, 10, 10)
	d := textElement(90, 10, 10, 10)
	e := newTestEditor(t, a, b, c, d)
	selectAll(t, e, a, b, c, d)

	require.NoError(t, e.DistributeSelected(DistributeHorizontal))

	// First and last stay fixed; interior gaps are equal.
	elements := e.Elements()
	byID := make(map[uuid.UUID]designer.Element, len(elements))
	for _, element := range elements {
		byID[element.ID] = element
	}
	assert.Equal(t, 0.0, byID[a.ID].Position.X)
	assert.Equal(t, 90.0, byID[d.ID].Position.X)

	gap1 := byID[b.ID].Position.X - byID[a.ID].Right()
	gap2 := byID[c.ID].Position.X - byID[b.ID].Right()
	gap3 := byID[d.ID].Position.X - byID[c.ID].Right()
	assert.InDelta(t, gap1, gap2, 1e-9)
	assert.InDelta(t, gap2, gap3, 1e-9)
	assert.InDelta(t, 20.0, gap1, 1e-9)
}

func TestDistributeVertical(t *testing.T) {
	a := textElement(10, 0, 10, 10)
	b := textElement(10, 15, 10, 10)
	c := textElement(10, 80, 10, 10)
	e := newTestEditor(t, a, b, c)
	selectAll(t, e, a, b, c)

	require.NoError(t, e.DistributeSelected(DistributeVertical))

	mid, _ := e.Find(b.ID)
	assert.InDelta(t, 40.0, mid.Position.Y, 1e-9)
}

func TestDistributeRequiresThreeUnlocked(t *testing.T) {
	a := textElement(0, 10, 10, 10)
	b := textElement(40, 10, 10, 10)
	c := textElement(80, 10, 10, 10)
	c.Locked = true
	e := newTestEditor(t, a, b, c)
	selectAll(t, e, a, b, c)

	err := e.DistributeSelected(DistributeHorizontal)
	require.Error(t, err)

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "DISTRIBUTE_TOO_FEW", derr.Code)
}

func TestDistributeInvalidAxis(t *testing.T) {
	e := newTestEditor(t)
	assert.Error(t, e.DistributeSelected(DistributeAxis("radial")))
}

func TestRotateSelected(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	e := newTestEditor(t, a)
	require.NoError(t, e.Select(a.ID))

	e.RotateSelected(90)
	e.RotateSelected(90)

	got, _ := e.Find(a.ID)
	assert.Equal(t, 180.0, got.DisplayRotation())

	// Full turn normalizes back to zero for display.
	e.RotateSelected(180)
	got, _ = e.Find(a.ID)
	assert.Equal(t, 0.0, got.DisplayRotation())
}

func TestFlipSelectedSkipsLocked(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	b := textElement(40, 40, 20, 10)
	b.Locked = true
	e := newTestEditor(t, a, b)
	selectAll(t, e, a, b)

	e.FlipSelected(true)

	flipped, _ := e.Find(a.ID)
	assert.True(t, flipped.FlipH)
	stayed, _ := e.Find(b.ID)
	assert.False(t, stayed.FlipH)
}

func TestDuplicateSelected(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	e := newTestEditor(t, a)
	require.NoError(t, e.Select(a.ID))

	duplicates := e.DuplicateSelected()
	require.Len(t, duplicates, 1)

	dup := duplicates[0]
	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, 15.0, dup.Position.X)
	assert.Equal(t, 15.0, dup.Position.Y)
	assert.Equal(t, a.Size, dup.Size)

	// The duplicate set becomes the selection.
	assert.Equal(t, []uuid.UUID{dup.ID}, e.Selection())
	assert.Equal(t, 2, e.Len())
}

func TestDuplicateUnlocksCopyOfLockedElement(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	a.Locked = true
	e := newTestEditor(t, a)
	require.NoError(t, e.Select(a.ID))

	duplicates := e.DuplicateSelected()
	require.Len(t, duplicates, 1)
	assert.False(t, duplicates[0].Locked)
}

func TestCopyPaste(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	b := textElement(40, 40, 20, 10)
	e := newTestEditor(t, a, b)
	selectAll(t, e, a, b)

	assert.Equal(t, 2, e.Copy())

	pasted := e.Paste()
	require.Len(t, pasted, 2)
	assert.Equal(t, 4, e.Len())

	for i, element := range pasted {
		assert.NotEqual(t, a.ID, element.ID)
		assert.NotEqual(t, b.ID, element.ID)
		assert.Equal(t, e.Selection()[i], element.ID)
	}
	assert.Equal(t, 15.0, pasted[0].Position.X)
	assert.Equal(t, 45.0, pasted[1].Position.X)

	// Pasting again spawns another generation with fresh ids.
	again := e.Paste()
	require.Len(t, again, 2)
	assert.NotEqual(t, pasted[0].ID, again[0].ID)
	assert.Equal(t, 6, e.Len())
}

func TestPasteEmptyClipboard(t *testing.T) {
	e := newTestEditor(t, textElement(10, 10, 20, 10))
	history := e.HistoryLen()

	assert.Nil(t, e.Paste())
	assert.Equal(t, history, e.HistoryLen())
}

func TestClipboardSurvivesSourceDeletion(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	e := newTestEditor(t, a)
	require.NoError(t, e.Select(a.ID))
	require.Equal(t, 1, e.Copy())

	e.DeleteSelected()
	assert.Zero(t, e.Len())

	pasted := e.Paste()
	require.Len(t, pasted, 1)
	assert.Equal(t, 1, e.Len())
}

func TestDuplicateUndoRemovesCopies(t *testing.T) {
	a := textElement(10, 10, 20, 10)
	e := newTestEditor(t, a)
	require.NoError(t, e.Select(a.ID))

	e.DuplicateSelected()
	require.Equal(t, 2, e.Len())

	require.True(t, e.Undo())
	assert.Equal(t, 1, e.Len())
}
