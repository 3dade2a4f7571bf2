package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPhysical(t *testing.T) {
	profile := DefaultProfile()

	tests := []struct {
		name       string
		size       SizePercent
		wantOK     bool
		wantWidth  float64
		wantHeight float64
	}{
		{
			name:       "full page equals A4 in millimeters",
			size:       SizePercent{Width: 100, Height: 100},
			wantOK:     true,
			wantWidth:  595.28 * 0.352778,
			wantHeight: 841.89 * 0.352778,
		},
		{
			name:       "half width quarter height",
			size:       SizePercent{Width: 50, Height: 25},
			wantOK:     true,
			wantWidth:  595.28 * 0.5 * 0.352778,
			wantHeight: 841.89 * 0.25 * 0.352778,
		},
		{
			name:   "zero width is degenerate",
			size:   SizePercent{Width: 0, Height: 10},
			wantOK: false,
		},
		{
			name:   "negative height is degenerate",
			size:   SizePercent{Width: 10, Height: -1},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phys, ok := profile.ToPhysical(tt.size)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.wantWidth, phys.WidthMM, 1e-9)
				assert.InDelta(t, tt.wantHeight, phys.HeightMM, 1e-9)
			}
		})
	}
}

func TestClampSymbolRatio(t *testing.T) {
	profile := DefaultProfile()

	t.Run("ratio above max reduces width only", func(t *testing.T) {
		// 40% x 2% of the reference page is far wider than 6:1.
		phys, ok := profile.ToPhysical(SizePercent{Width: 40, Height: 2})
		require.True(t, ok)
		require.Greater(t, phys.WidthMM/phys.HeightMM, profile.MaxSymbolRatio)

		clamped := profile.ClampSymbolRatio(phys)
		assert.InEpsilon(t, profile.MaxSymbolRatio, clamped.WidthMM/clamped.HeightMM, 1e-12)
		assert.Equal(t, phys.HeightMM, clamped.HeightMM, "height axis must be untouched")
		assert.Less(t, clamped.WidthMM, phys.WidthMM)
	})

	t.Run("ratio below min reduces height only", func(t *testing.T) {
		phys := Physical{WidthMM: 20, HeightMM: 40}
		clamped := profile.ClampSymbolRatio(phys)
		assert.InEpsilon(t, profile.MinSymbolRatio, clamped.WidthMM/clamped.HeightMM, 1e-12)
		assert.Equal(t, phys.WidthMM, clamped.WidthMM, "width axis must be untouched")
	})

	t.Run("ratio inside bounds is unchanged", func(t *testing.T) {
		phys := Physical{WidthMM: 40, HeightMM: 10}
		assert.Equal(t, phys, profile.ClampSymbolRatio(phys))
	})

	t.Run("clamp is non-cumulative", func(t *testing.T) {
		phys := Physical{WidthMM: 100, HeightMM: 5}
		once := profile.ClampSymbolRatio(phys)
		twice := profile.ClampSymbolRatio(once)
		assert.Equal(t, once, twice)
	})

	t.Run("result always inside policy bounds", func(t *testing.T) {
		for _, phys := range []Physical{
			{WidthMM: 1, HeightMM: 100},
			{WidthMM: 100, HeightMM: 1},
			{WidthMM: 33.3, HeightMM: 9.7},
			{WidthMM: 0.5, HeightMM: 0.5},
		} {
			clamped := profile.ClampSymbolRatio(phys)
			ratio := clamped.WidthMM / clamped.HeightMM
			assert.GreaterOrEqual(t, ratio, profile.MinSymbolRatio-1e-9)
			assert.LessOrEqual(t, ratio, profile.MaxSymbolRatio+1e-9)
		}
	})
}

func TestToPixels(t *testing.T) {
	profile := DefaultProfile()

	px := profile.ToPixels(Physical{WidthMM: 10, HeightMM: 5}, 2.0, 1.5)
	assert.InDelta(t, 10*MMToPx*2.0*1.5, px.Width, 1e-9)
	assert.InDelta(t, 5*MMToPx*2.0*1.5, px.Height, 1e-9)

	// Zero zoom and scale fall back to 1.
	px = profile.ToPixels(Physical{WidthMM: 10, HeightMM: 5}, 0, 0)
	assert.InDelta(t, 10*MMToPx, px.Width, 1e-9)
}

func TestFloorFootprint(t *testing.T) {
	profile := DefaultProfile()

	floored := profile.FloorFootprint(PixelSize{Width: 10, Height: 10})
	assert.Equal(t, PixelSize{Width: 60, Height: 30}, floored)

	untouched := profile.FloorFootprint(PixelSize{Width: 200, Height: 80})
	assert.Equal(t, PixelSize{Width: 200, Height: 80}, untouched)
}

func TestPixelDeltaToPercentIsInverse(t *testing.T) {
	profile := DefaultProfile()

	for _, zoom := range []float64{0.5, 1.0, 1.75, 3.0} {
		for _, size := range []SizePercent{
			{Width: 1, Height: 1},
			{Width: 20, Height: 10},
			{Width: 99.9, Height: 42},
		} {
			px, ok := profile.PercentToPixels(size, zoom)
			require.True(t, ok)

			dw, dh := profile.PixelDeltaToPercent(px.Width, px.Height, zoom)
			assert.InDelta(t, size.Width, dw, 1e-9, "zoom %v", zoom)
			assert.InDelta(t, size.Height, dh, 1e-9, "zoom %v", zoom)
		}
	}
}

func TestRoundTripWithinTolerance(t *testing.T) {
	profile := DefaultProfile()

	// toPixels(toPhysical(...)) followed by the inverse reproduces the
	// original percentage size. The minimum footprint floor is a one-way
	// clamp applied separately, so it does not participate here.
	sizes := []SizePercent{
		{Width: 0.5, Height: 0.5},
		{Width: 10, Height: 10},
		{Width: 33.33, Height: 66.66},
		{Width: 100, Height: 100},
	}
	for _, size := range sizes {
		phys, ok := profile.ToPhysical(size)
		require.True(t, ok)
		px := profile.ToPixels(phys, 1.25, 1)
		w, h := profile.PixelDeltaToPercent(px.Width, px.Height, 1.25)
		assert.True(t, math.Abs(w-size.Width) < 1e-9)
		assert.True(t, math.Abs(h-size.Height) < 1e-9)
	}
}

func TestPageBoxConversions(t *testing.T) {
	profile := DefaultProfile()

	// An inch of label is 72 points and 25.4mm; both conversions must
	// agree with PtToMM rather than restate the literals.
	assert.InDelta(t, 72.0, profile.MMToPt(25.4), 1e-3)
	assert.InDelta(t, 1.0, profile.MMToInches(25.4), 1e-5)
	assert.InDelta(t, profile.MMToPt(100)/PtPerInch, profile.MMToInches(100), 1e-9)
}

func TestDefaultProfileMatchesPrintConstants(t *testing.T) {
	// Compatibility invariant with the server-side document renderer:
	// these literals are the contract, not an implementation detail.
	profile := DefaultProfile()
	assert.Equal(t, 595.28, profile.RefPageWidthPt)
	assert.Equal(t, 841.89, profile.RefPageHeightPt)
	assert.Equal(t, 0.352778, profile.PtToMM)
	assert.Equal(t, 3.779528, profile.MMToPx)
	assert.Equal(t, 2.0, profile.MinSymbolRatio)
	assert.Equal(t, 6.0, profile.MaxSymbolRatio)
	assert.True(t, profile.Valid())
}
