// Package units implements the coordinate-transform pipeline shared by the
// interactive canvas and the print-time renderer. Both sides must produce
// identical physical dimensions for the same element, so every conversion
// constant lives here and nowhere else.
package units

import "math"

// Conversion constants. These are a compatibility contract with the
// server-side document renderer and must not be duplicated elsewhere.
const (
	// RefPageWidthPt and RefPageHeightPt are the fixed reference page
	// dimensions in points (A4 portrait). Percentage geometry is resolved
	// against the print page, not the editor viewport.
	RefPageWidthPt  = 595.28
	RefPageHeightPt = 841.89

	// PtToMM converts points to millimeters.
	PtToMM = 0.352778

	// MMToPx converts millimeters to device pixels at 96 DPI.
	MMToPx = 3.779528

	// PtPerInch is the PostScript point density. Page boxes expressed in
	// points or inches both derive from PtToMM through it.
	PtPerInch = 72.0
)

// Default symbol aspect-ratio policy. Scanner readability constrains the
// width/height ratio of 1D symbols; the bounds are configurable but the
// defaults match the print renderer.
const (
	DefaultMinSymbolRatio = 2.0
	DefaultMaxSymbolRatio = 6.0
)

// Default minimum interactive footprint in pixels. Purely a usability floor
// for the editor; it never feeds back into physical dimensions.
const (
	DefaultMinFootprintWPx = 60.0
	DefaultMinFootprintHPx = 30.0
)

// SizePercent is an element size in percentage-of-page units, range (0,100].
type SizePercent struct {
	Width  float64
	Height float64
}

// Physical is an absolute size in millimeters.
type Physical struct {
	WidthMM  float64
	HeightMM float64
}

// PixelSize is a size in device pixels.
type PixelSize struct {
	Width  float64
	Height float64
}

// Profile bundles the conversion constants and the clamp policy. A single
// Profile instance is shared between the interactive engine and the export
// path; tests assert the two call sites see identical values.
type Profile struct {
	RefPageWidthPt  float64
	RefPageHeightPt float64
	PtToMM          float64
	MMToPx          float64
	MinSymbolRatio  float64
	MaxSymbolRatio  float64
	MinFootprintWPx float64
	MinFootprintHPx float64
}

// DefaultProfile returns the profile matching the print renderer.
func DefaultProfile() Profile {
	return Profile{
		RefPageWidthPt:  RefPageWidthPt,
		RefPageHeightPt: RefPageHeightPt,
		PtToMM:          PtToMM,
		MMToPx:          MMToPx,
		MinSymbolRatio:  DefaultMinSymbolRatio,
		MaxSymbolRatio:  DefaultMaxSymbolRatio,
		MinFootprintWPx: DefaultMinFootprintWPx,
		MinFootprintHPx: DefaultMinFootprintHPx,
	}
}

// Valid reports whether the profile carries usable constants.
func (p Profile) Valid() bool {
	return p.RefPageWidthPt > 0 && p.RefPageHeightPt > 0 &&
		p.PtToMM > 0 && p.MMToPx > 0 &&
		p.MinSymbolRatio > 0 && p.MaxSymbolRatio >= p.MinSymbolRatio
}

// ToPhysical converts a percentage-of-page size to millimeters by way of
// points. This is the only permitted path from percentage to physical space;
// a direct percentage-to-pixel shortcut would desynchronize the preview from
// the print renderer.
//
// The boolean result is false when the size is degenerate (zero or negative
// on either axis); callers must then fall back to literal pixel props, an
// editor-only degraded path never used for export.
func (p Profile) ToPhysical(size SizePercent) (Physical, bool) {
	if size.Width <= 0 || size.Height <= 0 {
		return Physical{}, false
	}
	widthPt := size.Width / 100.0 * p.RefPageWidthPt
	heightPt := size.Height / 100.0 * p.RefPageHeightPt
	return Physical{
		WidthMM:  widthPt * p.PtToMM,
		HeightMM: heightPt * p.PtToMM,
	}, true
}

// ClampSymbolRatio enforces the aspect-ratio policy for auto-fit symbol
// elements. Exactly one axis is adjusted per call, and the adjustment is
// recomputed from the unclamped input every time (non-cumulative).
func (p Profile) ClampSymbolRatio(phys Physical) Physical {
	if phys.WidthMM <= 0 || phys.HeightMM <= 0 {
		return phys
	}
	ratio := phys.WidthMM / phys.HeightMM
	switch {
	case ratio < p.MinSymbolRatio:
		phys.HeightMM = phys.WidthMM / p.MinSymbolRatio
	case ratio > p.MaxSymbolRatio:
		phys.WidthMM = phys.HeightMM * p.MaxSymbolRatio
	}
	return phys
}

// ToPixels converts millimeters to device pixels, scaled by the caller's
// zoom factor and an optional symbol-specific scale multiplier.
func (p Profile) ToPixels(phys Physical, zoom, scale float64) PixelSize {
	if zoom <= 0 {
		zoom = 1
	}
	if scale <= 0 {
		scale = 1
	}
	return PixelSize{
		Width:  phys.WidthMM * p.MMToPx * zoom * scale,
		Height: phys.HeightMM * p.MMToPx * zoom * scale,
	}
}

// FloorFootprint raises a pixel size to the minimum interactive footprint.
// One-way: the result is for hit testing and on-screen drawing only.
func (p Profile) FloorFootprint(px PixelSize) PixelSize {
	return PixelSize{
		Width:  math.Max(px.Width, p.MinFootprintWPx),
		Height: math.Max(px.Height, p.MinFootprintHPx),
	}
}

// MMToPt converts millimeters to points, the inverse of PtToMM. PDF page
// boxes are specified in points and must round-trip against ToPhysical.
func (p Profile) MMToPt(mm float64) float64 {
	return mm / p.PtToMM
}

// MMToInches converts millimeters to inches by way of points, so inch-based
// page boxes use the same constant as the point-based path.
func (p Profile) MMToInches(mm float64) float64 {
	return mm / (p.PtToMM * PtPerInch)
}

// PixelDeltaToPercent converts a pointer delta in device pixels back to
// percentage-of-page units: the exact inverse of the percentage -> points ->
// millimeters -> pixels chain, independent of the symbol ratio clamp.
func (p Profile) PixelDeltaToPercent(dxPx, dyPx, zoom float64) (dxPct, dyPct float64) {
	if zoom <= 0 {
		zoom = 1
	}
	pxPerPctX := p.RefPageWidthPt / 100.0 * p.PtToMM * p.MMToPx * zoom
	pxPerPctY := p.RefPageHeightPt / 100.0 * p.PtToMM * p.MMToPx * zoom
	return dxPx / pxPerPctX, dyPx / pxPerPctY
}

// PercentToPixels converts a percentage size directly through the full
// chain for layout of non-symbol elements. It shares every constant with
// ToPhysical/ToPixels and exists so callers cannot invent a shortcut.
func (p Profile) PercentToPixels(size SizePercent, zoom float64) (PixelSize, bool) {
	phys, ok := p.ToPhysical(size)
	if !ok {
		return PixelSize{}, false
	}
	return p.ToPixels(phys, zoom, 1), true
}
