package designer

import (
	"github.com/labeldesk/backend/internal/domain/shared"
)

// PagePreset represents a physical paper preset for the design surface
type PagePreset string

const (
	PagePresetA4          PagePreset = "A4"            // 210mm x 297mm
	PagePresetA5          PagePreset = "A5"            // 148mm x 210mm
	PagePresetLabel100150 PagePreset = "LABEL_100X150" // 100mm x 150mm shipping label
	PagePresetLabel100100 PagePreset = "LABEL_100X100" // 100mm x 100mm square label
	PagePresetCustom      PagePreset = "CUSTOM"        // caller-supplied dimensions
)

// IsValid checks if the PagePreset is a valid value
func (p PagePreset) IsValid() bool {
	switch p {
	case PagePresetA4, PagePresetA5, PagePresetLabel100150, PagePresetLabel100100, PagePresetCustom:
		return true
	}
	return false
}

// String returns the string representation of PagePreset
func (p PagePreset) String() string {
	return string(p)
}

// Dimensions returns the preset dimensions in millimeters. CUSTOM returns
// zeros; custom pages carry their own dimensions.
func (p PagePreset) Dimensions() (width, height float64) {
	switch p {
	case PagePresetA4:
		return 210, 297
	case PagePresetA5:
		return 148, 210
	case PagePresetLabel100150:
		return 100, 150
	case PagePresetLabel100100:
		return 100, 100
	default:
		return 0, 0
	}
}

// AllPagePresets returns all valid PagePreset values
func AllPagePresets() []PagePreset {
	return []PagePreset{
		PagePresetA4, PagePresetA5, PagePresetLabel100150, PagePresetLabel100100, PagePresetCustom,
	}
}

// PageDescriptor is the physical sheet the design is laid out on, in
// millimeters. Exactly one descriptor is active per editing session.
// Replacing it never rescales element percentage coordinates; those are
// resolution-independent by design.
type PageDescriptor struct {
	Preset   PagePreset `json:"preset"`
	WidthMM  float64    `json:"width_mm"`
	HeightMM float64    `json:"height_mm"`
}

const maxPageDimensionMM = 2000

// NewPageDescriptor creates a descriptor from a preset
func NewPageDescriptor(preset PagePreset) (PageDescriptor, error) {
	if !preset.IsValid() || preset == PagePresetCustom {
		return PageDescriptor{}, shared.NewDomainError("INVALID_PAGE_PRESET", "Invalid page preset")
	}
	width, height := preset.Dimensions()
	return PageDescriptor{Preset: preset, WidthMM: width, HeightMM: height}, nil
}

// NewCustomPageDescriptor creates a descriptor from explicit millimeter dimensions
func NewCustomPageDescriptor(widthMM, heightMM float64) (PageDescriptor, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return PageDescriptor{}, shared.NewDomainError("INVALID_PAGE_SIZE", "Page dimensions must be positive")
	}
	if widthMM > maxPageDimensionMM || heightMM > maxPageDimensionMM {
		return PageDescriptor{}, shared.NewDomainError("INVALID_PAGE_SIZE", "Page dimensions cannot exceed 2000mm")
	}
	return PageDescriptor{Preset: PagePresetCustom, WidthMM: widthMM, HeightMM: heightMM}, nil
}

// IsZero reports whether the descriptor is missing or degenerate
func (p PageDescriptor) IsZero() bool {
	return p.WidthMM <= 0 || p.HeightMM <= 0
}

// DefaultPage returns the A4 descriptor used when the host supplies none
func DefaultPage() PageDescriptor {
	page, _ := NewPageDescriptor(PagePresetA4)
	return page
}
