package designer

import (
	"encoding/json"
	"fmt"
)

// ElementStyle is the closed set of type-dependent style payloads. Each
// element type carries exactly its own payload; there is no shared bag of
// loosely-typed fields.
type ElementStyle interface {
	// StyleKind reports which element type this payload belongs to.
	StyleKind() ElementType
	// CloneStyle returns a deep, independent copy of the payload.
	CloneStyle() ElementStyle
}

// TextStyle is the payload for text elements
type TextStyle struct {
	Text       string    `json:"text"`
	FontFamily string    `json:"font_family,omitempty"`
	FontSizePt float64   `json:"font_size_pt,omitempty"`
	Bold       bool      `json:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty"`
	Color      string    `json:"color,omitempty"`
	Align      TextAlign `json:"align,omitempty"`
	// DataField names a host-provided product/order field used to pre-fill
	// Text at export time. Empty means the literal text is used as-is.
	DataField string `json:"data_field,omitempty"`
}

func (s *TextStyle) StyleKind() ElementType { return ElementTypeText }

func (s *TextStyle) CloneStyle() ElementStyle {
	clone := *s
	return &clone
}

// ImageStyle is the payload for image elements
type ImageStyle struct {
	SourceURL     string  `json:"source_url"`
	Opacity       float64 `json:"opacity,omitempty"`
	BorderColor   string  `json:"border_color,omitempty"`
	BorderWidthPx float64 `json:"border_width_px,omitempty"`
}

func (s *ImageStyle) StyleKind() ElementType { return ElementTypeImage }

func (s *ImageStyle) CloneStyle() ElementStyle {
	clone := *s
	return &clone
}

// BarcodeStyle is the payload for 1D barcode elements
type BarcodeStyle struct {
	Content    string    `json:"content"`
	Symbology  Symbology `json:"symbology"`
	ShowText   bool      `json:"show_text,omitempty"`
	Color      string    `json:"color,omitempty"`
	Background string    `json:"background,omitempty"`
	// Scale is a symbol-specific pixel scale multiplier applied after the
	// physical conversion; 0 means 1.0.
	Scale float64 `json:"scale,omitempty"`
}

func (s *BarcodeStyle) StyleKind() ElementType { return ElementTypeBarcode }

func (s *BarcodeStyle) CloneStyle() ElementStyle {
	clone := *s
	return &clone
}

// QRCodeStyle is the payload for QR code elements
type QRCodeStyle struct {
	Content string `json:"content"`
	// ErrorCorrection is one of L, M, Q, H; empty means M.
	ErrorCorrection string  `json:"error_correction,omitempty"`
	Color           string  `json:"color,omitempty"`
	Background      string  `json:"background,omitempty"`
	Scale           float64 `json:"scale,omitempty"`
}

func (s *QRCodeStyle) StyleKind() ElementType { return ElementTypeQRCode }

func (s *QRCodeStyle) CloneStyle() ElementStyle {
	clone := *s
	return &clone
}

// ShapeStyle is the payload for shape elements
type ShapeStyle struct {
	Kind          ShapeKind `json:"kind"`
	FillColor     string    `json:"fill_color,omitempty"`
	StrokeColor   string    `json:"stroke_color,omitempty"`
	StrokeWidthPx float64   `json:"stroke_width_px,omitempty"`
}

func (s *ShapeStyle) StyleKind() ElementType { return ElementTypeShape }

func (s *ShapeStyle) CloneStyle() ElementStyle {
	clone := *s
	return &clone
}

// defaultStyleFor returns the zero-value payload for an element type
func defaultStyleFor(elementType ElementType) ElementStyle {
	switch elementType {
	case ElementTypeText:
		return &TextStyle{}
	case ElementTypeImage:
		return &ImageStyle{}
	case ElementTypeBarcode:
		return &BarcodeStyle{Symbology: SymbologyCode128}
	case ElementTypeQRCode:
		return &QRCodeStyle{}
	case ElementTypeShape:
		return &ShapeStyle{Kind: ShapeRectangle}
	default:
		return nil
	}
}

// decodeStyle unmarshals a raw style payload for the given element type
func decodeStyle(elementType ElementType, raw json.RawMessage) (ElementStyle, error) {
	style := defaultStyleFor(elementType)
	if style == nil {
		return nil, fmt.Errorf("unknown element type %q", elementType)
	}
	if len(raw) == 0 {
		return style, nil
	}
	if err := json.Unmarshal(raw, style); err != nil {
		return nil, fmt.Errorf("style payload for %s element: %w", elementType, err)
	}
	return style, nil
}
