package designer

// ElementType represents the kind of a placed design element
type ElementType string

const (
	ElementTypeText    ElementType = "text"
	ElementTypeImage   ElementType = "image"
	ElementTypeBarcode ElementType = "barcode"
	ElementTypeQRCode  ElementType = "qr_code"
	ElementTypeShape   ElementType = "shape"
)

// IsValid checks if the ElementType is a valid value
func (t ElementType) IsValid() bool {
	switch t {
	case ElementTypeText, ElementTypeImage, ElementTypeBarcode, ElementTypeQRCode, ElementTypeShape:
		return true
	}
	return false
}

// String returns the string representation of ElementType
func (t ElementType) String() string {
	return string(t)
}

// AllElementTypes returns all valid ElementType values
func AllElementTypes() []ElementType {
	return []ElementType{
		ElementTypeText, ElementTypeImage, ElementTypeBarcode, ElementTypeQRCode, ElementTypeShape,
	}
}

// Symbology represents the encoding scheme of a barcode element
type Symbology string

const (
	SymbologyCode128 Symbology = "CODE128"
	SymbologyEAN13   Symbology = "EAN13"
	SymbologyCode39  Symbology = "CODE39"
	SymbologyQR      Symbology = "QR"
)

// IsValid checks if the Symbology is a supported format
func (s Symbology) IsValid() bool {
	switch s {
	case SymbologyCode128, SymbologyEAN13, SymbologyCode39, SymbologyQR:
		return true
	}
	return false
}

// String returns the string representation of Symbology
func (s Symbology) String() string {
	return string(s)
}

// IsLinear returns true for 1D symbologies subject to the aspect-ratio policy
func (s Symbology) IsLinear() bool {
	switch s {
	case SymbologyCode128, SymbologyEAN13, SymbologyCode39:
		return true
	}
	return false
}

// AllSymbologies returns all supported Symbology values
func AllSymbologies() []Symbology {
	return []Symbology{SymbologyCode128, SymbologyEAN13, SymbologyCode39, SymbologyQR}
}

// ShapeKind represents the geometry of a shape element
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeLine      ShapeKind = "line"
)

// IsValid checks if the ShapeKind is a valid value
func (k ShapeKind) IsValid() bool {
	switch k {
	case ShapeRectangle, ShapeEllipse, ShapeLine:
		return true
	}
	return false
}

// String returns the string representation of ShapeKind
func (k ShapeKind) String() string {
	return string(k)
}

// TextAlign represents horizontal text alignment inside a text element
type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// IsValid checks if the TextAlign is a valid value
func (a TextAlign) IsValid() bool {
	switch a {
	case TextAlignLeft, TextAlignCenter, TextAlignRight:
		return true
	}
	return false
}

// LabelKind categorizes a persisted design by its back-office purpose
type LabelKind string

const (
	LabelKindShipping LabelKind = "SHIPPING"
	LabelKindProduct  LabelKind = "PRODUCT"
	LabelKindShelf    LabelKind = "SHELF"
	LabelKindCustom   LabelKind = "CUSTOM"
)

// IsValid checks if the LabelKind is a valid value
func (k LabelKind) IsValid() bool {
	switch k {
	case LabelKindShipping, LabelKindProduct, LabelKindShelf, LabelKindCustom:
		return true
	}
	return false
}

// String returns the string representation of LabelKind
func (k LabelKind) String() string {
	return string(k)
}

// AllLabelKinds returns all valid LabelKind values
func AllLabelKinds() []LabelKind {
	return []LabelKind{LabelKindShipping, LabelKindProduct, LabelKindShelf, LabelKindCustom}
}

// DesignStatus represents the lifecycle status of a persisted design
type DesignStatus string

const (
	DesignStatusActive   DesignStatus = "ACTIVE"
	DesignStatusArchived DesignStatus = "ARCHIVED"
)

// IsValid checks if the DesignStatus is a valid value
func (s DesignStatus) IsValid() bool {
	switch s {
	case DesignStatusActive, DesignStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of DesignStatus
func (s DesignStatus) String() string {
	return string(s)
}
