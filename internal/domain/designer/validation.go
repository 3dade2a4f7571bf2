package designer

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ValidationIssue describes a single problem with a host-supplied element
// record. Index refers to the element's position in the submitted array.
type ValidationIssue struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every issue found during ingestion. Malformed
// records are rejected outright rather than silently coerced; coercion here
// would corrupt the percentage-based invariants the editor relies on.
type ValidationError struct {
	Issues []ValidationIssue `json:"issues"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "element validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("element %d: %s %s", issue.Index, issue.Field, issue.Message))
	}
	return "element validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(index int, field, message string) {
	e.Issues = append(e.Issues, ValidationIssue{Index: index, Field: field, Message: message})
}

// ValidateElements checks a host-supplied element set against the exchange
// schema. Structural defects (missing id, duplicate id, unknown type,
// non-finite geometry, non-positive size) are reported; merely out-of-range
// geometry is NOT an error because the editor clamps it on ingestion.
func ValidateElements(elements []Element) error {
	verr := &ValidationError{}
	seen := make(map[uuid.UUID]int, len(elements))

	for i, element := range elements {
		if element.ID == uuid.Nil {
			verr.add(i, "id", "is required")
		} else if first, dup := seen[element.ID]; dup {
			verr.add(i, "id", fmt.Sprintf("duplicates element %d", first))
		} else {
			seen[element.ID] = i
		}

		if !element.Type.IsValid() {
			verr.add(i, "type", fmt.Sprintf("unknown element type %q", element.Type))
		}

		if !isFinite(element.Position.X) || !isFinite(element.Position.Y) {
			verr.add(i, "position", "must be finite numbers")
		}
		if !isFinite(element.Size.Width) || !isFinite(element.Size.Height) {
			verr.add(i, "size", "must be finite numbers")
		} else if element.Size.Width <= 0 || element.Size.Height <= 0 {
			verr.add(i, "size", "must be positive")
		}
		if !isFinite(element.Rotation) {
			verr.add(i, "rotation", "must be a finite number")
		}

		if element.Style != nil && element.Style.StyleKind() != element.Type {
			verr.add(i, "style", "payload does not match element type")
		}
		if element.Type == ElementTypeBarcode {
			if style, ok := element.Style.(*BarcodeStyle); ok && style.Symbology != "" && !style.Symbology.IsValid() {
				verr.add(i, "style.symbology", fmt.Sprintf("unsupported symbology %q", style.Symbology))
			}
		}
	}

	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}

// NormalizeElements clamps validated elements onto the page and fills
// missing style payloads. It assumes ValidateElements passed.
func NormalizeElements(elements []Element) []Element {
	normalized := CloneElements(elements)
	for i := range normalized {
		if normalized[i].Style == nil {
			normalized[i].Style = defaultStyleFor(normalized[i].Type)
		}
		normalized[i].SetGeometry(normalized[i].Position, normalized[i].Size)
	}
	return normalized
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
