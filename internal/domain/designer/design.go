package designer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// Design represents a persisted label design: a page descriptor plus the
// element set laid out on it. It is the aggregate root for design-related
// operations; interactive editing happens on a session copy and is saved
// back through ReplaceElements.
type Design struct {
	shared.TenantAggregateRoot
	Kind        LabelKind      // Back-office purpose (shipping, product, ...)
	Name        string         // Design name
	Description string         // Design description
	Page        PageDescriptor // Physical paper the design targets
	Elements    []Element      // Placed elements, percentage geometry
	IsDefault   bool           // Whether this is the default design for the kind
	Status      DesignStatus   // ACTIVE or ARCHIVED
}

// NewDesign creates a new label design. The supplied elements pass ingestion
// validation and are clamped onto the page.
func NewDesign(tenantID uuid.UUID, kind LabelKind, name string, page PageDescriptor, elements []Element) (*Design, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := validateDesignName(name); err != nil {
		return nil, err
	}
	if page.IsZero() {
		page = DefaultPage()
	}
	if err := ValidateElements(elements); err != nil {
		return nil, err
	}

	design := &Design{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Name:                strings.TrimSpace(name),
		Page:                page,
		Elements:            NormalizeElements(elements),
		IsDefault:           false,
		Status:              DesignStatusActive,
	}

	design.AddDomainEvent(NewDesignCreatedEvent(design))

	return design, nil
}

// Update updates the design's basic information
func (d *Design) Update(name, description string) error {
	if err := validateDesignName(name); err != nil {
		return err
	}

	d.Name = strings.TrimSpace(name)
	d.Description = strings.TrimSpace(description)
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignUpdatedEvent(d))

	return nil
}

// ReplaceElements swaps in a new element set, typically from a saved editing
// session. The set passes ingestion validation and is deep-copied so the
// aggregate never aliases session state.
func (d *Design) ReplaceElements(elements []Element) error {
	if err := ValidateElements(elements); err != nil {
		return err
	}

	d.Elements = NormalizeElements(elements)
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignElementsReplacedEvent(d))

	return nil
}

// SetPage replaces the active page descriptor. Element percentage
// coordinates are deliberately left untouched.
func (d *Design) SetPage(page PageDescriptor) error {
	if page.IsZero() {
		return shared.NewDomainError("INVALID_PAGE_SIZE", "Page dimensions must be positive")
	}

	d.Page = page
	d.Touch()
	d.IncrementVersion()

	return nil
}

// SetAsDefault marks this design as the default for its label kind.
// The caller ensures only one default exists per kind.
func (d *Design) SetAsDefault() error {
	if d.Status != DesignStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot set an archived design as default")
	}
	if d.IsDefault {
		return nil
	}

	d.IsDefault = true
	d.Touch()
	d.IncrementVersion()

	return nil
}

// UnsetDefault removes the default flag
func (d *Design) UnsetDefault() {
	if !d.IsDefault {
		return
	}
	d.IsDefault = false
	d.Touch()
	d.IncrementVersion()
}

// Archive archives the design
func (d *Design) Archive() error {
	if d.Status == DesignStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Design is already archived")
	}
	if d.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot archive a default design. Set another design as default first.")
	}

	d.Status = DesignStatusArchived
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Restore reactivates an archived design
func (d *Design) Restore() error {
	if d.Status == DesignStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Design is already active")
	}

	d.Status = DesignStatusActive
	d.Touch()
	d.IncrementVersion()

	return nil
}

// IsActive returns true if the design is active
func (d *Design) IsActive() bool {
	return d.Status == DesignStatusActive
}

func validateKind(kind LabelKind) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_LABEL_KIND", "Invalid label kind")
	}
	return nil
}

func validateDesignName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Design name cannot be empty")
	}
	if len(trimmed) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Design name cannot exceed 100 characters")
	}
	return nil
}
