package designer

import (
	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeDesign = "Design"
)

// Event type constants for Design
const (
	EventTypeDesignCreated          = "DesignCreated"
	EventTypeDesignUpdated          = "DesignUpdated"
	EventTypeDesignElementsReplaced = "DesignElementsReplaced"
	EventTypeDesignDeleted          = "DesignDeleted"
)

// DesignCreatedEvent is published when a new label design is created
type DesignCreatedEvent struct {
	shared.BaseDomainEvent
	DesignID     uuid.UUID  `json:"design_id"`
	Kind         LabelKind  `json:"kind"`
	Name         string     `json:"name"`
	Page         PagePreset `json:"page_preset"`
	ElementCount int        `json:"element_count"`
}

// NewDesignCreatedEvent creates a new DesignCreatedEvent
func NewDesignCreatedEvent(design *Design) *DesignCreatedEvent {
	return &DesignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDesignCreated,
			AggregateTypeDesign,
			design.ID,
			design.TenantID,
		),
		DesignID:     design.ID,
		Kind:         design.Kind,
		Name:         design.Name,
		Page:         design.Page.Preset,
		ElementCount: len(design.Elements),
	}
}

// DesignUpdatedEvent is published when a design's basic info changes
type DesignUpdatedEvent struct {
	shared.BaseDomainEvent
	DesignID uuid.UUID `json:"design_id"`
	Name     string    `json:"name"`
}

// NewDesignUpdatedEvent creates a new DesignUpdatedEvent
func NewDesignUpdatedEvent(design *Design) *DesignUpdatedEvent {
	return &DesignUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDesignUpdated,
			AggregateTypeDesign,
			design.ID,
			design.TenantID,
		),
		DesignID: design.ID,
		Name:     design.Name,
	}
}

// DesignElementsReplacedEvent is published when a session saves its element set
type DesignElementsReplacedEvent struct {
	shared.BaseDomainEvent
	DesignID     uuid.UUID `json:"design_id"`
	ElementCount int       `json:"element_count"`
}

// NewDesignElementsReplacedEvent creates a new DesignElementsReplacedEvent
func NewDesignElementsReplacedEvent(design *Design) *DesignElementsReplacedEvent {
	return &DesignElementsReplacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDesignElementsReplaced,
			AggregateTypeDesign,
			design.ID,
			design.TenantID,
		),
		DesignID:     design.ID,
		ElementCount: len(design.Elements),
	}
}
