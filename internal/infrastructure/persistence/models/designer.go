package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// DesignModel is the GORM model for the label_designs table. Element geometry
// and styles are stored as a single JSON document since the editor always
// loads and saves the element set as a whole.
type DesignModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind         string    `gorm:"type:varchar(50);not null;index"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Description  string    `gorm:"type:text"`
	PagePreset   string    `gorm:"column:page_preset;type:varchar(30);not null;default:'LABEL_100X150'"`
	PageWidthMM  float64   `gorm:"column:page_width_mm;not null"`
	PageHeightMM float64   `gorm:"column:page_height_mm;not null"`
	Elements     string    `gorm:"type:jsonb;not null;default:'[]'"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	Status       string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Version      int       `gorm:"not null;default:1"`
}

// TableName returns the table name for DesignModel
func (DesignModel) TableName() string {
	return "label_designs"
}

// ToDomain converts DesignModel to a domain Design
func (m *DesignModel) ToDomain() (*designer.Design, error) {
	var elements []designer.Element
	if m.Elements != "" {
		if err := json.Unmarshal([]byte(m.Elements), &elements); err != nil {
			return nil, fmt.Errorf("failed to decode design elements: %w", err)
		}
	}

	return &designer.Design{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		Kind:        designer.LabelKind(m.Kind),
		Name:        m.Name,
		Description: m.Description,
		Page: designer.PageDescriptor{
			Preset:   designer.PagePreset(m.PagePreset),
			WidthMM:  m.PageWidthMM,
			HeightMM: m.PageHeightMM,
		},
		Elements:  elements,
		IsDefault: m.IsDefault,
		Status:    designer.DesignStatus(m.Status),
	}, nil
}

// DesignModelFromDomain creates a DesignModel from a domain Design
func DesignModelFromDomain(d *designer.Design) (*DesignModel, error) {
	elements := d.Elements
	if elements == nil {
		elements = []designer.Element{}
	}
	encoded, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("failed to encode design elements: %w", err)
	}

	return &DesignModel{
		ID:           d.ID,
		TenantID:     d.TenantID,
		Kind:         string(d.Kind),
		Name:         d.Name,
		Description:  d.Description,
		PagePreset:   string(d.Page.Preset),
		PageWidthMM:  d.Page.WidthMM,
		PageHeightMM: d.Page.HeightMM,
		Elements:     string(encoded),
		IsDefault:    d.IsDefault,
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}, nil
}
