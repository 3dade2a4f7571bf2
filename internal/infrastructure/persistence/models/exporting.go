package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/exporting"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// ExportJobModel is the GORM model for the export_jobs table
type ExportJobModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DesignID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DesignName   string     `gorm:"type:varchar(100);not null"`
	Format       string     `gorm:"type:varchar(20);not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	StorageKey   string     `gorm:"type:varchar(255)"`
	DownloadURL  string     `gorm:"type:text"`
	ErrorMessage string     `gorm:"type:text"`
	CompletedAt  *time.Time `gorm:""`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
	Version      int        `gorm:"not null;default:1"`
}

// TableName returns the table name for ExportJobModel
func (ExportJobModel) TableName() string {
	return "export_jobs"
}

// ToDomain converts ExportJobModel to a domain ExportJob
func (m *ExportJobModel) ToDomain() *exporting.ExportJob {
	return &exporting.ExportJob{
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
		DesignID:     m.DesignID,
		DesignName:   m.DesignName,
		Format:       exporting.Format(m.Format),
		Status:       exporting.JobStatus(m.Status),
		StorageKey:   m.StorageKey,
		DownloadURL:  m.DownloadURL,
		ErrorMessage: m.ErrorMessage,
		CompletedAt:  m.CompletedAt,
	}
}

// ExportJobModelFromDomain creates an ExportJobModel from a domain ExportJob
func ExportJobModelFromDomain(j *exporting.ExportJob) *ExportJobModel {
	return &ExportJobModel{
		ID:           j.ID,
		TenantID:     j.TenantID,
		DesignID:     j.DesignID,
		DesignName:   j.DesignName,
		Format:       string(j.Format),
		Status:       string(j.Status),
		StorageKey:   j.StorageKey,
		DownloadURL:  j.DownloadURL,
		ErrorMessage: j.ErrorMessage,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		Version:      j.Version,
	}
}
