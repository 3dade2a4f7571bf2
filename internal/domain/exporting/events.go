package exporting

import (
	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeExportJob = "ExportJob"
)

// Event type constants for ExportJob
const (
	EventTypeExportJobCreated   = "ExportJobCreated"
	EventTypeExportJobCompleted = "ExportJobCompleted"
	EventTypeExportJobFailed    = "ExportJobFailed"
)

// ExportJobCreatedEvent is published when a new export job is created
type ExportJobCreatedEvent struct {
	shared.BaseDomainEvent
	JobID    uuid.UUID `json:"job_id"`
	DesignID uuid.UUID `json:"design_id"`
	Format   Format    `json:"format"`
}

// NewExportJobCreatedEvent creates a new ExportJobCreatedEvent
func NewExportJobCreatedEvent(job *ExportJob) *ExportJobCreatedEvent {
	return &ExportJobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeExportJobCreated,
			AggregateTypeExportJob,
			job.ID,
			job.TenantID,
		),
		JobID:    job.ID,
		DesignID: job.DesignID,
		Format:   job.Format,
	}
}

// ExportJobCompletedEvent is published when an artifact becomes available
type ExportJobCompletedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID `json:"job_id"`
	DesignID   uuid.UUID `json:"design_id"`
	Format     Format    `json:"format"`
	StorageKey string    `json:"storage_key"`
}

// NewExportJobCompletedEvent creates a new ExportJobCompletedEvent
func NewExportJobCompletedEvent(job *ExportJob) *ExportJobCompletedEvent {
	return &ExportJobCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeExportJobCompleted,
			AggregateTypeExportJob,
			job.ID,
			job.TenantID,
		),
		JobID:      job.ID,
		DesignID:   job.DesignID,
		Format:     job.Format,
		StorageKey: job.StorageKey,
	}
}

// ExportJobFailedEvent is published when an export job fails
type ExportJobFailedEvent struct {
	shared.BaseDomainEvent
	JobID        uuid.UUID `json:"job_id"`
	DesignID     uuid.UUID `json:"design_id"`
	ErrorMessage string    `json:"error_message"`
}

// NewExportJobFailedEvent creates a new ExportJobFailedEvent
func NewExportJobFailedEvent(job *ExportJob) *ExportJobFailedEvent {
	return &ExportJobFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeExportJobFailed,
			AggregateTypeExportJob,
			job.ID,
			job.TenantID,
		),
		JobID:        job.ID,
		DesignID:     job.DesignID,
		ErrorMessage: job.ErrorMessage,
	}
}
