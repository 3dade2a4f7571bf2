// Package exporting holds the export job aggregate: one record per rendered
// artifact (PNG, raster PDF, vector PDF) produced from a label design.
package exporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// ExportJob tracks a single export of a design to an output artifact
type ExportJob struct {
	shared.TenantAggregateRoot
	DesignID     uuid.UUID  // Design being exported
	DesignName   string     // Design name at export time (for display)
	Format       Format     // Output format
	Status       JobStatus  // Current job status
	StorageKey   string     // Key of the stored artifact
	DownloadURL  string     // Presigned URL to the artifact
	ErrorMessage string     // Error message if the job failed
	CompletedAt  *time.Time // When the artifact became available
}

// NewExportJob creates a new pending export job
func NewExportJob(tenantID, designID uuid.UUID, designName string, format Format) (*ExportJob, error) {
	if designID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DESIGN", "Design ID cannot be empty")
	}
	if designName == "" {
		return nil, shared.NewDomainError("INVALID_DESIGN_NAME", "Design name cannot be empty")
	}
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_FORMAT", "Unknown export format: "+string(format))
	}

	job := &ExportJob{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DesignID:            designID,
		DesignName:          designName,
		Format:              format,
		Status:              JobStatusPending,
	}

	job.AddDomainEvent(NewExportJobCreatedEvent(job))

	return job, nil
}

// StartRendering marks the job as rendering
func (j *ExportJob) StartRendering() error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}

	j.Status = JobStatusRendering
	j.Touch()
	j.IncrementVersion()

	return nil
}

// Complete marks the job as completed with the artifact location
func (j *ExportJob) Complete(storageKey, downloadURL string) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if storageKey == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}

	j.Status = JobStatusCompleted
	j.StorageKey = storageKey
	j.DownloadURL = downloadURL
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewExportJobCompletedEvent(j))

	return nil
}

// Fail marks the job as failed with an error message
func (j *ExportJob) Fail(errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job that is already in terminal status: "+j.Status.String())
	}

	j.Status = JobStatusFailed
	j.ErrorMessage = errorMessage
	j.Touch()
	j.IncrementVersion()

	j.AddDomainEvent(NewExportJobFailedEvent(j))

	return nil
}

// IsCompleted returns true if the job is completed
func (j *ExportJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsFailed returns true if the job failed
func (j *ExportJob) IsFailed() bool {
	return j.Status == JobStatusFailed
}

// IsTerminal returns true if the job is in a terminal state
func (j *ExportJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// HasArtifact returns true if an artifact has been stored
func (j *ExportJob) HasArtifact() bool {
	return j.StorageKey != ""
}
