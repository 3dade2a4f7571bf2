package exporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// ExportJobRepository defines the interface for export job persistence
type ExportJobRepository interface {
	// FindByID finds an export job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExportJob, error)

	// FindByIDForTenant finds an export job by ID within a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ExportJob, error)

	// FindAllForTenant finds all export jobs for a specific tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ExportJob, error)

	// FindByDesign finds all export jobs for a design within a tenant
	FindByDesign(ctx context.Context, tenantID, designID uuid.UUID) ([]ExportJob, error)

	// Save saves an export job (insert or update)
	Save(ctx context.Context, job *ExportJob) error

	// CountForTenant returns the total count of export jobs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
