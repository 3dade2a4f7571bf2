package designer

import (
	"context"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// DesignRepository defines the interface for label design persistence
type DesignRepository interface {
	// FindByID finds a design by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Design, error)

	// FindByIDForTenant finds a design by ID within a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Design, error)

	// FindAllForTenant finds all designs for a specific tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Design, error)

	// FindByKind finds all designs of a label kind within a tenant
	FindByKind(ctx context.Context, tenantID uuid.UUID, kind LabelKind) ([]Design, error)

	// FindDefault finds the default design for a label kind within a tenant.
	// Returns nil without error when no default is set.
	FindDefault(ctx context.Context, tenantID uuid.UUID, kind LabelKind) (*Design, error)

	// Save saves a design (insert or update)
	Save(ctx context.Context, design *Design) error

	// Delete deletes a design by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant returns the total count of designs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByKindAndName checks if a design with the given kind and name exists
	ExistsByKindAndName(ctx context.Context, tenantID uuid.UUID, kind LabelKind, name string, excludeID *uuid.UUID) (bool, error)

	// ClearDefaultForKind clears the default flag for all designs of a kind.
	// Used when setting a new default design.
	ClearDefaultForKind(ctx context.Context, tenantID uuid.UUID, kind LabelKind) error
}
