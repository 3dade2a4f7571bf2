package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// DesignSortFields defines allowed sort fields for label designs
var DesignSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"status":     true,
	"is_default": true,
}

// GormDesignRepository implements DesignRepository using GORM
type GormDesignRepository struct {
	db *gorm.DB
}

// NewGormDesignRepository creates a new GormDesignRepository
func NewGormDesignRepository(db *gorm.DB) *GormDesignRepository {
	return &GormDesignRepository{db: db}
}

// FindByID finds a design by ID
func (r *GormDesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*designer.Design, error) {
	var model models.DesignModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForTenant finds a design by ID within a specific tenant
func (r *GormDesignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*designer.Design, error) {
	var model models.DesignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForTenant finds all designs for a specific tenant
func (r *GormDesignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]designer.Design, error) {
	var designModels []models.DesignModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DesignModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&designModels).Error; err != nil {
		return nil, err
	}

	return toDomainDesigns(designModels)
}

// FindByKind finds all designs of a label kind within a tenant
func (r *GormDesignRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) ([]designer.Design, error) {
	var designModels []models.DesignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND kind = ?", tenantID, string(kind)).
		Order("is_default DESC, name ASC").
		Find(&designModels).Error; err != nil {
		return nil, err
	}

	return toDomainDesigns(designModels)
}

// FindDefault finds the default design for a label kind within a tenant.
// Returns nil without error when no default is set.
func (r *GormDesignRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) (*designer.Design, error) {
	var model models.DesignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND kind = ? AND is_default = ?", tenantID, string(kind), true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save saves a design (insert or update)
func (r *GormDesignRepository) Save(ctx context.Context, design *designer.Design) error {
	model, err := models.DesignModelFromDomain(design)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a design by ID
func (r *GormDesignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DesignModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant returns the total count of designs for a tenant
func (r *GormDesignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DesignModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByKindAndName checks if a design with the given kind and name exists
func (r *GormDesignRepository) ExistsByKindAndName(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.DesignModel{}).
		Where("tenant_id = ? AND kind = ? AND name = ?", tenantID, string(kind), name)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearDefaultForKind clears the default flag for all designs of a kind.
// Used when setting a new default design.
func (r *GormDesignRepository) ClearDefaultForKind(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) error {
	return r.db.WithContext(ctx).
		Model(&models.DesignModel{}).
		Where("tenant_id = ? AND kind = ? AND is_default = ?", tenantID, string(kind), true).
		Update("is_default", false).Error
}

// applyFilter applies filter options to the query
func (r *GormDesignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, DesignSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDesignRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		case "page_preset":
			query = query.Where("page_preset = ?", value)
		}
	}

	return query
}

func toDomainDesigns(designModels []models.DesignModel) ([]designer.Design, error) {
	designs := make([]designer.Design, len(designModels))
	for i := range designModels {
		design, err := designModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		designs[i] = *design
	}
	return designs, nil
}

// Ensure GormDesignRepository implements DesignRepository
var _ designer.DesignRepository = (*GormDesignRepository)(nil)
