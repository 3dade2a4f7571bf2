package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labeldesk/backend/internal/domain/exporting"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ExportJobSortFields defines allowed sort fields for export jobs
var ExportJobSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"completed_at": true,
	"format":       true,
	"status":       true,
}

// GormExportJobRepository implements ExportJobRepository using GORM
type GormExportJobRepository struct {
	db *gorm.DB
}

// NewGormExportJobRepository creates a new GormExportJobRepository
func NewGormExportJobRepository(db *gorm.DB) *GormExportJobRepository {
	return &GormExportJobRepository{db: db}
}

// FindByID finds an export job by ID
func (r *GormExportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*exporting.ExportJob, error) {
	var model models.ExportJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an export job by ID within a specific tenant
func (r *GormExportJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*exporting.ExportJob, error) {
	var model models.ExportJobModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all export jobs for a specific tenant
func (r *GormExportJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]exporting.ExportJob, error) {
	var jobModels []models.ExportJobModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExportJobModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}

	return toDomainExportJobs(jobModels), nil
}

// FindByDesign finds all export jobs for a design within a tenant
func (r *GormExportJobRepository) FindByDesign(ctx context.Context, tenantID, designID uuid.UUID) ([]exporting.ExportJob, error) {
	var jobModels []models.ExportJobModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND design_id = ?", tenantID, designID).
		Order("created_at DESC").
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	return toDomainExportJobs(jobModels), nil
}

// Save saves an export job (insert or update)
func (r *GormExportJobRepository) Save(ctx context.Context, job *exporting.ExportJob) error {
	model := models.ExportJobModelFromDomain(job)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountForTenant returns the total count of export jobs for a tenant
func (r *GormExportJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ExportJobModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormExportJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ExportJobSortFields, "")
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
func (r *GormExportJobRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("design_name LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "design_id":
			query = query.Where("design_id = ?", value)
		case "format":
			query = query.Where("format = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

func toDomainExportJobs(jobModels []models.ExportJobModel) []exporting.ExportJob {
	jobs := make([]exporting.ExportJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = *jobModels[i].ToDomain()
	}
	return jobs
}

// Ensure GormExportJobRepository implements ExportJobRepository
var _ exporting.ExportJobRepository = (*GormExportJobRepository)(nil)
