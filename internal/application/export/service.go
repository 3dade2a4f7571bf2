// Package export runs design exports: it renders a design through the
// requested backend, stores the artifact, and tracks the job lifecycle.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/exporting"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/rendering"
)

// defaultExportZoom scales PNG exports above screen resolution so printed
// output stays sharp.
const defaultExportZoom = 3.0

// ExportService handles export-related business operations
type ExportService struct {
	designRepo designer.DesignRepository
	jobRepo    exporting.ExportJobRepository
	raster     rendering.RasterRenderer
	rasterPDF  rendering.PDFRenderer
	vectorPDF  rendering.PDFRenderer
	storage    ArtifactStorage
	logger     *zap.Logger
}

// NewExportService creates a new ExportService. vectorPDF may be nil when no
// headless browser is available; vector PDF requests then fall back to the
// raster backend.
func NewExportService(
	designRepo designer.DesignRepository,
	jobRepo exporting.ExportJobRepository,
	raster rendering.RasterRenderer,
	rasterPDF rendering.PDFRenderer,
	vectorPDF rendering.PDFRenderer,
	storage ArtifactStorage,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		designRepo: designRepo,
		jobRepo:    jobRepo,
		raster:     raster,
		rasterPDF:  rasterPDF,
		vectorPDF:  vectorPDF,
		storage:    storage,
		logger:     logger,
	}
}

// ExportDesign renders a design to the requested format and stores the
// artifact. The job is persisted through every status transition so a
// failure leaves an inspectable record.
func (s *ExportService) ExportDesign(ctx context.Context, tenantID uuid.UUID, req ExportRequest) (*ExportJobResponse, error) {
	format := exporting.Format(req.Format)
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid export format")
	}

	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, req.DesignID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if !design.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot export an archived design")
	}

	job, err := exporting.NewExportJob(tenantID, design.ID, design.Name, format)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save export job: %w", err)
	}

	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	data, err := s.render(ctx, design, format, req.Zoom)
	if err != nil {
		s.logger.Error("export rendering failed",
			zap.Error(err),
			zap.String("job_id", job.ID.String()),
			zap.String("format", string(format)))
		_ = job.Fail("Rendering failed. Please try again later.")
		_ = s.jobRepo.Save(ctx, job)
		return nil, fmt.Errorf("failed to render design: %w", err)
	}

	storageKey := fmt.Sprintf("%s/%s.%s", tenantID, job.ID, format.Extension())
	if err := s.storage.Upload(ctx, storageKey, data, format.ContentType()); err != nil {
		s.logger.Error("artifact upload failed",
			zap.Error(err),
			zap.String("job_id", job.ID.String()))
		_ = job.Fail("Failed to store the rendered artifact. Please try again later.")
		_ = s.jobRepo.Save(ctx, job)
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	downloadURL, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, 0)
	if err != nil {
		s.logger.Error("download URL generation failed",
			zap.Error(err),
			zap.String("job_id", job.ID.String()))
		_ = job.Fail("Failed to publish the rendered artifact.")
		_ = s.jobRepo.Save(ctx, job)
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	if err := job.Complete(storageKey, downloadURL); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	s.logger.Info("design exported",
		zap.String("job_id", job.ID.String()),
		zap.String("design_id", design.ID.String()),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)))

	return toJobResponse(job), nil
}

// render dispatches to the backend matching the format.
func (s *ExportService) render(ctx context.Context, design *designer.Design, format exporting.Format, zoom float64) ([]byte, error) {
	req := &rendering.RasterRequest{
		Page:     design.Page,
		Elements: design.Elements,
		Zoom:     zoom,
	}
	if req.Zoom <= 0 {
		req.Zoom = defaultExportZoom
	}

	switch format {
	case exporting.FormatPNG:
		result, err := s.raster.RenderPNG(ctx, req)
		if err != nil {
			return nil, err
		}
		return result.PNGData, nil
	case exporting.FormatPDF:
		result, err := s.rasterPDF.RenderPDF(ctx, req)
		if err != nil {
			return nil, err
		}
		return result.PDFData, nil
	case exporting.FormatVectorPDF:
		renderer := s.vectorPDF
		if renderer == nil {
			s.logger.Warn("vector PDF backend unavailable, falling back to raster",
				zap.String("design_id", design.ID.String()))
			renderer = s.rasterPDF
		}
		result, err := renderer.RenderPDF(ctx, req)
		if err != nil {
			return nil, err
		}
		return result.PDFData, nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid export format")
	}
}

// GetJob retrieves an export job by ID
func (s *ExportService) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*ExportJobResponse, error) {
	job, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Export job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return toJobResponse(job), nil
}

// ListJobs retrieves a paginated list of export jobs
func (s *ExportService) ListJobs(ctx context.Context, tenantID uuid.UUID, req ListJobsRequest) (*ListJobsResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Format != "" {
		filter.Filters["format"] = req.Format
	}

	jobs, err := s.jobRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	total, err := s.jobRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	items := make([]ExportJobResponse, len(jobs))
	for i, j := range jobs {
		items[i] = *toJobResponse(&j)
	}

	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetJobsByDesign retrieves export jobs for a specific design
func (s *ExportService) GetJobsByDesign(ctx context.Context, tenantID, designID uuid.UUID) ([]ExportJobResponse, error) {
	jobs, err := s.jobRepo.FindByDesign(ctx, tenantID, designID)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	result := make([]ExportJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = *toJobResponse(&j)
	}

	return result, nil
}

// RefreshDownloadURL issues a fresh download URL for a completed job.
// Presigned URLs expire, so clients re-request instead of storing them.
func (s *ExportService) RefreshDownloadURL(ctx context.Context, tenantID, jobID uuid.UUID) (*DownloadResponse, error) {
	job, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Export job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if !job.IsCompleted() || !job.HasArtifact() {
		return nil, shared.NewDomainError("INVALID_STATE", "Export job has no downloadable artifact")
	}

	exists, err := s.storage.ArtifactExists(ctx, job.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check artifact: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Artifact is no longer stored")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, job.StorageKey, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return &DownloadResponse{
		JobID:       job.ID.String(),
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetFormats returns all available export formats
func (s *ExportService) GetFormats() []FormatResponse {
	formats := exporting.AllFormats()
	result := make([]FormatResponse, len(formats))
	for i, f := range formats {
		result[i] = FormatResponse{
			Code:        string(f),
			ContentType: f.ContentType(),
			Extension:   f.Extension(),
		}
	}
	return result
}

func toJobResponse(j *exporting.ExportJob) *ExportJobResponse {
	return &ExportJobResponse{
		ID:           j.ID.String(),
		TenantID:     j.TenantID.String(),
		DesignID:     j.DesignID.String(),
		DesignName:   j.DesignName,
		Format:       string(j.Format),
		Status:       string(j.Status),
		DownloadURL:  j.DownloadURL,
		ErrorMessage: j.ErrorMessage,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}
