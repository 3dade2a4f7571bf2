// Package designer exposes the label design application services: CRUD over
// persisted designs and in-memory editing sessions in front of them.
package designer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
)

// DesignService handles design-related business operations
type DesignService struct {
	designRepo designer.DesignRepository
	logger     *zap.Logger
}

// NewDesignService creates a new DesignService
func NewDesignService(designRepo designer.DesignRepository, logger *zap.Logger) *DesignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DesignService{
		designRepo: designRepo,
		logger:     logger,
	}
}

// CreateDesign creates a new label design
func (s *DesignService) CreateDesign(ctx context.Context, tenantID uuid.UUID, req CreateDesignRequest) (*DesignResponse, error) {
	kind := designer.LabelKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid label kind")
	}

	exists, err := s.designRepo.ExistsByKindAndName(ctx, tenantID, kind, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check design existence: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Design with this name already exists for this label kind")
	}

	page, err := resolvePage(req.Page)
	if err != nil {
		return nil, err
	}

	design, err := designer.NewDesign(tenantID, kind, req.Name, page, req.Elements)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := design.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	s.logger.Info("label design created",
		zap.String("id", design.ID.String()),
		zap.String("name", design.Name),
		zap.String("kind", string(design.Kind)))

	return toDesignResponse(design), nil
}

// GetDesign retrieves a design by ID
func (s *DesignService) GetDesign(ctx context.Context, tenantID, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	return toDesignResponse(design), nil
}

// ListDesigns retrieves a paginated list of designs
func (s *DesignService) ListDesigns(ctx context.Context, tenantID uuid.UUID, req ListDesignsRequest) (*ListDesignsResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.Kind != "" {
		filter.Filters["kind"] = req.Kind
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	designs, err := s.designRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	total, err := s.designRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count designs: %w", err)
	}

	items := make([]DesignResponse, len(designs))
	for i, d := range designs {
		items[i] = *toDesignResponse(&d)
	}

	return &ListDesignsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// UpdateDesign updates an existing design
func (s *DesignService) UpdateDesign(ctx context.Context, tenantID, designID uuid.UUID, req UpdateDesignRequest) (*DesignResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if req.Name != nil && *req.Name != design.Name {
		exists, err := s.designRepo.ExistsByKindAndName(ctx, tenantID, design.Kind, *req.Name, &designID)
		if err != nil {
			return nil, fmt.Errorf("failed to check design existence: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Design with this name already exists for this label kind")
		}
	}

	if req.Name != nil || req.Description != nil {
		name := design.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := design.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := design.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Page != nil {
		page, err := resolvePage(*req.Page)
		if err != nil {
			return nil, err
		}
		if err := design.SetPage(page); err != nil {
			return nil, err
		}
	}

	if req.Elements != nil {
		if err := design.ReplaceElements(req.Elements); err != nil {
			return nil, err
		}
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	s.logger.Info("label design updated",
		zap.String("id", design.ID.String()),
		zap.String("name", design.Name))

	return toDesignResponse(design), nil
}

// DeleteDesign deletes a design
func (s *DesignService) DeleteDesign(ctx context.Context, tenantID, designID uuid.UUID) error {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return fmt.Errorf("failed to get design: %w", err)
	}

	// Cannot delete default design
	if design.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete the default design. Set another design as default first.")
	}

	if err := s.designRepo.Delete(ctx, designID); err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}

	s.logger.Info("label design deleted",
		zap.String("id", designID.String()))

	return nil
}

// SetDefaultDesign sets a design as the default for its label kind
func (s *DesignService) SetDefaultDesign(ctx context.Context, tenantID, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if err := s.designRepo.ClearDefaultForKind(ctx, tenantID, design.Kind); err != nil {
		return nil, fmt.Errorf("failed to clear existing default: %w", err)
	}

	if err := design.SetAsDefault(); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	s.logger.Info("label design set as default",
		zap.String("id", design.ID.String()),
		zap.String("kind", string(design.Kind)))

	return toDesignResponse(design), nil
}

// GetDesignsByKind retrieves all designs for a label kind, default first
func (s *DesignService) GetDesignsByKind(ctx context.Context, tenantID uuid.UUID, kind string) ([]DesignResponse, error) {
	k := designer.LabelKind(kind)
	if !k.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid label kind")
	}

	designs, err := s.designRepo.FindByKind(ctx, tenantID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to find designs: %w", err)
	}

	result := make([]DesignResponse, len(designs))
	for i, d := range designs {
		result[i] = *toDesignResponse(&d)
	}

	return result, nil
}

// GetDefaultDesign retrieves the default design for a label kind
func (s *DesignService) GetDefaultDesign(ctx context.Context, tenantID uuid.UUID, kind string) (*DesignResponse, error) {
	k := designer.LabelKind(kind)
	if !k.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid label kind")
	}

	design, err := s.designRepo.FindDefault(ctx, tenantID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to find default design: %w", err)
	}
	if design == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No default design set for this label kind")
	}

	return toDesignResponse(design), nil
}

// ArchiveDesign archives a design
func (s *DesignService) ArchiveDesign(ctx context.Context, tenantID, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if err := design.Archive(); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	return toDesignResponse(design), nil
}

// RestoreDesign restores an archived design
func (s *DesignService) RestoreDesign(ctx context.Context, tenantID, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if err := design.Restore(); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	return toDesignResponse(design), nil
}

// ValidateElements checks an element set against the exchange schema without
// touching any stored design
func (s *DesignService) ValidateElements(req ValidateElementsRequest) *ValidateElementsResponse {
	err := designer.ValidateElements(req.Elements)
	if err == nil {
		return &ValidateElementsResponse{Valid: true}
	}

	var verr *designer.ValidationError
	if !errors.As(err, &verr) {
		return &ValidateElementsResponse{
			Valid:  false,
			Issues: []ValidationIssueDTO{{Index: -1, Message: err.Error()}},
		}
	}

	issues := make([]ValidationIssueDTO, len(verr.Issues))
	for i, issue := range verr.Issues {
		issues[i] = ValidationIssueDTO{
			Index:   issue.Index,
			Field:   issue.Field,
			Message: issue.Message,
		}
	}
	return &ValidateElementsResponse{Valid: false, Issues: issues}
}

// GetPagePresets returns all available page presets
func (s *DesignService) GetPagePresets() []PagePresetResponse {
	presets := designer.AllPagePresets()
	result := make([]PagePresetResponse, len(presets))
	for i, p := range presets {
		w, h := p.Dimensions()
		result[i] = PagePresetResponse{
			Code:     string(p),
			WidthMM:  w,
			HeightMM: h,
		}
	}
	return result
}

// GetLabelKinds returns all available label kinds
func (s *DesignService) GetLabelKinds() []LabelKindResponse {
	kinds := designer.AllLabelKinds()
	result := make([]LabelKindResponse, len(kinds))
	for i, k := range kinds {
		result[i] = LabelKindResponse{Code: string(k)}
	}
	return result
}

// GetSymbologies returns all supported barcode symbologies
func (s *DesignService) GetSymbologies() []SymbologyResponse {
	symbologies := designer.AllSymbologies()
	result := make([]SymbologyResponse, len(symbologies))
	for i, sym := range symbologies {
		result[i] = SymbologyResponse{
			Code:      string(sym),
			TwoDimens: !sym.IsLinear(),
		}
	}
	return result
}

// =============================================================================
// Helper Functions
// =============================================================================

// resolvePage turns a page DTO into a validated descriptor. Custom pages
// need explicit dimensions; presets carry their own.
func resolvePage(dto PageDTO) (designer.PageDescriptor, error) {
	preset := designer.PagePreset(dto.Preset)
	if preset == designer.PagePresetCustom {
		return designer.NewCustomPageDescriptor(dto.WidthMM, dto.HeightMM)
	}
	return designer.NewPageDescriptor(preset)
}

func toDesignResponse(d *designer.Design) *DesignResponse {
	return &DesignResponse{
		ID:          d.ID.String(),
		TenantID:    d.TenantID.String(),
		Kind:        string(d.Kind),
		Name:        d.Name,
		Description: d.Description,
		Page: PageDTO{
			Preset:   string(d.Page.Preset),
			WidthMM:  d.Page.WidthMM,
			HeightMM: d.Page.HeightMM,
		},
		Elements:  d.Elements,
		IsDefault: d.IsDefault,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Version,
	}
}
