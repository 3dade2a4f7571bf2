package export_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/application/export"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/exporting"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/rendering"
	"github.com/labeldesk/backend/internal/infrastructure/storage"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockDesignRepository struct {
	mock.Mock
}

func (m *MockDesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*designer.Design, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*designer.Design), args.Error(1)
}

func (m *MockDesignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*designer.Design, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*designer.Design), args.Error(1)
}

func (m *MockDesignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]designer.Design, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]designer.Design), args.Error(1)
}

func (m *MockDesignRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) ([]designer.Design, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]designer.Design), args.Error(1)
}

func (m *MockDesignRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) (*designer.Design, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*designer.Design), args.Error(1)
}

func (m *MockDesignRepository) Save(ctx context.Context, design *designer.Design) error {
	args := m.Called(ctx, design)
	return args.Error(0)
}

func (m *MockDesignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDesignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDesignRepository) ExistsByKindAndName(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, kind, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDesignRepository) ClearDefaultForKind(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) error {
	args := m.Called(ctx, tenantID, kind)
	return args.Error(0)
}

type MockExportJobRepository struct {
	mock.Mock
}

func (m *MockExportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*exporting.ExportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporting.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*exporting.ExportJob, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporting.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]exporting.ExportJob, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exporting.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) FindByDesign(ctx context.Context, tenantID, designID uuid.UUID) ([]exporting.ExportJob, error) {
	args := m.Called(ctx, tenantID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exporting.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) Save(ctx context.Context, job *exporting.ExportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockExportJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockRasterRenderer struct {
	mock.Mock
}

func (m *MockRasterRenderer) RenderPNG(ctx context.Context, req *rendering.RasterRequest) (*rendering.RasterResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rendering.RasterResult), args.Error(1)
}

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) RenderPDF(ctx context.Context, req *rendering.RasterRequest) (*rendering.PDFResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rendering.PDFResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Helper Functions
// =============================================================================

type testFixture struct {
	designRepo *MockDesignRepository
	jobRepo    *MockExportJobRepository
	raster     *MockRasterRenderer
	rasterPDF  *MockPDFRenderer
	vectorPDF  *MockPDFRenderer
	storage    *storage.StubArtifactStorage
	service    *export.ExportService
}

func newFixture() *testFixture {
	f := &testFixture{
		designRepo: new(MockDesignRepository),
		jobRepo:    new(MockExportJobRepository),
		raster:     new(MockRasterRenderer),
		rasterPDF:  new(MockPDFRenderer),
		vectorPDF:  new(MockPDFRenderer),
		storage:    storage.NewStubArtifactStorage(),
	}
	f.service = export.NewExportService(
		f.designRepo, f.jobRepo, f.raster, f.rasterPDF, f.vectorPDF, f.storage, zap.NewNop())
	return f
}

func createTestDesign(t *testing.T, tenantID uuid.UUID) *designer.Design {
	t.Helper()

	element := designer.NewElement(designer.ElementTypeBarcode,
		designer.Position{X: 10, Y: 60},
		designer.Size{Width: 60, Height: 20},
	)
	page, err := designer.NewPageDescriptor(designer.PagePresetLabel100150)
	require.NoError(t, err)

	design, err := designer.NewDesign(tenantID, designer.LabelKindShipping, "Standard Shipping", page, []designer.Element{element})
	require.NoError(t, err)
	return design
}

// =============================================================================
// Export Tests
// =============================================================================

func TestExportDesign_PNG(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)
	f.jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	f.raster.On("RenderPNG", ctx, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(&rendering.RasterResult{PNGData: []byte("png-bytes"), WidthPx: 378, HeightPx: 567}, nil)

	result, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "PNG",
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, design.ID.String(), result.DesignID)
	assert.Equal(t, "Standard Shipping", result.DesignName)
	assert.NotEmpty(t, result.DownloadURL)
	require.NotNil(t, result.CompletedAt)

	// The artifact landed in storage under tenant/job.png.
	key := tenantID.String() + "/" + result.ID + ".png"
	data, contentType, ok := f.storage.Object(key)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)

	f.designRepo.AssertExpectations(t)
	f.raster.AssertExpectations(t)
}

func TestExportDesign_PNG_DefaultZoom(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)
	f.jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	f.raster.On("RenderPNG", ctx, mock.MatchedBy(func(req *rendering.RasterRequest) bool {
		return req.Zoom == 3.0
	})).Return(&rendering.RasterResult{PNGData: []byte("png")}, nil)

	_, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "PNG",
	})

	require.NoError(t, err)
	f.raster.AssertExpectations(t)
}

func TestExportDesign_PDF(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)
	f.jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	f.rasterPDF.On("RenderPDF", ctx, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(&rendering.PDFResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil)

	result, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "PDF",
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)

	key := tenantID.String() + "/" + result.ID + ".pdf"
	_, contentType, ok := f.storage.Object(key)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", contentType)

	f.rasterPDF.AssertExpectations(t)
	f.vectorPDF.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything)
}

func TestExportDesign_VectorPDF(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)
	f.jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	f.vectorPDF.On("RenderPDF", ctx, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(&rendering.PDFResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil)

	result, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "VECTOR_PDF",
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	f.vectorPDF.AssertExpectations(t)
	f.rasterPDF.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything)
}

func TestExportDesign_VectorPDF_FallsBackWithoutBrowser(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	designRepo := new(MockDesignRepository)
	jobRepo := new(MockExportJobRepository)
	raster := new(MockRasterRenderer)
	rasterPDF := new(MockPDFRenderer)
	stub := storage.NewStubArtifactStorage()
	service := export.NewExportService(designRepo, jobRepo, raster, rasterPDF, nil, stub, zap.NewNop())

	design := createTestDesign(t, tenantID)
	designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)
	jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	rasterPDF.On("RenderPDF", ctx, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(&rendering.PDFResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil)

	result, err := service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "VECTOR_PDF",
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	rasterPDF.AssertExpectations(t)
}

func TestExportDesign_InvalidFormat(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.ExportDesign(ctx, uuid.New(), export.ExportRequest{
		DesignID: uuid.New(),
		Format:   "GIF",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestExportDesign_DesignNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	designID := uuid.New()
	f := newFixture()

	f.designRepo.On("FindByIDForTenant", ctx, tenantID, designID).Return(nil, shared.ErrNotFound)

	_, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: designID,
		Format:   "PNG",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestExportDesign_ArchivedDesign(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	require.NoError(t, design.Archive())
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)

	_, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "PNG",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestExportDesign_RenderFailureMarksJobFailed(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	design := createTestDesign(t, tenantID)
	f.designRepo.On("FindByIDForTenant", ctx, tenantID, design.ID).Return(design, nil)

	var savedJob *exporting.ExportJob
	f.jobRepo.On("Save", ctx, mock.AnythingOfType("*exporting.ExportJob")).
		Run(func(args mock.Arguments) {
			savedJob = args.Get(1).(*exporting.ExportJob)
		}).Return(nil)
	f.raster.On("RenderPNG", ctx, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(nil, errors.New("encode failed"))

	_, err := f.service.ExportDesign(ctx, tenantID, export.ExportRequest{
		DesignID: design.ID,
		Format:   "PNG",
	})

	require.Error(t, err)
	require.NotNil(t, savedJob)
	assert.Equal(t, exporting.JobStatusFailed, savedJob.Status)
	assert.NotEmpty(t, savedJob.ErrorMessage)
}

// =============================================================================
// Job Query Tests
// =============================================================================

func TestGetJob(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	job, err := exporting.NewExportJob(tenantID, uuid.New(), "Standard Shipping", exporting.FormatPNG)
	require.NoError(t, err)
	f.jobRepo.On("FindByIDForTenant", ctx, tenantID, job.ID).Return(job, nil)

	result, err := f.service.GetJob(ctx, tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID.String(), result.ID)
	assert.Equal(t, "PENDING", result.Status)
}

func TestGetJob_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	jobID := uuid.New()
	f := newFixture()

	f.jobRepo.On("FindByIDForTenant", ctx, tenantID, jobID).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetJob(ctx, tenantID, jobID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListJobs(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	job, err := exporting.NewExportJob(tenantID, uuid.New(), "Standard Shipping", exporting.FormatPDF)
	require.NoError(t, err)

	f.jobRepo.On("FindAllForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]exporting.ExportJob{*job}, nil)
	f.jobRepo.On("CountForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	result, err := f.service.ListJobs(ctx, tenantID, export.ListJobsRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Total)
}

func TestRefreshDownloadURL(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	job, err := exporting.NewExportJob(tenantID, uuid.New(), "Standard Shipping", exporting.FormatPNG)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())

	key := tenantID.String() + "/" + job.ID.String() + ".png"
	require.NoError(t, f.storage.Upload(ctx, key, []byte("png"), "image/png"))
	require.NoError(t, job.Complete(key, "https://old-url.example.com"))

	f.jobRepo.On("FindByIDForTenant", ctx, tenantID, job.ID).Return(job, nil)

	result, err := f.service.RefreshDownloadURL(ctx, tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID.String(), result.JobID)
	assert.NotEmpty(t, result.DownloadURL)
	assert.False(t, result.ExpiresAt.IsZero())
}

func TestRefreshDownloadURL_PendingJob(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	job, err := exporting.NewExportJob(tenantID, uuid.New(), "Standard Shipping", exporting.FormatPNG)
	require.NoError(t, err)
	f.jobRepo.On("FindByIDForTenant", ctx, tenantID, job.ID).Return(job, nil)

	_, err = f.service.RefreshDownloadURL(ctx, tenantID, job.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestRefreshDownloadURL_ArtifactGone(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	job, err := exporting.NewExportJob(tenantID, uuid.New(), "Standard Shipping", exporting.FormatPNG)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Complete("exports/missing.png", ""))

	f.jobRepo.On("FindByIDForTenant", ctx, tenantID, job.ID).Return(job, nil)

	_, err = f.service.RefreshDownloadURL(ctx, tenantID, job.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestGetFormats(t *testing.T) {
	f := newFixture()

	formats := f.service.GetFormats()
	require.Len(t, formats, 3)

	codes := make([]string, len(formats))
	for i, fr := range formats {
		codes[i] = fr.Code
	}
	assert.Contains(t, codes, "PNG")
	assert.Contains(t, codes, "PDF")
	assert.Contains(t, codes, "VECTOR_PDF")
}
