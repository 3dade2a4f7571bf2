package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	exportapp "github.com/labeldesk/backend/internal/application/export"
	"github.com/labeldesk/backend/internal/domain/exporting"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/rendering"
	"github.com/labeldesk/backend/internal/infrastructure/storage"
	"github.com/labeldesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockExportJobRepository implements exporting.ExportJobRepository for testing
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
	return args.Get(0).([]exporting.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) FindByDesign(ctx context.Context, tenantID, designID uuid.UUID) ([]exporting.ExportJob, error) {
	args := m.Called(ctx, tenantID, designID)
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

type exportTestEnv struct {
	designRepo *MockDesignRepository
	jobRepo    *MockExportJobRepository
	raster     *MockRasterRenderer
	storage    *storage.StubArtifactStorage
	router     *gin.Engine
}

func setupExportRouter(t *testing.T) *exportTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &exportTestEnv{
		designRepo: new(MockDesignRepository),
		jobRepo:    new(MockExportJobRepository),
		raster:     new(MockRasterRenderer),
		storage:    storage.NewStubArtifactStorage(),
	}

	svc := exportapp.NewExportService(env.designRepo, env.jobRepo, env.raster, nil, nil, env.storage, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	ExportRoutes(NewExportHandler(svc)).RegisterRoutes(api)
	env.router = engine
	return env
}

// newTestJob builds a completed export job with its artifact in stub storage
func newTestJob(t *testing.T, env *exportTestEnv, designID uuid.UUID) *exporting.ExportJob {
	t.Helper()

	job, err := exporting.NewExportJob(testTenantID, designID, "Completed Design", exporting.FormatPNG)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())

	storageKey := testTenantID.String() + "/" + job.ID.String() + ".png"
	require.NoError(t, env.storage.Upload(context.Background(), storageKey, []byte{0x89, 'P', 'N', 'G'}, "image/png"))
	url, _, err := env.storage.GenerateDownloadURL(context.Background(), storageKey, 0)
	require.NoError(t, err)
	require.NoError(t, job.Complete(storageKey, url))
	return job
}

func exportGET(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExportHandler_Export_Success(t *testing.T) {
	env := setupExportRouter(t)
	design := newTestDesign(t, "Exportable Design")

	env.designRepo.On("FindByIDForTenant", mock.Anything, testTenantID, design.ID).Return(design, nil)
	env.jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	env.raster.On("RenderPNG", mock.Anything, mock.AnythingOfType("*rendering.RasterRequest")).
		Return(&rendering.RasterResult{PNGData: []byte{0x89, 'P', 'N', 'G'}, WidthPx: 100, HeightPx: 150}, nil)

	w := sessionJSON(t, env.router, http.MethodPost, "/api/v1/export/jobs", gin.H{
		"design_id": design.ID,
		"format":    "PNG",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var job exportapp.ExportJobResponse
	require.NoError(t, json.Unmarshal(raw, &job))

	assert.Equal(t, string(exporting.JobStatusCompleted), job.Status)
	assert.Equal(t, design.ID.String(), job.DesignID)
	assert.NotEmpty(t, job.DownloadURL)
	env.jobRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestExportHandler_Export_InvalidFormat(t *testing.T) {
	env := setupExportRouter(t)

	w := sessionJSON(t, env.router, http.MethodPost, "/api/v1/export/jobs", gin.H{
		"design_id": uuid.New(),
		"format":    "GIF",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	env.designRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportHandler_Export_DesignNotFound(t *testing.T) {
	env := setupExportRouter(t)
	env.designRepo.On("FindByIDForTenant", mock.Anything, testTenantID, mock.Anything).Return(nil, shared.ErrNotFound)

	w := sessionJSON(t, env.router, http.MethodPost, "/api/v1/export/jobs", gin.H{
		"design_id": uuid.New(),
		"format":    "PNG",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandler_Export_RenderFailureFailsJob(t *testing.T) {
	env := setupExportRouter(t)
	design := newTestDesign(t, "Broken Design")

	env.designRepo.On("FindByIDForTenant", mock.Anything, testTenantID, design.ID).Return(design, nil)
	env.jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*exporting.ExportJob")).Return(nil)
	env.raster.On("RenderPNG", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := sessionJSON(t, env.router, http.MethodPost, "/api/v1/export/jobs", gin.H{
		"design_id": design.ID,
		"format":    "PNG",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// pending, rendering, failed
	env.jobRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestExportHandler_GetJob_Success(t *testing.T) {
	env := setupExportRouter(t)
	job := newTestJob(t, env, uuid.New())

	env.jobRepo.On("FindByIDForTenant", mock.Anything, testTenantID, job.ID).Return(job, nil)

	w := exportGET(t, env.router, "/api/v1/export/jobs/"+job.ID.String())

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestExportHandler_GetJob_NotFound(t *testing.T) {
	env := setupExportRouter(t)
	env.jobRepo.On("FindByIDForTenant", mock.Anything, testTenantID, mock.Anything).Return(nil, shared.ErrNotFound)

	w := exportGET(t, env.router, "/api/v1/export/jobs/"+uuid.NewString())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandler_ListJobs(t *testing.T) {
	env := setupExportRouter(t)
	job := newTestJob(t, env, uuid.New())

	env.jobRepo.On("FindAllForTenant", mock.Anything, testTenantID, mock.AnythingOfType("shared.Filter")).
		Return([]exporting.ExportJob{*job}, nil)
	env.jobRepo.On("CountForTenant", mock.Anything, testTenantID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	w := exportGET(t, env.router, "/api/v1/export/jobs?page=1&page_size=10")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestExportHandler_GetJobsByDesign(t *testing.T) {
	env := setupExportRouter(t)
	designID := uuid.New()
	job := newTestJob(t, env, designID)

	env.jobRepo.On("FindByDesign", mock.Anything, testTenantID, designID).
		Return([]exporting.ExportJob{*job}, nil)

	w := exportGET(t, env.router, "/api/v1/export/jobs/by-design/"+designID.String())

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var jobs []exportapp.ExportJobResponse
	require.NoError(t, json.Unmarshal(raw, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, designID.String(), jobs[0].DesignID)
}

func TestExportHandler_Download_Success(t *testing.T) {
	env := setupExportRouter(t)
	job := newTestJob(t, env, uuid.New())

	env.jobRepo.On("FindByIDForTenant", mock.Anything, testTenantID, job.ID).Return(job, nil)

	w := exportGET(t, env.router, "/api/v1/export/jobs/"+job.ID.String()+"/download")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var download exportapp.DownloadResponse
	require.NoError(t, json.Unmarshal(raw, &download))
	assert.Equal(t, job.ID.String(), download.JobID)
	assert.NotEmpty(t, download.DownloadURL)
}

func TestExportHandler_Download_JobNotReady(t *testing.T) {
	env := setupExportRouter(t)

	job, err := exporting.NewExportJob(testTenantID, uuid.New(), "Pending Design", exporting.FormatPDF)
	require.NoError(t, err)
	env.jobRepo.On("FindByIDForTenant", mock.Anything, testTenantID, job.ID).Return(job, nil)

	w := exportGET(t, env.router, "/api/v1/export/jobs/"+job.ID.String()+"/download")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}

func TestExportHandler_GetFormats(t *testing.T) {
	env := setupExportRouter(t)

	w := exportGET(t, env.router, "/api/v1/export/formats")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var formats []exportapp.FormatResponse
	require.NoError(t, json.Unmarshal(raw, &formats))
	require.Len(t, formats, 3)

	codes := make([]string, 0, len(formats))
	for _, f := range formats {
		codes = append(codes, f.Code)
	}
	assert.Contains(t, codes, "PNG")
	assert.Contains(t, codes, "PDF")
	assert.Contains(t, codes, "VECTOR_PDF")
}
