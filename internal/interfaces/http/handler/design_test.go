package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	designerapp "github.com/labeldesk/backend/internal/application/designer"
	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/interfaces/http/dto"
	"github.com/labeldesk/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testTenantID is the tenant assumed by requests without an X-Tenant-ID header
var testTenantID = middleware.DevelopmentTenantID

// MockDesignRepository implements designer.DesignRepository for testing
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
	return args.Get(0).([]designer.Design), args.Error(1)
}

func (m *MockDesignRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind designer.LabelKind) ([]designer.Design, error) {
	args := m.Called(ctx, tenantID, kind)
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

// newTestDesign builds a persisted-looking design for mock returns
func newTestDesign(t *testing.T, name string) *designer.Design {
	t.Helper()

	element := designer.NewElement(designer.ElementTypeText,
		designer.Position{X: 10, Y: 10},
		designer.Size{Width: 40, Height: 10},
	)
	page, err := designer.NewPageDescriptor(designer.PagePresetLabel100150)
	require.NoError(t, err)

	design, err := designer.NewDesign(testTenantID, designer.LabelKindShipping, name, page, []designer.Element{element})
	require.NoError(t, err)
	return design
}

func setupDesignRouter(repo *MockDesignRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")

	designHandler := NewDesignHandler(designerapp.NewDesignService(repo, zap.NewNop()))
	sessionHandler := NewSessionHandler(designerapp.NewSessionService(repo, nil, zap.NewNop()))
	DesignerRoutes(designHandler, sessionHandler).RegisterRoutes(api)
	return engine
}

func TestDesignHandler_Create_Success(t *testing.T) {
	repo := new(MockDesignRepository)
	repo.On("ExistsByKindAndName", mock.Anything, testTenantID, designer.LabelKindShipping, "Standard Shipping", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*designer.Design")).Return(nil)

	router := setupDesignRouter(repo)

	body, _ := json.Marshal(gin.H{
		"kind": "SHIPPING",
		"name": "Standard Shipping",
		"page": gin.H{"preset": "LABEL_100X150"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/designer/designs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestDesignHandler_Create_DuplicateName(t *testing.T) {
	repo := new(MockDesignRepository)
	repo.On("ExistsByKindAndName", mock.Anything, testTenantID, designer.LabelKindShipping, "Standard Shipping", (*uuid.UUID)(nil)).Return(true, nil)

	router := setupDesignRouter(repo)

	body, _ := json.Marshal(gin.H{
		"kind": "SHIPPING",
		"name": "Standard Shipping",
		"page": gin.H{"preset": "LABEL_100X150"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/designer/designs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDesignHandler_Create_InvalidJSON(t *testing.T) {
	repo := new(MockDesignRepository)
	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/designer/designs", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDesignHandler_GetByID_Success(t *testing.T) {
	design := newTestDesign(t, "Standard Shipping")
	repo := new(MockDesignRepository)
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, design.ID).Return(design, nil)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs/"+design.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Standard Shipping")
}

func TestDesignHandler_GetByID_NotFound(t *testing.T) {
	designID := uuid.New()
	repo := new(MockDesignRepository)
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, designID).Return(nil, shared.ErrNotFound)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs/"+designID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestDesignHandler_GetByID_InvalidID(t *testing.T) {
	repo := new(MockDesignRepository)
	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs/invalid-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDesignHandler_List_Success(t *testing.T) {
	design := newTestDesign(t, "Standard Shipping")
	repo := new(MockDesignRepository)
	repo.On("FindAllForTenant", mock.Anything, testTenantID, mock.AnythingOfType("shared.Filter")).Return([]designer.Design{*design}, nil)
	repo.On("CountForTenant", mock.Anything, testTenantID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestDesignHandler_Delete_DefaultBlocked(t *testing.T) {
	design := newTestDesign(t, "Standard Shipping")
	require.NoError(t, design.SetAsDefault())
	repo := new(MockDesignRepository)
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, design.ID).Return(design, nil)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/designer/designs/"+design.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDesignHandler_Delete_Success(t *testing.T) {
	design := newTestDesign(t, "Standard Shipping")
	repo := new(MockDesignRepository)
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, design.ID).Return(design, nil)
	repo.On("Delete", mock.Anything, design.ID).Return(nil)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/designer/designs/"+design.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}

func TestDesignHandler_GetDefault_NotFound(t *testing.T) {
	repo := new(MockDesignRepository)
	repo.On("FindDefault", mock.Anything, testTenantID, designer.LabelKindShelf).Return(nil, nil)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs/default/SHELF", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDesignHandler_ValidateElements(t *testing.T) {
	repo := new(MockDesignRepository)
	router := setupDesignRouter(repo)

	// Element with a zero ID and non-positive size should produce issues
	body := `{"elements":[{"id":"00000000-0000-0000-0000-000000000000","type":"text","position":{"x":10,"y":10},"size":{"width":-5,"height":10}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/designer/designs/validate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var result designerapp.ValidateElementsResponse
	require.NoError(t, json.Unmarshal(data, &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)
}

func TestDesignHandler_ReferenceEndpoints(t *testing.T) {
	repo := new(MockDesignRepository)
	router := setupDesignRouter(repo)

	tests := []struct {
		path     string
		contains string
	}{
		{"/api/v1/designer/page-presets", "LABEL_100X150"},
		{"/api/v1/designer/label-kinds", "SHIPPING"},
		{"/api/v1/designer/symbologies", "QR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestDesignHandler_TenantHeaderIsolation(t *testing.T) {
	otherTenant := uuid.New()
	designID := uuid.New()
	repo := new(MockDesignRepository)
	repo.On("FindByIDForTenant", mock.Anything, otherTenant, designID).Return(nil, shared.ErrNotFound)

	router := setupDesignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/designer/designs/"+designID.String(), nil)
	req.Header.Set(middleware.TenantHeaderKey, otherTenant.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	repo.AssertExpectations(t)
}
