package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labeldesk/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type beginGestureRequest struct {
		Kind      string `json:"kind" binding:"required,oneof=drag resize"`
		ElementID string `json:"element_id" binding:"required,uuid"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/gesture", func(c *gin.Context) {
		var req beginGestureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})

	t.Run("reports each failed field with json names", func(t *testing.T) {
		body := strings.NewReader(`{"kind": "warp", "element_id": "not-a-uuid"}`)
		req := httptest.NewRequest("POST", "/gesture", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "kind")
		assert.Contains(t, fields, "element_id")
	})

	t.Run("passes valid input through", func(t *testing.T) {
		body := strings.NewReader(`{"kind": "drag", "element_id": "b2f1c9a0-3d4e-4f5a-8b6c-7d8e9f0a1b2c"}`)
		req := httptest.NewRequest("POST", "/gesture", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Name     string  `binding:"required"`
		Format   string  `binding:"oneof=PNG PDF VECTOR_PDF"`
		Slug     string  `binding:"min=3"`
		Notes    string  `binding:"max=10"`
		ID       string  `binding:"uuid"`
		Link     string  `binding:"url"`
		Zoom     float64 `binding:"gt=0"`
		Degrees  int     `binding:"gte=90"`
		Page     int     `binding:"lt=1000"`
		GridSize float64 `binding:"lte=100"`
	}

	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(input{
		Format:   "GIF",
		Slug:     "ab",
		Notes:    "far too long for this",
		ID:       "nope",
		Link:     "nope",
		Zoom:     0,
		Degrees:  45,
		Page:     5000,
		GridSize: 250,
	})
	require.Error(t, err)
	validationErrs := err.(validator.ValidationErrors)

	want := map[string]string{
		"Name":     "this field is required",
		"Format":   "must be one of: PNG PDF VECTOR_PDF",
		"Slug":     "must be at least 3 characters",
		"Notes":    "must be at most 10 characters",
		"ID":       "must be a valid UUID",
		"Link":     "must be a valid URL",
		"Zoom":     "must be greater than 0",
		"Degrees":  "must be greater than or equal to 90",
		"Page":     "must be less than 1000",
		"GridSize": "must be less than or equal to 100",
	}

	seen := make(map[string]bool)
	for _, e := range validationErrs {
		expected, ok := want[e.Field()]
		require.True(t, ok, "unexpected field %s", e.Field())
		assert.Equal(t, expected, validationMessage(e), e.Field())
		seen[e.Field()] = true
	}
	assert.Len(t, seen, len(want))
}

func TestHandleValidationError_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type input struct {
		DesignID string `json:"design_id" binding:"required"`
	}

	router := gin.New()
	router.POST("/sessions", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-42")
		var in input
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
	})

	req := httptest.NewRequest("POST", "/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}
