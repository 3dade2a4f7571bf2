package export

import (
	"time"

	"github.com/google/uuid"
)

// ExportRequest represents a request to export a design to an artifact
type ExportRequest struct {
	DesignID uuid.UUID `json:"design_id" binding:"required"`
	Format   string    `json:"format" binding:"required"`
	// Zoom scales PNG output; ignored for PDF formats
	Zoom float64 `json:"zoom" binding:"omitempty,gt=0,lte=10"`
}

// ListJobsRequest represents a request to list export jobs
type ListJobsRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status"`
	Format   string `form:"format"`
}

// ExportJobResponse represents an export job response
type ExportJobResponse struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	DesignID     string     `json:"design_id"`
	DesignName   string     `json:"design_name"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	DownloadURL  string     `json:"download_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ListJobsResponse represents a paginated list of export jobs
type ListJobsResponse struct {
	Items []ExportJobResponse `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// DownloadResponse carries a fresh download URL for a completed job
type DownloadResponse struct {
	JobID       string    `json:"job_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FormatResponse describes an available export format
type FormatResponse struct {
	Code        string `json:"code"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
}
