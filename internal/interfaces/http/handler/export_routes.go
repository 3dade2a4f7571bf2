package handler

import (
	"github.com/labeldesk/backend/internal/interfaces/http/router"
)

// ExportRoutes creates the route group for export endpoints
func ExportRoutes(handler *ExportHandler) *router.DomainGroup {
	group := router.NewDomainGroup("export", "/export")

	// Export jobs
	group.POST("/jobs", handler.Export)
	group.GET("/jobs", handler.ListJobs)
	group.GET("/jobs/:id", handler.GetJob)
	group.GET("/jobs/:id/download", handler.Download)
	group.GET("/jobs/by-design/:design_id", handler.GetJobsByDesign)

	// Reference data
	group.GET("/formats", handler.GetFormats)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/info", handler.GetSystemInfo)
	group.GET("/ping", handler.Ping)

	return group
}
