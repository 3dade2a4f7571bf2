package handler

import (
	"github.com/labeldesk/backend/internal/interfaces/http/router"
)

// DesignerRoutes creates the route group for design and session endpoints
func DesignerRoutes(designs *DesignHandler, sessions *SessionHandler) *router.DomainGroup {
	group := router.NewDomainGroup("designer", "/designer")

	// Design CRUD
	group.POST("/designs", designs.Create)
	group.GET("/designs", designs.List)
	group.GET("/designs/:id", designs.GetByID)
	group.PUT("/designs/:id", designs.Update)
	group.DELETE("/designs/:id", designs.Delete)

	// Lifecycle and defaults
	group.POST("/designs/:id/default", designs.SetDefault)
	group.POST("/designs/:id/archive", designs.Archive)
	group.POST("/designs/:id/restore", designs.Restore)
	group.GET("/designs/by-kind/:kind", designs.GetByKind)
	group.GET("/designs/default/:kind", designs.GetDefault)

	// Standalone validation
	group.POST("/designs/validate", designs.ValidateElements)

	// Editing sessions
	group.POST("/sessions", sessions.Open)
	group.GET("/sessions/:id", sessions.Get)
	group.DELETE("/sessions/:id", sessions.Close)
	group.POST("/sessions/:id/save", sessions.Save)
	group.PUT("/sessions/:id/selection", sessions.UpdateSelection)
	group.POST("/sessions/:id/gesture", sessions.BeginGesture)
	group.PUT("/sessions/:id/gesture", sessions.UpdateGesture)
	group.POST("/sessions/:id/gesture/end", sessions.EndGesture)
	group.POST("/sessions/:id/gesture/cancel", sessions.CancelGesture)
	group.POST("/sessions/:id/operations", sessions.Apply)
	group.POST("/sessions/:id/undo", sessions.Undo)
	group.POST("/sessions/:id/redo", sessions.Redo)
	group.GET("/sessions/:id/preview", sessions.Preview)

	// Reference data
	group.GET("/page-presets", designs.GetPagePresets)
	group.GET("/label-kinds", designs.GetLabelKinds)
	group.GET("/symbologies", designs.GetSymbologies)

	return group
}
