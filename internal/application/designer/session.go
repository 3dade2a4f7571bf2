package designer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/domain/designer/editor"
	"github.com/labeldesk/backend/internal/domain/shared"
	"github.com/labeldesk/backend/internal/infrastructure/rendering"
)

// session is one open editing session. The mutex serializes every operation
// on the editor; the editor itself is single-threaded by contract.
type session struct {
	id       uuid.UUID
	tenantID uuid.UUID
	designID uuid.UUID

	mu         sync.Mutex
	editor     *editor.Editor
	lastAccess time.Time
}

func (s *session) touch() {
	s.lastAccess = time.Now()
}

// SessionService manages in-memory editing sessions over persisted designs.
// Sessions hold unsaved editor state; an explicit save writes the element
// set back to the design aggregate.
type SessionService struct {
	designRepo designer.DesignRepository
	raster     rendering.RasterRenderer
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	ttl           time.Duration
	sweepInterval time.Duration
	maxPerTenant  int
	historyLimit  int
	gridSizePct   float64
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithSessionTTL sets the idle expiry for sessions
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets the cadence of the expired-session sweep
func WithSweepInterval(interval time.Duration) SessionOption {
	return func(s *SessionService) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithMaxSessionsPerTenant caps concurrent open sessions per tenant
func WithMaxSessionsPerTenant(max int) SessionOption {
	return func(s *SessionService) {
		if max > 0 {
			s.maxPerTenant = max
		}
	}
}

// WithSessionHistoryLimit sets the undo snapshot ring size for new sessions
func WithSessionHistoryLimit(limit int) SessionOption {
	return func(s *SessionService) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithSessionGridSize sets the default grid increment for new sessions
func WithSessionGridSize(sizePct float64) SessionOption {
	return func(s *SessionService) {
		if sizePct > 0 {
			s.gridSizePct = sizePct
		}
	}
}

// NewSessionService creates a new SessionService. The raster renderer backs
// the preview endpoint and may be nil when previews are not needed.
func NewSessionService(designRepo designer.DesignRepository, raster rendering.RasterRenderer, logger *zap.Logger, opts ...SessionOption) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		designRepo:    designRepo,
		raster:        raster,
		logger:        logger,
		sessions:      make(map[uuid.UUID]*session),
		ttl:           2 * time.Hour,
		sweepInterval: 5 * time.Minute,
		maxPerTenant:  20,
		historyLimit:  50,
		gridSizePct:   editor.DefaultGridSizePercent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads a design into a fresh editing session
func (s *SessionService) Open(ctx context.Context, tenantID uuid.UUID, req OpenSessionRequest) (*SessionResponse, error) {
	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, req.DesignID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if !design.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot edit an archived design")
	}

	ed, err := editor.New(design.Page, design.Elements,
		editor.WithHistoryLimit(s.historyLimit),
		editor.WithGrid(false, s.gridSizePct),
	)
	if err != nil {
		return nil, err
	}

	sess := &session{
		id:         uuid.New(),
		tenantID:   tenantID,
		designID:   design.ID,
		editor:     ed,
		lastAccess: time.Now(),
	}

	s.mu.Lock()
	if s.countForTenantLocked(tenantID) >= s.maxPerTenant {
		s.mu.Unlock()
		return nil, shared.NewDomainError("SESSION_LIMIT", "Too many open editing sessions for this tenant")
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("editing session opened",
		zap.String("session_id", sess.id.String()),
		zap.String("design_id", design.ID.String()))

	return s.stateOf(sess), nil
}

// Get returns the current state of a session
func (s *SessionService) Get(tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error { return nil })
}

// Close discards a session without saving
func (s *SessionService) Close(tenantID, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.tenantID != tenantID {
		return shared.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	s.logger.Info("editing session closed",
		zap.String("session_id", sessionID.String()))
	return nil
}

// Save writes the session's element set back to the design aggregate.
// The session stays open for further editing.
func (s *SessionService) Save(ctx context.Context, tenantID, sessionID uuid.UUID) (*DesignResponse, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	design, err := s.designRepo.FindByIDForTenant(ctx, tenantID, sess.designID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Design no longer exists")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	if err := design.ReplaceElements(sess.editor.Elements()); err != nil {
		return nil, err
	}
	if page := sess.editor.Page(); page != design.Page {
		if err := design.SetPage(page); err != nil {
			return nil, err
		}
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}

	s.logger.Info("editing session saved",
		zap.String("session_id", sessionID.String()),
		zap.String("design_id", design.ID.String()),
		zap.Int("elements", sess.editor.Len()))

	return toDesignResponse(design), nil
}

// UpdateSelection mutates the session selection
func (s *SessionService) UpdateSelection(tenantID, sessionID uuid.UUID, req SelectionRequest) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		switch {
		case req.Clear:
			sess.editor.ClearSelection()
			return nil
		case req.Rect != nil:
			sess.editor.SelectInRect(req.Rect.X, req.Rect.Y, req.Rect.Width, req.Rect.Height, req.Additive)
			return nil
		case req.ElementID != nil:
			if req.Toggle {
				return sess.editor.ToggleSelect(*req.ElementID)
			}
			return sess.editor.Select(*req.ElementID)
		default:
			return shared.NewDomainError("INVALID_INPUT", "Selection request needs an element, a rect, or clear")
		}
	})
}

// BeginGesture starts a drag or resize gesture
func (s *SessionService) BeginGesture(tenantID, sessionID uuid.UUID, req BeginGestureRequest) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		switch req.Kind {
		case "drag":
			return sess.editor.BeginDrag(req.ElementID)
		case "resize":
			return sess.editor.BeginResize(req.ElementID, editor.Handle(req.Handle))
		default:
			return shared.NewDomainError("INVALID_INPUT", "Unknown gesture kind: "+req.Kind)
		}
	})
}

// UpdateGesture applies a cumulative pixel delta to the active gesture
func (s *SessionService) UpdateGesture(tenantID, sessionID uuid.UUID, req UpdateGestureRequest) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		return sess.editor.UpdateGesture(req.DxPx, req.DyPx)
	})
}

// EndGesture commits the active gesture as one history entry
func (s *SessionService) EndGesture(tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		return sess.editor.EndGesture()
	})
}

// CancelGesture reverts the active gesture without a history entry
func (s *SessionService) CancelGesture(tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		sess.editor.CancelGesture()
		return nil
	})
}

// Apply dispatches a discrete editing operation
func (s *SessionService) Apply(tenantID, sessionID uuid.UUID, req OperationRequest) (*OperationResponse, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	result := &OperationResponse{}
	ed := sess.editor

	switch req.Op {
	case "rotate":
		ed.RotateSelected(req.Degrees)
	case "flip":
		ed.FlipSelected(req.Horizontal)
	case "align":
		err = ed.AlignSelected(editor.AlignEdge(req.Edge))
	case "distribute":
		err = ed.DistributeSelected(editor.DistributeAxis(req.Axis))
	case "duplicate":
		result.Created = ed.DuplicateSelected()
	case "copy":
		result.Affected = ed.Copy()
	case "paste":
		result.Created = ed.Paste()
	case "toggle_lock":
		if req.ElementID == nil {
			err = shared.NewDomainError("INVALID_INPUT", "toggle_lock needs an element id")
		} else {
			err = ed.ToggleLock(*req.ElementID)
		}
	case "toggle_visibility":
		if req.ElementID == nil {
			err = shared.NewDomainError("INVALID_INPUT", "toggle_visibility needs an element id")
		} else {
			err = ed.ToggleVisible(*req.ElementID)
		}
	case "z_order":
		err = ed.MoveZOrder(editor.ZOrderMove(req.Move))
	case "delete":
		result.Affected = ed.DeleteSelected()
	case "delete_all":
		err = ed.DeleteAll(req.Confirm)
	case "insert":
		if req.Element == nil {
			err = shared.NewDomainError("INVALID_INPUT", "insert needs an element")
		} else {
			err = ed.Insert(*req.Element)
			if err == nil {
				if inserted, ok := ed.Find(req.Element.ID); ok {
					result.Created = []designer.Element{inserted}
				}
			}
		}
	case "set_view":
		if req.Zoom != nil {
			ed.SetZoom(*req.Zoom)
		}
		if req.GridEnabled != nil || req.GridSize != nil {
			enabled := ed.GridEnabled()
			if req.GridEnabled != nil {
				enabled = *req.GridEnabled
			}
			size := ed.GridSize()
			if req.GridSize != nil {
				size = *req.GridSize
			}
			ed.SetGrid(enabled, size)
		}
	default:
		err = shared.NewDomainError("INVALID_INPUT", "Unknown operation: "+req.Op)
	}

	if err != nil {
		return nil, err
	}

	result.Session = s.stateOf(sess)
	return result, nil
}

// Undo reverts the last committed operation
func (s *SessionService) Undo(tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		sess.editor.Undo()
		return nil
	})
}

// Redo reapplies the last undone operation
func (s *SessionService) Redo(tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	return s.withSession(tenantID, sessionID, func(sess *session) error {
		sess.editor.Redo()
		return nil
	})
}

// Preview renders the session's current state to a PNG frame
func (s *SessionService) Preview(ctx context.Context, tenantID, sessionID uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	if s.raster == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Preview rendering is not configured")
	}

	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.touch()
	ed := sess.editor

	renderReq := &rendering.RasterRequest{
		Page:            ed.Page(),
		Elements:        ed.Elements(),
		Zoom:            ed.Zoom(),
		ShowGrid:        ed.GridEnabled(),
		GridSizePercent: ed.GridSize(),
	}
	if req.Zoom > 0 {
		renderReq.Zoom = req.Zoom
	}
	if req.ShowGrid != nil {
		renderReq.ShowGrid = *req.ShowGrid
	}
	if req.ShowSelection {
		selection := make(map[string]bool)
		for _, id := range ed.Selection() {
			selection[id.String()] = true
		}
		renderReq.Selection = selection
	}
	sess.mu.Unlock()

	result, err := s.raster.RenderPNG(ctx, renderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	return &PreviewResponse{
		PNGData:  result.PNGData,
		WidthPx:  result.WidthPx,
		HeightPx: result.HeightPx,
	}, nil
}

// =============================================================================
// Lifecycle
// =============================================================================

// SessionCount returns the number of open sessions
func (s *SessionService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were removed
func (s *SessionService) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("expired editing sessions swept",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.sessions)))
	}
	return removed
}

// StartSweeper runs the expiry sweep until the context is cancelled
func (s *SessionService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// =============================================================================
// Helpers
// =============================================================================

func (s *SessionService) lookup(tenantID, sessionID uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.tenantID != tenantID {
		return nil, shared.ErrSessionNotFound
	}
	return sess, nil
}

// withSession runs fn under the session lock and returns the resulting state
func (s *SessionService) withSession(tenantID, sessionID uuid.UUID, fn func(*session) error) (*SessionResponse, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	if err := fn(sess); err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

func (s *SessionService) countForTenantLocked(tenantID uuid.UUID) int {
	count := 0
	for _, sess := range s.sessions {
		if sess.tenantID == tenantID {
			count++
		}
	}
	return count
}

// stateOf snapshots the session. Callers hold the session lock.
func (s *SessionService) stateOf(sess *session) *SessionResponse {
	ed := sess.editor
	page := ed.Page()

	selection := ed.Selection()
	selected := make([]string, len(selection))
	for i, id := range selection {
		selected[i] = id.String()
	}

	hovered := ""
	if ed.Hovered() != uuid.Nil {
		hovered = ed.Hovered().String()
	}

	return &SessionResponse{
		SessionID: sess.id.String(),
		DesignID:  sess.designID.String(),
		Page: PageDTO{
			Preset:   string(page.Preset),
			WidthMM:  page.WidthMM,
			HeightMM: page.HeightMM,
		},
		Elements:      ed.Elements(),
		Selection:     selected,
		Hovered:       hovered,
		Zoom:          ed.Zoom(),
		GridEnabled:   ed.GridEnabled(),
		GridSize:      ed.GridSize(),
		CanUndo:       ed.CanUndo(),
		CanRedo:       ed.CanRedo(),
		GestureActive: ed.GestureActive(),
	}
}
