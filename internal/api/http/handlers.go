package http

import (
	"errors"
	"net/http"
	"sync"

	"github.com/deskpilot/deskpilot/internal/domain/cycle"
	"github.com/deskpilot/deskpilot/internal/domain/recovery"
	"github.com/deskpilot/deskpilot/internal/domain/session"
	"github.com/deskpilot/deskpilot/internal/domain/workspace"
	"github.com/deskpilot/deskpilot/internal/infrastructure/resilience"
	"github.com/gin-gonic/gin"
)

// Notifier receives progress events for streaming surfaces. May be nil.
type Notifier interface {
	Publish(event map[string]any)
}

// Handlers exposes the daemon's operations over HTTP. The domain layer is
// single-threaded by design; mu serializes every mutating request so gin's
// concurrency never reaches it.
type Handlers struct {
	mu       sync.Mutex
	orch     *session.Orchestrator
	cycler   *cycle.Cycler
	recovery *recovery.Manager
	breaker  *resilience.Breaker
	notifier Notifier

	cycleSession *cycle.Session
	version      string
}

// NewHandlers creates the handler set.
func NewHandlers(orch *session.Orchestrator, cycler *cycle.Cycler, rec *recovery.Manager, breaker *resilience.Breaker, notifier Notifier, version string) *Handlers {
	return &Handlers{
		orch:     orch,
		cycler:   cycler,
		recovery: rec,
		breaker:  breaker,
		notifier: notifier,
		version:  version,
	}
}

// Root handles the liveness check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "deskpilot",
		"version": h.version,
	})
}

// Health reports daemon health including window-manager reachability as
// seen by the circuit breaker.
func (h *Handlers) Health(c *gin.Context) {
	snap := h.breaker.Snapshot()
	status := "healthy"
	if h.breaker.State() == resilience.StateOpen {
		status = "degraded"
	}

	h.mu.Lock()
	active, hasActive := h.orch.ActiveProject()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"breaker": snap,
		"active_project": gin.H{
			"id":     active,
			"active": hasActive,
		},
	})
}

// ListProjects returns configured projects ordered for display; the q
// query parameter filters and re-ranks by match quality.
func (h *Handlers) ListProjects(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	projects, err := h.orch.OrderedProjects(c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}

	active, _ := h.orch.ActiveProject()
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"active":   active,
		"recents":  h.orch.Recents(),
	})
}

// ActivateProject runs the full activation flow for one project.
func (h *Handlers) ActivateProject(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := c.Param("id")
	if err := h.orch.Activate(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project":   id,
		"workspace": workspace.Name(id),
	})
}

// CloseProject closes the project's workspace and restores focus.
func (h *Handlers) CloseProject(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := c.Param("id")
	if err := h.orch.CloseProject(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": id, "closed": true})
}

// ExitSession restores the pre-activation focus without closing anything.
func (h *Handlers) ExitSession(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.orch.ExitProject(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exited": true})
}

// CycleFocus moves focus one step through the focused workspace's windows
// without opening a session.
func (h *Handlers) CycleFocus(c *gin.Context) {
	dir, err := cycle.ParseDirection(c.DefaultQuery("direction", "next"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.cycler.CycleFocus(c.Request.Context(), dir); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cycled": true})
}

// StartCycleSession snapshots the focused workspace's windows and takes
// the first step. Returns the session state, or no_session when fewer
// than two windows are eligible.
func (h *Handlers) StartCycleSession(c *gin.Context) {
	dir, err := cycle.ParseDirection(c.DefaultQuery("direction", "next"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cycleSession != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "cycle session already open"})
		return
	}

	s, err := h.cycler.StartSession(c.Request.Context(), dir)
	if err != nil {
		h.fail(c, err)
		return
	}
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"no_session": true})
		return
	}

	h.cycleSession = s
	c.JSON(http.StatusOK, sessionBody(s))
}

// AdvanceCycleSession moves the selection without touching the window
// manager.
func (h *Handlers) AdvanceCycleSession(c *gin.Context) {
	dir, err := cycle.ParseDirection(c.DefaultQuery("direction", "next"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cycleSession == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no cycle session open"})
		return
	}
	h.cycler.Advance(h.cycleSession, dir)
	c.JSON(http.StatusOK, sessionBody(h.cycleSession))
}

// CommitCycleSession focuses the selected window and ends the session.
func (h *Handlers) CommitCycleSession(c *gin.Context) {
	h.endCycleSession(c, true)
}

// CancelCycleSession refocuses the initial window and ends the session.
func (h *Handlers) CancelCycleSession(c *gin.Context) {
	h.endCycleSession(c, false)
}

func (h *Handlers) endCycleSession(c *gin.Context, commit bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cycleSession == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no cycle session open"})
		return
	}

	s := h.cycleSession
	h.cycleSession = nil

	var err error
	if commit {
		err = h.cycler.Commit(c.Request.Context(), s)
	} else {
		err = h.cycler.Cancel(c.Request.Context(), s)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"committed": commit})
}

// RecoverWorkspace sweeps one workspace's windows back into place.
func (h *Handlers) RecoverWorkspace(c *gin.Context) {
	var req struct {
		Workspace string `json:"workspace" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace is required"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.recovery.RecoverWorkspaceWindows(c.Request.Context(), req.Workspace)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecoverAll moves every window everywhere to the preferred non-project
// workspace, streaming per-window progress to event subscribers.
func (h *Handlers) RecoverAll(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var progress recovery.ProgressFunc
	if h.notifier != nil {
		progress = func(p recovery.Progress) {
			h.notifier.Publish(map[string]any{
				"type":   "recovery_progress",
				"done":   p.Done,
				"total":  p.Total,
				"window": p.Window,
			})
		}
	}

	result, err := h.recovery.RecoverAllWindows(c.Request.Context(), progress)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BreakerStatus exposes the circuit breaker snapshot.
func (h *Handlers) BreakerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.breaker.Snapshot())
}

func sessionBody(s *cycle.Session) gin.H {
	return gin.H{
		"candidates": s.Candidates,
		"initial":    s.InitialWindowID,
		"selected":   s.SelectedWindow(),
	}
}

// fail maps domain errors to HTTP status codes.
func (h *Handlers) fail(c *gin.Context, err error) {
	var launchErr *session.LaunchError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrConfigNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, resilience.ErrCircuitOpen):
		status = http.StatusServiceUnavailable
	case errors.Is(err, session.ErrNoActiveProject),
		errors.Is(err, session.ErrNoPreviousWindow):
		status = http.StatusConflict
	case errors.As(err, &launchErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
