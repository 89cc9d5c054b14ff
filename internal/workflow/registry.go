package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns every live workspace, keyed by the id stored in the session cookie.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	deps       Deps
	now        func() time.Time
}

func NewRegistry(deps Deps) *Registry {
	deps.claims = newApprovalClaims()
	return &Registry{
		workspaces: make(map[string]*Workspace),
		deps:       deps,
		now:        time.Now,
	}
}

func (r *Registry) Create() *Workspace {
	ws := NewWorkspace(uuid.NewString(), r.deps)

	r.mu.Lock()
	r.workspaces[ws.ID] = ws
	r.mu.Unlock()

	return ws
}

// Get returns a live workspace and marks it as used.
func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	ws, ok := r.workspaces[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	ws.Touch()
	return ws, nil
}

// GetOrCreate returns the workspace for id, or a fresh one when id is unknown.
// The second result reports whether a new workspace was made.
func (r *Registry) GetOrCreate(id string) (*Workspace, bool) {
	if id != "" {
		if ws, err := r.Get(id); err == nil {
			return ws, false
		}
	}
	return r.Create(), true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Sweep drops workspaces unused for longer than maxIdle. Workspaces with
// approvals still running are kept. It returns how many were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, ws := range r.workspaces {
		lastSeen, busy := ws.idleSince()
		if busy || !lastSeen.Before(cutoff) {
			continue
		}
		delete(r.workspaces, id)
		removed++
	}
	if removed > 0 {
		r.deps.Logger.Debug().Int("removed", removed).Int("remaining", len(r.workspaces)).Msg("idle workspaces evicted")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx ends.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// Wait blocks until approval tasks in every workspace have finished.
func (r *Registry) Wait() {
	r.mu.RLock()
	all := make([]*Workspace, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		all = append(all, ws)
	}
	r.mu.RUnlock()

	for _, ws := range all {
		ws.Wait()
	}
}
