package app

import (
	"context"
	"sync"
)

// Registry maps gateway session ids to their coordinator. A controller is
// created at login and dropped at logout. A lookup for an unknown id falls
// back to the flag store: a session whose logged-in flag survived a gateway
// restart is rebuilt on demand, everything else fails so an expired token
// cannot resurrect state.
type Registry struct {
	newController func(id string) *SessionController
	canResume     func(ctx context.Context, id string) bool

	mu          sync.RWMutex
	controllers map[string]*SessionController
}

func NewRegistry(newController func(id string) *SessionController, canResume func(ctx context.Context, id string) bool) *Registry {
	return &Registry{
		newController: newController,
		canResume:     canResume,
		controllers:   make(map[string]*SessionController),
	}
}

func (r *Registry) Create(id string) *SessionController {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.controllers[id]; ok {
		return existing
	}
	controller := r.newController(id)
	r.controllers[id] = controller
	return controller
}

func (r *Registry) Get(id string) (*SessionController, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	controller, ok := r.controllers[id]
	return controller, ok
}

// Resume returns the live controller for id, rebuilding it from the persisted
// flags when the in-memory one is gone but the session is still logged in.
func (r *Registry) Resume(ctx context.Context, id string) (*SessionController, bool) {
	if controller, ok := r.Get(id); ok {
		return controller, true
	}
	if r.canResume == nil || !r.canResume(ctx, id) {
		return nil, false
	}
	controller := r.Create(id)
	controller.RestoreFlags(ctx)
	return controller, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, id)
}
