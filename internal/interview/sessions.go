package interview

import (
	"context"
	"sync"

	"github.com/sithumSoft/MockMate/internal/models"
)

// Sessions tracks one live controller per ongoing interview id. Controllers for
// interviews not in memory are resumed from the store on demand; finished
// interviews are never kept.
type Sessions struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     func() *Controller
}

func NewSessions(factory func() *Controller) *Sessions {
	return &Sessions{
		controllers: make(map[string]*Controller),
		factory:     factory,
	}
}

// Start begins a new interview on a fresh controller and registers it.
func (s *Sessions) Start(ctx context.Context, userID, jobDescription string, mode models.Mode) (*Controller, *Snapshot, error) {
	ctrl := s.factory()
	snap, err := ctrl.Start(ctx, userID, jobDescription, mode)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.controllers[snap.Interview.ID] = ctrl
	s.mu.Unlock()
	return ctrl, snap, nil
}

// Get returns the live controller for id, resuming it from the store if needed.
// A completed interview is resumed into a controller that is not registered.
func (s *Sessions) Get(ctx context.Context, id string) (*Controller, error) {
	s.mu.Lock()
	ctrl, ok := s.controllers[id]
	s.mu.Unlock()
	if ok {
		return ctrl, nil
	}

	ctrl = s.factory()
	snap, err := ctrl.Resume(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap.State == StateFinished {
		return ctrl, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.controllers[id]; ok {
		return existing, nil
	}
	s.controllers[id] = ctrl
	return ctrl, nil
}

// Finish completes the interview held by ctrl and drops it from the registry.
func (s *Sessions) Finish(ctx context.Context, ctrl *Controller) (*Snapshot, error) {
	snap, err := ctrl.Finish(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.controllers[snap.Interview.ID] == ctrl {
		delete(s.controllers, snap.Interview.ID)
	}
	s.mu.Unlock()
	return snap, nil
}

// Release resets and forgets the controller for id. It reports whether one was live.
func (s *Sessions) Release(id string) bool {
	s.mu.Lock()
	ctrl, ok := s.controllers[id]
	delete(s.controllers, id)
	s.mu.Unlock()

	if ok {
		ctrl.Reset()
	}
	return ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}
