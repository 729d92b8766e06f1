package booking

import (
	"sync"
	"time"
)

// WorkflowStore keeps one workflow per user.
type WorkflowStore struct {
	mu      sync.Mutex
	m       map[int64]*Workflow
	timeout time.Duration
}

// NewWorkflowStore creates a store with the given idle timeout.
func NewWorkflowStore(timeout time.Duration) *WorkflowStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &WorkflowStore{m: make(map[int64]*Workflow), timeout: timeout}
}

// Get returns the user's workflow, or nil.
func (s *WorkflowStore) Get(userID int64) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[userID]
}

// GetOrCreate returns the existing workflow or a fresh idle one. An expired
// workflow is replaced.
func (s *WorkflowStore) GetOrCreate(userID int64) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.m[userID]
	if ok && time.Since(w.UpdatedAt()) <= s.timeout {
		return w
	}
	w = New()
	s.m[userID] = w
	return w
}

// Reset replaces the user's workflow with a fresh idle one.
func (s *WorkflowStore) Reset(userID int64) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := New()
	s.m[userID] = w
	return w
}

// Delete removes the user's workflow.
func (s *WorkflowStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// Cleanup removes expired workflows and returns how many were dropped.
func (s *WorkflowStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for userID, w := range s.m {
		if time.Since(w.UpdatedAt()) > s.timeout {
			delete(s.m, userID)
			removed++
		}
	}
	return removed
}
