package service

import (
	"sync"
	"time"
)

const statusTTL = time.Hour

// UploadStatus is a point-in-time snapshot of one running or finished upload
type UploadStatus struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`

	updatedAt time.Time
}

// ProgressTracker keeps upload statuses in memory so clients can poll them.
// Percent never moves backwards for a given upload, even when storage-layer
// progress callbacks arrive out of order.
type ProgressTracker struct {
	mu       sync.Mutex
	statuses map[string]*UploadStatus
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{statuses: make(map[string]*UploadStatus)}
}

// Update records progress for id. Regressing percents are clamped to the
// last reported value; the stage still updates.
func (t *ProgressTracker) Update(id string, percent int, stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.statuses[id]
	if !ok {
		s = &UploadStatus{}
		t.statuses[id] = s
	}

	if percent > s.Percent {
		s.Percent = percent
	}

	s.Stage = stage
	s.Done = s.Percent >= 100
	s.updatedAt = time.Now()
}

// Fail marks an upload as finished with an error message
func (t *ProgressTracker) Fail(id, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.statuses[id]
	if !ok {
		s = &UploadStatus{}
		t.statuses[id] = s
	}

	s.Done = true
	s.Error = msg
	s.updatedAt = time.Now()
}

// Get returns a copy of the status for id
func (t *ProgressTracker) Get(id string) (UploadStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.statuses[id]
	if !ok {
		return UploadStatus{}, false
	}

	return *s, true
}

// Cleanup drops statuses that haven't been touched within the TTL. Runs on
// a cron schedule.
func (t *ProgressTracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-statusTTL)

	for id, s := range t.statuses {
		if s.updatedAt.Before(cutoff) {
			delete(t.statuses, id)
		}
	}
}
