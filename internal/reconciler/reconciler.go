package reconciler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/naperu/heraldo/internal/dedup"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/repository"
)

// Grace period before a notification left pending after a committed merge is
// considered stuck. Covers the resolver's in-flight retry window.
const defaultGrace = 2 * time.Minute

// WorkerStatus is a snapshot of the reconciler state.
type WorkerStatus struct {
	Running       bool       `json:"running"`
	LastCheck     *time.Time `json:"last_check,omitempty"`
	LastRepaired  int        `json:"last_repaired"`
	TotalRepaired int        `json:"total_repaired"`
}

// Reconciler repairs notifications that a committed merge failed to move to
// the merged status. Merge history is the source of truth: a history row
// whose notification is still pending means the final transition was lost.
type Reconciler struct {
	history  *repository.MergeHistoryRepository
	queue    *dedup.Queue
	interval time.Duration
	grace    time.Duration

	mu      sync.RWMutex
	running bool
	status  WorkerStatus
	stopCh  chan struct{}
	stopped chan struct{}
}

func New(history *repository.MergeHistoryRepository, queue *dedup.Queue, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reconciler{
		history:  history,
		queue:    queue,
		interval: interval,
		grace:    defaultGrace,
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins the background repair loop.
func (r *Reconciler) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.status.Running = true
	r.mu.Unlock()

	go r.loop()

	log.Printf("[Reconciler] Background worker started (%s poll interval)", r.interval)
}

// Stop gracefully shuts down the worker.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.status.Running = false
	r.mu.Unlock()
	close(r.stopCh)
	<-r.stopped
	log.Println("[Reconciler] Background worker stopped")
}

// GetStatus returns the current worker status.
func (r *Reconciler) GetStatus() WorkerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Reconciler) loop() {
	defer close(r.stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.runOnce()
		}
	}
}

// runOnce re-applies the merged transition for every lagged history row.
func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lagged, err := r.history.ListLagged(ctx, r.grace, 100)
	if err != nil {
		log.Printf("[Reconciler] failed to list lagged merges: %v", err)
		return
	}

	repaired := 0
	for _, entry := range lagged {
		if entry.NotificationID == nil {
			continue
		}
		_, err := r.queue.SetStatus(ctx, entry.AccountID, *entry.NotificationID, domain.NotificationStatusMerged, entry.MergedBy)
		switch {
		case err == nil:
			repaired++
		case isConflict(err):
			// Someone beat us to a terminal status; nothing to repair.
		case isNotFound(err):
			// Notification row vanished; the history row stays as audit.
		default:
			log.Printf("[Reconciler] failed to repair notification %s: %v", *entry.NotificationID, err)
		}
	}

	r.mu.Lock()
	now := time.Now()
	r.status.LastCheck = &now
	r.status.LastRepaired = repaired
	r.status.TotalRepaired += repaired
	r.mu.Unlock()

	if repaired > 0 {
		log.Printf("[Reconciler] Repaired %d stuck notification(s)", repaired)
	}
}

func isConflict(err error) bool {
	var conflict *domain.ConflictError
	return errors.As(err, &conflict)
}

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}
