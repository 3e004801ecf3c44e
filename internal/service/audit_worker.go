// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/metrics"
	"github.com/keyfleet/keyfleet/internal/models"
)

// AuditRecorder persists a single audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// AuditEnqueuer accepts audit entries for asynchronous recording.
type AuditEnqueuer interface {
	Enqueue(entry models.AuditEntry)
}

// AuditWorker buffers audit entries and writes them via a single worker
// goroutine, keeping audit I/O off the request path.
type AuditWorker struct {
	recorder AuditRecorder
	log      *logrus.Logger
	jobs     chan models.AuditEntry
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(recorder AuditRecorder, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan models.AuditEntry, queueSize),
	}
}

// Enqueue adds an audit entry. Non-blocking; drops the entry if the queue is full.
func (w *AuditWorker) Enqueue(entry models.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	select {
	case w.jobs <- entry:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithFields(logrus.Fields{
			"event_type": entry.EventType,
			"action":     entry.Action,
		}).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit entries until the context is cancelled, then drains
// remaining entries.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.jobs:
			w.process(entry)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case entry := <-w.jobs:
			w.process(entry)
		default:
			metrics.AuditQueueDepth.Set(0)
			return
		}
	}
}

func (w *AuditWorker) process(entry models.AuditEntry) {
	if err := w.recorder.Record(context.Background(), entry); err != nil {
		w.log.WithError(err).WithField("event_type", entry.EventType).Warn("audit record failed")
	}
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
}

// auditAsync enqueues an entry when a worker is wired, and is a no-op otherwise.
func auditAsync(w AuditEnqueuer, actor, eventType, resourceType, resourceID, action string, detail map[string]any) {
	if w == nil {
		return
	}
	w.Enqueue(models.AuditEntry{
		Timestamp:    time.Now().UTC(),
		ActorEmail:   actor,
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Detail:       detail,
		Source:       "api",
	})
}
