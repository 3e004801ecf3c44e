package service

import (
	"context"
	"testing"
	"time"

	"github.com/keyfleet/keyfleet/internal/models"
)

func TestAuditWorker_ProcessesEntry(t *testing.T) {
	recorder := &mockAuditRecorder{}
	aw := NewAuditWorker(recorder, quietLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	go aw.Run(ctx)

	aw.Enqueue(models.AuditEntry{
		ActorEmail:   "admin@example.com",
		EventType:    "team.create",
		ResourceType: "team",
		ResourceID:   "1",
		Action:       "create",
	})

	time.Sleep(50 * time.Millisecond)
	cancel()

	entries := recorder.getEntries()
	if len(entries) != 1 {
		t.Fatalf("recorded entries = %d, want 1", len(entries))
	}
	if entries[0].EventType != "team.create" {
		t.Errorf("event_type = %q, want %q", entries[0].EventType, "team.create")
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp was not stamped on enqueue")
	}
}

func TestAuditWorker_DropsWhenFull(t *testing.T) {
	recorder := &mockAuditRecorder{}

	// Queue size 2, worker not started so it cannot drain.
	aw := NewAuditWorker(recorder, quietLogger(), 2)

	aw.Enqueue(models.AuditEntry{EventType: "a"})
	aw.Enqueue(models.AuditEntry{EventType: "b"})

	done := make(chan struct{})
	go func() {
		aw.Enqueue(models.AuditEntry{EventType: "c"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked when queue was full")
	}

	if len(aw.jobs) != 2 {
		t.Errorf("queue len = %d, want 2", len(aw.jobs))
	}
}

func TestAuditWorker_DrainsOnShutdown(t *testing.T) {
	recorder := &mockAuditRecorder{}
	aw := NewAuditWorker(recorder, quietLogger(), 10)

	for i := range 5 {
		aw.Enqueue(models.AuditEntry{EventType: "e", ResourceID: formatID(int64(i))})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	aw.Run(ctx)

	if got := len(recorder.getEntries()); got != 5 {
		t.Errorf("drained entries = %d, want 5", got)
	}
}
