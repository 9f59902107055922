package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	fail   bool
}

func (a *recordingAudit) Record(_ context.Context, e domain.OrderEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
	if a.fail {
		return fmt.Errorf("record event: boom")
	}
	return nil
}

func (a *recordingAudit) snapshot() []domain.OrderEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.OrderEvent(nil), a.events...)
}

func stopWithin(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(3, audit, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		d.Publish(domain.OrderEvent{OrderNumber: fmt.Sprintf("OS-%08d", i%7), Kind: domain.EventOrderCreated})
	}
	stopWithin(t, d)

	if got := len(audit.snapshot()); got != 50 {
		t.Fatalf("expected 50 recorded events, got %d", got)
	}
}

func TestDispatcher_PreservesPerOrderSequence(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(4, audit, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Publish(domain.OrderEvent{OrderNumber: "OS-A", Kind: domain.EventInstallmentEdited, Notes: fmt.Sprint(i)})
		d.Publish(domain.OrderEvent{OrderNumber: "OS-B", Kind: domain.EventInstallmentEdited, Notes: fmt.Sprint(i)})
	}
	stopWithin(t, d)

	next := map[string]int{}
	for _, e := range audit.snapshot() {
		if e.Notes != fmt.Sprint(next[e.OrderNumber]) {
			t.Fatalf("order %s: got event %s, want %d", e.OrderNumber, e.Notes, next[e.OrderNumber])
		}
		next[e.OrderNumber]++
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(5, &recordingAudit{}, zerolog.Nop())
	for _, n := range []string{"OS-1", "OS-0000ABCD", ""} {
		first := d.shardIndex(n)
		if first < 0 || first >= 5 {
			t.Fatalf("index %d out of range", first)
		}
		if again := d.shardIndex(n); again != first {
			t.Errorf("shard for %q moved from %d to %d", n, first, again)
		}
	}
}

func TestDispatcher_FailuresDoNotStopWorkers(t *testing.T) {
	audit := &recordingAudit{fail: true}
	d := NewDispatcher(1, audit, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.OrderEvent{OrderNumber: "OS-1", Kind: domain.EventOrderCreated})
	d.Publish(domain.OrderEvent{OrderNumber: "OS-1", Kind: domain.EventStatusChanged})
	stopWithin(t, d)

	if got := len(audit.snapshot()); got != 2 {
		t.Fatalf("expected both events attempted, got %d", got)
	}
}

func TestDispatcher_PublishAfterStopIsDropped(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(2, audit, zerolog.Nop())
	d.Start(context.Background())
	stopWithin(t, d)

	d.Publish(domain.OrderEvent{OrderNumber: "OS-1", Kind: domain.EventOrderCreated})
	stopWithin(t, d)

	if got := len(audit.snapshot()); got != 0 {
		t.Fatalf("expected no events after stop, got %d", got)
	}
}
