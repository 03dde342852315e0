package kvsession

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

type blockingSink struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSink) Emit(_ context.Context, _ AuditEvent) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-s.release
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &blockingSink{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	ctx := context.Background()

	d.Emit(ctx, AuditEvent{EventType: AuditCommit})
	// Wait for the worker to occupy the sink so the buffer state is known.
	select {
	case <-sink.started:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher never delivered the first event")
	}

	d.Emit(ctx, AuditEvent{EventType: AuditCommit}) // fills the buffer
	d.Emit(ctx, AuditEvent{EventType: AuditCommit}) // dropped

	if got := d.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}

	close(sink.release)
	d.Close()
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d.Emit(ctx, AuditEvent{EventType: AuditLoad})
	}
	d.Close()

	for i := 0; i < 3; i++ {
		select {
		case <-sink.Events():
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d was not drained before close", i)
		}
	}
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled audit must not start a dispatcher")
	}
	// All methods are nil-safe.
	d.Emit(context.Background(), AuditEvent{})
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
	d.Close()
}

func TestDispatcherEmitAfterCloseIsNoOp(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)
	d.Close()

	d.Emit(context.Background(), AuditEvent{EventType: AuditCommit})

	select {
	case ev := <-sink.Events():
		t.Fatalf("unexpected event after close: %+v", ev)
	default:
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		EventType:  AuditDestroy,
		SessionKey: "1a2b_0",
		Success:    true,
	})

	var got AuditEvent
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("unmarshal: %v (raw: %q)", err, buf.String())
	}
	if got.EventType != AuditDestroy || got.SessionKey != "1a2b_0" || !got.Success {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if bytes.Count(buf.Bytes(), []byte{'\n'}) != 1 {
		t.Fatal("expected exactly one line per event")
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), AuditEvent{EventType: AuditCommit})

	// Buffer is full; a cancelled context must not block.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sink.Emit(ctx, AuditEvent{EventType: AuditCommit})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked despite cancelled context")
	}
}
