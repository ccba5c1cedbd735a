package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent(DecisionCompleted)
	if ev.ID == "" {
		t.Fatalf("event id must be set")
	}
	if ev.Decision != DecisionCompleted {
		t.Fatalf("decision wrong: %q", ev.Decision)
	}
	if ev.Timestamp.IsZero() {
		t.Fatalf("timestamp must be set")
	}
	if other := NewEvent(DecisionCompleted); other.ID == ev.ID {
		t.Fatalf("event ids must be unique")
	}
}

func TestFileSink_DeliversJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	ev := NewEvent(DecisionCompleted)
	ev.Filename = "loan.pdf"
	ev.FlaggedCount = 3
	if err := sink.Deliver(context.Background(), ev); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatalf("expected one line in %s", path)
	}
	var decoded Event
	if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if decoded.Filename != "loan.pdf" || decoded.FlaggedCount != 3 {
		t.Fatalf("round-trip mismatch: %+v", decoded)
	}
	if scanner.Scan() {
		t.Fatalf("expected exactly one line")
	}
}

func TestFileSink_RejectsAfterClose(t *testing.T) {
	sink, err := NewFileSink(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := sink.Deliver(context.Background(), NewEvent(DecisionCompleted)); err == nil {
		t.Fatalf("expected delivery to a closed sink to fail")
	}
}

func TestEmitter_DeliversAndCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	em := NewEmitter(EmitterConfig{QueueSize: 8, Workers: 1}, []Sink{sink})
	for i := 0; i < 3; i++ {
		em.Emit(NewEvent(DecisionCompleted))
	}
	em.Close(context.Background())

	counts := em.Snapshot()
	if counts.Enqueued != 3 {
		t.Fatalf("expected 3 enqueued, got %d", counts.Enqueued)
	}
	if counts.SinkSuccess[sink.Name()] != 3 {
		t.Fatalf("expected 3 successes, got %d", counts.SinkSuccess[sink.Name()])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 3 {
		t.Fatalf("expected 3 JSONL lines, got %d", lines)
	}
}

func TestEmitter_DropsAfterClose(t *testing.T) {
	em := NewEmitter(EmitterConfig{QueueSize: 1}, nil)
	em.Close(context.Background())
	em.Emit(NewEvent(DecisionCompleted))

	counts := em.Snapshot()
	if counts.Dropped != 1 {
		t.Fatalf("expected the post-close event to be dropped, got %+v", counts)
	}
}

func TestWebhookSink_Delivers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var ev Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if r.Header.Get("X-Token") != "secret" {
			t.Errorf("expected custom header, got %q", r.Header.Get("X-Token"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(srv.URL, map[string]string{"X-Token": "secret"}, time.Second)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Deliver(context.Background(), NewEvent(DecisionCompleted)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one POST, got %d", calls)
	}
}

func TestWebhookSink_RetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(srv.URL, nil, time.Second)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Deliver(context.Background(), NewEvent(DecisionCompleted)); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}
