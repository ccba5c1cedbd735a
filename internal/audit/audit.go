// Package audit records one event per analyzed document. Events never
// carry raw document text — at most a redacted, truncated preview — and
// delivery happens off the request path.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome of one analysis request.
type Decision string

const (
	DecisionCompleted      Decision = "completed"
	DecisionEmptyDocument  Decision = "empty_document"
	DecisionRejectedDecode Decision = "rejected_decode"
	DecisionRejectedUpload Decision = "rejected_upload"
)

// Event is the canonical audit payload, one per analysis request.
type Event struct {
	Version       string         `json:"version"`
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Filename      string         `json:"filename"`
	Format        string         `json:"format,omitempty"`
	Decision      Decision       `json:"decision"`
	DocumentBytes int            `json:"document_bytes"`
	FlaggedCount  int            `json:"flagged_count"`
	Categories    map[string]int `json:"categories,omitempty"`
	Severities    map[string]int `json:"severities,omitempty"`
	LatencyMS     float64        `json:"latency_ms"`
	Preview       string         `json:"preview,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewEvent returns an Event with identity and timestamp filled in.
func NewEvent(decision Decision) *Event {
	return &Event{
		Version:   "1",
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Decision:  decision,
	}
}
