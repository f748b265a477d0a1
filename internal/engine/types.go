package engine

import (
	"time"

	"github.com/ziadkadry99/apivet/internal/spec"
	"github.com/ziadkadry99/apivet/internal/validator"
)

// RequestDetails captures what was sent, for reporting.
type RequestDetails struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// ResponseDetails captures what came back, for reporting. Body is truncated
// to the configured reporting cap.
type ResponseDetails struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	BodySize   int               `json:"body_size"`
	Body       string            `json:"body,omitempty"`
}

// EndpointResult is the outcome of validating one endpoint.
type EndpointResult struct {
	Endpoint    spec.Endpoint      `json:"endpoint"`
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"` // transport-level failure
	Validations []validator.Result `json:"validations,omitempty"`
	Request     *RequestDetails    `json:"request,omitempty"`
	Response    *ResponseDetails   `json:"response,omitempty"`
	Duration    time.Duration      `json:"duration_ns"`
}

// Summary aggregates a full sweep.
type Summary struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	SuccessRate   float64 `json:"success_rate"`
	AvgResponseMs float64 `json:"average_response_ms"`
}

// Summarize computes the sweep summary from individual results.
func Summarize(results []EndpointResult) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}

	var totalMs float64
	for _, r := range results {
		if r.Success {
			s.Passed++
		} else {
			s.Failed++
		}
		totalMs += float64(r.Duration.Milliseconds())
	}
	s.SuccessRate = float64(s.Passed) / float64(s.Total) * 100
	s.AvgResponseMs = totalMs / float64(s.Total)
	return s
}

// EventType identifies a progress event published during a sweep.
type EventType string

const (
	EventRunStarted       EventType = "run_started"
	EventEndpointFinished EventType = "endpoint_finished"
	EventRunFinished      EventType = "run_finished"
)

// Event is a progress notification published to the event sink while a
// sweep runs. The dashboard relays these over its websocket.
type Event struct {
	Type       EventType `json:"type"`
	RunID      string    `json:"run_id,omitempty"`
	EndpointID string    `json:"endpoint_id,omitempty"`
	Success    bool      `json:"success,omitempty"`
	Current    int       `json:"current,omitempty"`
	Total      int       `json:"total"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// EventSink receives progress events. Implementations must not block.
type EventSink interface {
	Publish(Event)
}
