package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/spec"
)

const sweepSpecYAML = `
openapi: 3.0.3
info:
  title: Sweep API
  version: "1"
paths:
  /ok:
    get:
      responses:
        "200":
          description: Success
          content:
            application/json:
              schema:
                type: object
                required: [ok]
                properties:
                  ok:
                    type: boolean
  /broken:
    get:
      responses:
        "200":
          description: Success
          content:
            application/json:
              schema:
                type: object
                required: [ok]
                properties:
                  ok:
                    type: boolean
  /users/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: Success
`

func sweepServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": "yes"}`)) // wrong type
	})
	mux.HandleFunc("/users/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func sweepConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.HTTP.MaxRetries = 0
	cfg.Validation.MaxConcurrency = 2
	return cfg
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestValidateAll(t *testing.T) {
	srv := sweepServer(t)
	doc, err := spec.Parse(sweepSpecYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	sink := &recordingSink{}
	eng, err := New(doc, sweepConfig(srv.URL), WithEventSink(sink), WithRunID("run-1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := TestData{
		"GET /users/{id}": {PathParams: map[string]string{"id": "42"}},
	}

	results, summary, err := eng.ValidateAll(context.Background(), data)
	if err != nil {
		t.Fatalf("ValidateAll: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if summary.Total != 3 || summary.Passed != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}

	byID := map[string]EndpointResult{}
	for _, r := range results {
		byID[r.Endpoint.ID()] = r
	}
	if !byID["GET /ok"].Success {
		t.Error("GET /ok should pass")
	}
	if byID["GET /broken"].Success {
		t.Error("GET /broken should fail schema validation")
	}
	if !byID["GET /users/{id}"].Success {
		t.Errorf("GET /users/{id} should pass: %+v", byID["GET /users/{id}"])
	}

	// Event stream: started, one per endpoint, finished.
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 5 {
		t.Fatalf("len(events) = %d, want 5", len(sink.events))
	}
	if sink.events[0].Type != EventRunStarted {
		t.Errorf("first event = %q", sink.events[0].Type)
	}
	last := sink.events[len(sink.events)-1]
	if last.Type != EventRunFinished || last.Summary == nil {
		t.Errorf("last event = %+v", last)
	}
	if last.RunID != "run-1" {
		t.Errorf("run id = %q", last.RunID)
	}
}

func TestValidateAllRespectsFilters(t *testing.T) {
	srv := sweepServer(t)
	doc, err := spec.Parse(sweepSpecYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := sweepConfig(srv.URL)
	cfg.Include = []string{"GET /ok"}

	eng, err := New(doc, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results, summary, err := eng.ValidateAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ValidateAll: %v", err)
	}
	if len(results) != 1 || summary.Total != 1 {
		t.Fatalf("filtered sweep: %d results", len(results))
	}
	if results[0].Endpoint.ID() != "GET /ok" {
		t.Errorf("result = %q", results[0].Endpoint.ID())
	}
}

func TestValidateAllEverythingFilteredOut(t *testing.T) {
	srv := sweepServer(t)
	doc, _ := spec.Parse(sweepSpecYAML)

	cfg := sweepConfig(srv.URL)
	cfg.Exclude = []string{"* /**", "* *"}

	eng, err := New(doc, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := eng.ValidateAll(context.Background(), nil); err == nil {
		t.Error("expected error when every endpoint is filtered out")
	}
}

func TestValidateEndpointTransportFailure(t *testing.T) {
	doc, _ := spec.Parse(sweepSpecYAML)
	cfg := sweepConfig("http://127.0.0.1:1")

	eng, err := New(doc, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ep := doc.Endpoint("/ok", "GET")
	res := eng.ValidateEndpoint(context.Background(), ep, CaseData{})
	if res.Success {
		t.Error("unreachable endpoint should fail")
	}
	if res.Error == "" {
		t.Error("expected transport error to be recorded")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	doc, _ := spec.Parse(sweepSpecYAML) // no servers entry
	cfg := config.DefaultConfig()
	if _, err := New(doc, cfg); err == nil {
		t.Error("expected error without base URL")
	} else if !strings.Contains(err.Error(), "base URL") {
		t.Errorf("err = %v", err)
	}
}

func TestFilterEndpoints(t *testing.T) {
	eps := []spec.Endpoint{
		{Method: "GET", Path: "/users"},
		{Method: "POST", Path: "/users"},
		{Method: "GET", Path: "/internal/debug"},
	}

	got := FilterEndpoints(eps, nil, []string{"* /internal/**"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	got = FilterEndpoints(eps, []string{"POST /**"}, nil)
	if len(got) != 1 || got[0].Method != "POST" {
		t.Fatalf("include filter: %+v", got)
	}

	got = FilterEndpoints(eps, nil, nil)
	if len(got) != 3 {
		t.Fatalf("no filters should keep all, got %d", len(got))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.SuccessRate != 0 {
		t.Errorf("summary = %+v", s)
	}
}
