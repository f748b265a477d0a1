package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/apivet/internal/db"
	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/spec"
	"github.com/ziadkadry99/apivet/internal/validator"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func sampleResults() []engine.EndpointResult {
	ok := validator.NewResult("status_code")
	bad := validator.NewResult("schema")
	bad.AddError("expected integer, got string", "/id")

	return []engine.EndpointResult{
		{
			Endpoint:    spec.Endpoint{Method: "GET", Path: "/users"},
			Success:     true,
			Validations: []validator.Result{ok},
			Duration:    120 * time.Millisecond,
		},
		{
			Endpoint:    spec.Endpoint{Method: "POST", Path: "/users"},
			Success:     false,
			Validations: []validator.Result{bad},
			Duration:    80 * time.Millisecond,
		},
	}
}

func sampleRun() Run {
	results := sampleResults()
	return Run{
		SpecTitle:   "Test API",
		SpecVersion: "1.0.0",
		BaseURL:     "https://api.example.com",
		Summary:     engine.Summarize(results),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, sampleRun(), sampleResults())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	got, err := store.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.SpecTitle != "Test API" {
		t.Errorf("SpecTitle = %q", got.SpecTitle)
	}
	if got.Summary.Total != 2 || got.Summary.Passed != 1 || got.Summary.Failed != 1 {
		t.Errorf("Summary = %+v", got.Summary)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not recorded")
	}
}

func TestResultsRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, sampleRun(), sampleResults())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	results, err := store.Results(ctx, id)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Endpoint.ID() != "GET /users" {
		t.Errorf("first result = %q", results[0].Endpoint.ID())
	}
	if results[1].Success {
		t.Error("second result should be failed")
	}
	if len(results[1].Validations) != 1 || len(results[1].Validations[0].Errors) != 1 {
		t.Errorf("validation detail lost: %+v", results[1].Validations)
	}
}

func TestLatestRunAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.LatestRun(ctx); err != ErrNotFound {
		t.Fatalf("LatestRun on empty store: %v, want ErrNotFound", err)
	}

	first := sampleRun()
	first.CreatedAt = time.Now().Add(-time.Hour).UTC()
	if _, err := store.SaveRun(ctx, first, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	second := sampleRun()
	secondID, err := store.SaveRun(ctx, second, nil)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != secondID {
		t.Errorf("latest = %q, want %q", latest.ID, secondID)
	}

	runs, err := store.List(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != secondID {
		t.Error("runs should be newest first")
	}

	runs, err = store.List(ctx, QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("limited list = %d runs", len(runs))
	}
}

func TestDeleteRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, sampleRun(), sampleResults())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := store.DeleteRun(ctx, id); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := store.GetRun(ctx, id); err != ErrNotFound {
		t.Errorf("GetRun after delete: %v, want ErrNotFound", err)
	}
	if err := store.DeleteRun(ctx, id); err != ErrNotFound {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, sampleRun(), sampleResults())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/runs/latest")
	if err != nil {
		t.Fatalf("GET latest: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest status = %d", resp.StatusCode)
	}
	var run Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		t.Fatalf("decoding latest: %v", err)
	}
	if run.ID != id {
		t.Errorf("latest id = %q, want %q", run.ID, id)
	}

	resp2, err := http.Get(srv.URL + "/api/runs/" + id + "/results")
	if err != nil {
		t.Fatalf("GET results: %v", err)
	}
	defer resp2.Body.Close()
	var results []engine.EndpointResult
	if err := json.NewDecoder(resp2.Body).Decode(&results); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d", len(results))
	}

	resp3, err := http.Get(srv.URL + "/api/runs/does-not-exist")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", resp3.StatusCode)
	}
}
