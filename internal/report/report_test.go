package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/spec"
	"github.com/ziadkadry99/apivet/internal/validator"
)

func sampleData() Data {
	okRes := validator.NewResult("status_code")
	schemaRes := validator.NewResult("schema")
	schemaRes.AddError("expected integer, got string", "/id")

	return Data{
		Title:       "API Validation Report",
		GeneratedAt: time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC),
		SpecInfo:    spec.Info{Title: "Pet Store", Version: "1.0.0", BaseURL: "https://api.example.com"},
		Results: []engine.EndpointResult{
			{
				Endpoint: spec.Endpoint{
					Method:      "GET",
					Path:        "/pets",
					Summary:     "List pets",
					Description: "Returns **all** pets.",
				},
				Success:     true,
				Validations: []validator.Result{okRes},
				Duration:    42 * time.Millisecond,
				Response:    &engine.ResponseDetails{StatusCode: 200, Status: "200 OK", BodySize: 12, Body: `[{"id": 1}]`},
			},
			{
				Endpoint:    spec.Endpoint{Method: "POST", Path: "/pets"},
				Success:     false,
				Validations: []validator.Result{schemaRes},
				Duration:    18 * time.Millisecond,
			},
		},
	}
}

func TestDataPassedFailed(t *testing.T) {
	data := sampleData()
	data.Summary = engine.Summarize(data.Results)

	if got := data.Passed(); len(got) != 1 || got[0].Endpoint.Path != "/pets" || !got[0].Success {
		t.Errorf("Passed() = %+v", got)
	}
	if got := data.Failed(); len(got) != 1 || got[0].Success {
		t.Errorf("Failed() = %+v", got)
	}
}

func TestHTMLReporterGenerate(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()
	data.Summary = engine.Summarize(data.Results)

	path, err := NewHTMLReporter(dir).Generate(data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(path, "api_validation_report_20260814_103000.html") {
		t.Errorf("path = %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	html := string(content)

	// Summary tab starts active; the result tabs do not.
	if !strings.Contains(html, `id="summary" class="tab-content active"`) {
		t.Error("summary panel should start active")
	}
	if strings.Contains(html, `id="failed" class="tab-content active"`) {
		t.Error("failed panel should not start active")
	}

	// Fold sections start collapsed.
	if strings.Contains(html, `class="content shown"`) {
		t.Error("fold sections should start collapsed")
	}

	// Both results render, with verdict badges.
	if !strings.Contains(html, "GET") || !strings.Contains(html, "/pets") {
		t.Error("endpoint row missing")
	}
	if !strings.Contains(html, "PASS") || !strings.Contains(html, "FAIL") {
		t.Error("verdict badges missing")
	}

	// Markdown description rendered to HTML.
	if !strings.Contains(html, "<strong>all</strong>") {
		t.Error("description markdown not rendered")
	}

	// Schema issue surfaces in the failed section.
	if !strings.Contains(html, "expected integer, got string") {
		t.Error("validation error missing")
	}
}

func TestHTMLReporterHonoursViewState(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()
	data.Summary = engine.Summarize(data.Results)

	view := DefaultView(data)
	if err := view.SelectTab("report", "failed"); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if err := view.Toggle(CollapsibleID("POST /pets")); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	reporter := NewHTMLReporter(dir)
	reporter.View = view

	path, err := reporter.Generate(data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	content, _ := os.ReadFile(path)
	html := string(content)

	if !strings.Contains(html, `id="failed" class="tab-content active"`) {
		t.Error("failed panel should be active")
	}
	if strings.Contains(html, `id="summary" class="tab-content active"`) {
		t.Error("summary panel should be inactive under mutual exclusion")
	}
	if !strings.Contains(html, `class="content shown"`) {
		t.Error("toggled fold section should start open")
	}
}

func TestJSONReporterGenerate(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()
	data.Summary = engine.Summarize(data.Results)

	path, err := NewJSONReporter(dir).Generate(data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("path = %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var decoded Data
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Summary.Total != 2 || len(decoded.Results) != 2 {
		t.Errorf("decoded = %+v", decoded.Summary)
	}
}

func TestCollapsibleID(t *testing.T) {
	if got := CollapsibleID("GET /users/{id}"); got != "result-get--users-id" {
		t.Errorf("CollapsibleID = %q", got)
	}
}
