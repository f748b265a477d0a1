package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/history"
	"github.com/ziadkadry99/apivet/internal/progress"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// handleListEndpoints parses a spec and lists its endpoints.
func (s *Server) handleListEndpoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specPath, err := request.RequireString("spec_path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: spec_path"), nil
	}

	doc, err := spec.Load(specPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load spec: %v", err)), nil
	}

	eps := doc.Endpoints()
	if len(eps) == 0 {
		return mcp.NewToolResultText("The specification declares no endpoints."), nil
	}

	var b strings.Builder
	info := doc.Info()
	fmt.Fprintf(&b, "%s %s - %d endpoints\n\n", info.Title, info.Version, len(eps))
	for _, ep := range eps {
		fmt.Fprintf(&b, "- %s", ep.ID())
		if codes := ep.ExpectedStatusCodes(); len(codes) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(codes, ", "))
		}
		if ep.Summary != "" {
			fmt.Fprintf(&b, " - %s", ep.Summary)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleValidateAPI runs a full validation sweep against a live API.
func (s *Server) handleValidateAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specPath, err := request.RequireString("spec_path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: spec_path"), nil
	}

	doc, err := spec.Load(specPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load spec: %v", err)), nil
	}

	cfg := *s.cfg
	if baseURL := request.GetString("base_url", ""); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = doc.BaseURL()
	}
	if include := request.GetString("include", ""); include != "" {
		cfg.Include = splitPatterns(include)
	}
	if c := request.GetInt("concurrency", 0); c > 0 {
		cfg.Validation.MaxConcurrency = c
	}

	eng, err := engine.New(doc, &cfg, engine.WithReporter(progress.NopReporter{}))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create engine: %v", err)), nil
	}

	results, summary, err := eng.ValidateAll(ctx, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation sweep failed: %v", err)), nil
	}

	if s.history != nil {
		info := doc.Info()
		_, saveErr := s.history.SaveRun(ctx, history.Run{
			SpecTitle:   info.Title,
			SpecVersion: info.Version,
			SpecPath:    specPath,
			BaseURL:     cfg.BaseURL,
			Summary:     summary,
		}, results)
		if saveErr != nil {
			// The sweep itself succeeded; report results anyway.
			fmt.Fprintf(os.Stderr, "warning: failed to save run: %v\n", saveErr)
		}
	}

	return mcp.NewToolResultText(formatRun(summary, results)), nil
}

// handleGetLatestRun returns the most recent stored run with its results.
func (s *Server) handleGetLatestRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("No run history available. Run `apivet validate` first."), nil
	}

	run, err := s.history.LatestRun(ctx)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultText("No validation runs recorded yet."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run history: %v", err)), nil
	}

	results, err := s.history.Results(ctx, run.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run results: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s - %s %s against %s at %s\n\n",
		run.ID, run.SpecTitle, run.SpecVersion, run.BaseURL, run.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(formatRun(run.Summary, results))
	return mcp.NewToolResultText(b.String()), nil
}

// handleListRuns lists stored runs, newest first.
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("No run history available. Run `apivet validate` first."), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	runs, err := s.history.List(ctx, history.QueryFilter{Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("No validation runs recorded yet."), nil
	}

	out, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode runs: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// formatRun renders a sweep outcome as readable text.
func formatRun(summary engine.Summary, results []engine.EndpointResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d endpoints: %d passed, %d failed (%.1f%% success, avg %.0f ms)\n\n",
		summary.Total, summary.Passed, summary.Failed, summary.SuccessRate, summary.AvgResponseMs)

	for _, res := range results {
		verdict := "PASS"
		if !res.Success {
			verdict = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s", verdict, res.Endpoint.ID())
		if res.Response != nil {
			fmt.Fprintf(&b, " (%d, %dms)", res.Response.StatusCode, res.Duration.Milliseconds())
		}
		b.WriteString("\n")

		if res.Success {
			continue
		}
		if res.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", res.Error)
		}
		for _, v := range res.Validations {
			if v.Valid {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", v.Name, v.Message)
			for _, issue := range v.Errors {
				fmt.Fprintf(&b, "    - %s", issue.Message)
				if issue.Path != "" {
					fmt.Fprintf(&b, " (at %s)", issue.Path)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// splitPatterns parses a comma-separated pattern list.
func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
