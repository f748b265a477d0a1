package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/viewstate"
)

// resultTabs is the tab group rendered at the top of the report.
var resultTabs = []string{"summary", "passed", "failed"}

// HTMLReporter writes the browsable report. View controls which tab and
// which foldable sections start open; when nil everything starts at the
// defaults (summary tab active, all sections folded).
type HTMLReporter struct {
	OutputDir string
	View      *viewstate.Controller

	md goldmark.Markdown
}

// NewHTMLReporter creates an HTMLReporter writing into outputDir.
func NewHTMLReporter(outputDir string) *HTMLReporter {
	return &HTMLReporter{
		OutputDir: outputDir,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// tabView is one selector in the rendered tab bar.
type tabView struct {
	ID     string
	Label  string
	Active bool
}

// resultView is one endpoint section in a results panel.
type resultView struct {
	ID          string // collapsible identifier
	EndpointID  string
	Method      string
	Path        string
	Summary     string
	Description template.HTML
	Success     bool
	Error       string
	StatusLine  string
	DurationMs  int64
	Expanded    bool
	Result      engine.EndpointResult
}

// pageData is passed to the report template.
type pageData struct {
	Title       string
	GeneratedAt string
	Data        Data
	Tabs        []tabView
	Passed      []resultView
	Failed      []resultView
	Styles      template.CSS
	Script      template.JS
}

// Generate writes the report and returns its path.
func (r *HTMLReporter) Generate(data Data) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	view := r.View
	if view == nil {
		view = DefaultView(data)
	}

	page := pageData{
		Title:       data.Title,
		GeneratedAt: data.GeneratedAt.Format("2006-01-02 15:04:05"),
		Data:        data,
		Styles:      template.CSS(cssContent),
		Script:      template.JS(jsContent),
	}
	if page.Title == "" {
		page.Title = "API Validation Report"
	}

	active := view.ActiveTab("report")
	for _, tab := range resultTabs {
		page.Tabs = append(page.Tabs, tabView{
			ID:     tab,
			Label:  strings.ToUpper(tab[:1]) + tab[1:],
			Active: tab == active,
		})
	}

	for _, res := range data.Passed() {
		page.Passed = append(page.Passed, r.resultView(res, view))
	}
	for _, res := range data.Failed() {
		page.Failed = append(page.Failed, r.resultView(res, view))
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	path := filepath.Join(r.OutputDir, fmt.Sprintf("api_validation_report_%s.html", timestamp(data.GeneratedAt)))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// DefaultView builds the view state for a run: the three result tabs with
// summary active, and one folded section per endpoint result.
func DefaultView(data Data) *viewstate.Controller {
	view := viewstate.NewController()
	view.AddTabGroup("report", resultTabs...)
	for _, res := range data.Results {
		view.AddCollapsible(CollapsibleID(res.Endpoint.ID()))
	}
	return view
}

// CollapsibleID derives the fold-section identifier for an endpoint id.
func CollapsibleID(endpointID string) string {
	s := strings.ToLower(endpointID)
	s = strings.NewReplacer(" ", "-", "/", "-", "{", "", "}", "").Replace(s)
	return "result-" + strings.Trim(s, "-")
}

func (r *HTMLReporter) resultView(res engine.EndpointResult, view *viewstate.Controller) resultView {
	id := CollapsibleID(res.Endpoint.ID())
	v := resultView{
		ID:         id,
		EndpointID: res.Endpoint.ID(),
		Method:     res.Endpoint.Method,
		Path:       res.Endpoint.Path,
		Summary:    res.Endpoint.Summary,
		Success:    res.Success,
		Error:      res.Error,
		DurationMs: res.Duration.Milliseconds(),
		Expanded:   view.Expanded(id),
		Result:     res,
	}
	if res.Response != nil {
		v.StatusLine = res.Response.Status
		if v.StatusLine == "" {
			v.StatusLine = fmt.Sprintf("%d", res.Response.StatusCode)
		}
	}
	// Endpoint descriptions are CommonMark per the OpenAPI spec.
	if res.Endpoint.Description != "" {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(res.Endpoint.Description), &buf); err == nil {
			v.Description = template.HTML(buf.String())
		}
	}
	return v
}
