// Package tui is the terminal report viewer: the report's tab group and
// foldable endpoint sections rendered with bubbletea, driven by the same
// view-state controller the HTML report uses.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/report"
	"github.com/ziadkadry99/apivet/internal/viewstate"
)

const tabGroup = "report"

// Model is the bubbletea model for browsing one validation run.
type Model struct {
	data   report.Data
	view   *viewstate.Controller
	cursor int
	width  int
}

// NewModel creates a viewer over one run's report data.
func NewModel(data report.Data) Model {
	return Model{
		data: data,
		view: report.DefaultView(data),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles key events: tab cycling, direct tab selection, cursor
// movement, and fold toggling.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			_ = m.view.CycleTab(tabGroup, 1)
			m.cursor = 0
		case "shift+tab", "left", "h":
			_ = m.view.CycleTab(tabGroup, -1)
			m.cursor = 0
		case "1", "2", "3":
			panels := m.view.Panels(tabGroup)
			idx := int(msg.String()[0] - '1')
			if idx < len(panels) {
				_ = m.view.SelectTab(tabGroup, panels[idx])
				m.cursor = 0
			}
		case "down", "j":
			if m.cursor < len(m.activeResults())-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", " ":
			results := m.activeResults()
			if m.cursor < len(results) {
				_ = m.view.Toggle(report.CollapsibleID(results[m.cursor].Endpoint.ID()))
			}
		}
	}
	return m, nil
}

// ActiveTab exposes the current tab, mainly for tests.
func (m Model) ActiveTab() string {
	return m.view.ActiveTab(tabGroup)
}

// activeResults returns the result list behind the active tab. The summary
// tab has none.
func (m Model) activeResults() []engine.EndpointResult {
	switch m.ActiveTab() {
	case "passed":
		return m.data.Passed()
	case "failed":
		return m.data.Failed()
	default:
		return nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	title := m.data.Title
	if title == "" {
		title = "API Validation Report"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s %s - generated %s",
		m.data.SpecInfo.Title, m.data.SpecInfo.Version, m.data.GeneratedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.ActiveTab() == "summary" {
		b.WriteString(m.renderSummary())
	} else {
		b.WriteString(m.renderResults())
	}

	b.WriteString(footerStyle.Render("tab/1-3 switch · j/k move · enter fold/unfold · q quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	active := m.ActiveTab()
	for _, panel := range m.view.Panels(tabGroup) {
		label := strings.ToUpper(panel[:1]) + panel[1:]
		switch panel {
		case "passed":
			label = fmt.Sprintf("%s (%d)", label, len(m.data.Passed()))
		case "failed":
			label = fmt.Sprintf("%s (%d)", label, len(m.data.Failed()))
		}
		if panel == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderSummary() string {
	s := m.data.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "  Endpoints      %d\n", s.Total)
	fmt.Fprintf(&b, "  Passed         %s\n", passStyle.Render(fmt.Sprintf("%d", s.Passed)))
	fmt.Fprintf(&b, "  Failed         %s\n", failStyle.Render(fmt.Sprintf("%d", s.Failed)))
	fmt.Fprintf(&b, "  Success rate   %.1f%%\n", s.SuccessRate)
	fmt.Fprintf(&b, "  Avg response   %.0f ms\n\n", s.AvgResponseMs)
	return b.String()
}

func (m Model) renderResults() string {
	results := m.activeResults()
	if len(results) == 0 {
		return mutedStyle.Render("  No endpoints in this category.") + "\n\n"
	}

	var b strings.Builder
	for i, res := range results {
		marker := "  "
		line := m.resultLine(res)
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")

		if m.view.Expanded(report.CollapsibleID(res.Endpoint.ID())) {
			b.WriteString(detailStyle.Render(m.resultDetail(res)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) resultLine(res engine.EndpointResult) string {
	verdict := passStyle.Render("PASS")
	if !res.Success {
		verdict = failStyle.Render("FAIL")
	}
	status := ""
	if res.Response != nil {
		status = fmt.Sprintf(" %d", res.Response.StatusCode)
	}
	return fmt.Sprintf("%s %-7s %s%s  %dms", verdict, res.Endpoint.Method, res.Endpoint.Path, status, res.Duration.Milliseconds())
}

func (m Model) resultDetail(res engine.EndpointResult) string {
	var b strings.Builder
	if res.Endpoint.Summary != "" {
		b.WriteString(res.Endpoint.Summary + "\n")
	}
	if res.Error != "" {
		b.WriteString(failStyle.Render("error: ") + res.Error + "\n")
	}
	for _, v := range res.Validations {
		mark := passStyle.Render("✓")
		if !v.Valid {
			mark = failStyle.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s", mark, v.Name)
		if v.Message != "" {
			b.WriteString(mutedStyle.Render(" - " + v.Message))
		}
		b.WriteString("\n")
		for _, issue := range v.Errors {
			b.WriteString("    " + failStyle.Render(issue.Message))
			if issue.Path != "" {
				b.WriteString(mutedStyle.Render(" at " + issue.Path))
			}
			b.WriteString("\n")
		}
		for _, issue := range v.Warnings {
			b.WriteString("    " + mutedStyle.Render("warning: "+issue.Message) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run starts the viewer and blocks until the user quits.
func Run(data report.Data) error {
	_, err := tea.NewProgram(NewModel(data), tea.WithAltScreen()).Run()
	return err
}
