package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/report"
	"github.com/ziadkadry99/apivet/internal/spec"
	"github.com/ziadkadry99/apivet/internal/validator"
)

func testData() report.Data {
	results := []engine.EndpointResult{
		{
			Endpoint: spec.Endpoint{Method: "GET", Path: "/users", Summary: "List users"},
			Success:  true,
			Validations: []validator.Result{
				{Name: "status_code", Valid: true},
			},
			Response: &engine.ResponseDetails{StatusCode: 200},
			Duration: 12 * time.Millisecond,
		},
		{
			Endpoint: spec.Endpoint{Method: "GET", Path: "/broken"},
			Success:  false,
			Validations: []validator.Result{
				{Name: "schema", Valid: false, Message: "schema validation failed",
					Errors: []validator.Issue{{Message: "got string, want integer", Path: "/id"}}},
			},
			Response: &engine.ResponseDetails{StatusCode: 200},
			Duration: 30 * time.Millisecond,
		},
	}
	return report.Data{
		Title:       "test run",
		GeneratedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		SpecInfo:    spec.Info{Title: "Demo API", Version: "1.0.0"},
		Summary:     engine.Summarize(results),
		Results:     results,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestInitialTabIsSummary(t *testing.T) {
	m := NewModel(testData())
	if got := m.ActiveTab(); got != "summary" {
		t.Fatalf("initial tab = %q, want summary", got)
	}
	if !strings.Contains(m.View(), "Success rate") {
		t.Fatalf("summary view missing success rate:\n%s", m.View())
	}
}

func TestTabCyclingIsExclusive(t *testing.T) {
	m := NewModel(testData())

	m = press(t, m, "tab")
	if got := m.ActiveTab(); got != "passed" {
		t.Fatalf("after tab: active = %q, want passed", got)
	}

	m = press(t, m, "tab", "tab")
	if got := m.ActiveTab(); got != "summary" {
		t.Fatalf("cycle did not wrap, active = %q", got)
	}

	m = press(t, m, "shift+tab")
	if got := m.ActiveTab(); got != "failed" {
		t.Fatalf("reverse cycle: active = %q, want failed", got)
	}
}

func TestDirectTabSelection(t *testing.T) {
	m := press(t, NewModel(testData()), "3")
	if got := m.ActiveTab(); got != "failed" {
		t.Fatalf("after 3: active = %q, want failed", got)
	}
	if !strings.Contains(m.View(), "/broken") {
		t.Fatalf("failed tab does not list failing endpoint:\n%s", m.View())
	}
	if strings.Contains(m.View(), "/users ") {
		t.Fatalf("failed tab should not list passing endpoint")
	}

	// Out-of-range digit leaves the tab unchanged.
	before := m.ActiveTab()
	m = press(t, m, "9")
	if m.ActiveTab() != before {
		t.Fatalf("unknown tab digit changed active tab")
	}
}

func TestEnterTogglesDetail(t *testing.T) {
	m := press(t, NewModel(testData()), "3")

	if strings.Contains(m.View(), "got string, want integer") {
		t.Fatalf("detail shown before toggle")
	}

	m = press(t, m, "enter")
	if !strings.Contains(m.View(), "got string, want integer") {
		t.Fatalf("detail not shown after toggle:\n%s", m.View())
	}

	// Toggling twice restores the folded state.
	m = press(t, m, "enter")
	if strings.Contains(m.View(), "got string, want integer") {
		t.Fatalf("detail still shown after second toggle")
	}
}

func TestToggleIsIndependentAcrossResults(t *testing.T) {
	m := press(t, NewModel(testData()), "2", "enter")
	if !strings.Contains(m.View(), "List users") {
		t.Fatalf("passed detail not shown after toggle")
	}

	// The failed endpoint's fold is untouched.
	m = press(t, m, "3")
	if strings.Contains(m.View(), "got string, want integer") {
		t.Fatalf("unrelated section expanded")
	}
}

func TestCursorMovementClamps(t *testing.T) {
	m := press(t, NewModel(testData()), "2")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after tab switch, want 0", m.cursor)
	}

	m = press(t, m, "down", "down", "down")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 for single-result tab", m.cursor)
	}
	m = press(t, m, "up")
	if m.cursor != 0 {
		t.Fatalf("cursor went negative: %d", m.cursor)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(testData())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("q did not produce a quit command")
	}
}
