// Package viewstate holds the visibility state behind the report surfaces:
// mutually exclusive tab panels and independently foldable sections. The
// state lives in an explicit registry owned by a Controller rather than in
// whatever view happens to render it, so the TUI viewer and the HTML
// reporter share one model.
package viewstate

import (
	"fmt"
	"sort"
)

// ErrUnknownTab is returned when a tab selection names a panel that was
// never registered. The group is left untouched.
var ErrUnknownTab = fmt.Errorf("viewstate: unknown tab")

// ErrUnknownGroup is returned when an operation names a tab group that was
// never registered.
var ErrUnknownGroup = fmt.Errorf("viewstate: unknown tab group")

// ErrUnknownCollapsible is returned when a toggle names a collapsible that
// was never registered.
var ErrUnknownCollapsible = fmt.Errorf("viewstate: unknown collapsible")

// tabGroup tracks a set of panels of which at most one is active.
type tabGroup struct {
	panels []string
	active string // "" means no panel is active
}

// collapsible is an independent expanded/collapsed flag. Collapsed is the
// initial state.
type collapsible struct {
	expanded bool
}

// Controller owns all tab groups and collapsibles declared for one view.
// Elements are registered up front; nothing is discovered at toggle time.
// Controller is not safe for concurrent use; both consumers (the bubbletea
// loop and the reporter) drive it from a single goroutine.
type Controller struct {
	groups       map[string]*tabGroup
	collapsibles map[string]*collapsible
}

// NewController returns an empty Controller.
func NewController() *Controller {
	return &Controller{
		groups:       make(map[string]*tabGroup),
		collapsibles: make(map[string]*collapsible),
	}
}

// AddTabGroup registers a tab group with the given panels. The first panel
// becomes active; with no panels the group starts with nothing active.
// Registering an existing group replaces it.
func (c *Controller) AddTabGroup(group string, panels ...string) {
	g := &tabGroup{panels: append([]string(nil), panels...)}
	if len(g.panels) > 0 {
		g.active = g.panels[0]
	}
	c.groups[group] = g
}

// AddCollapsible registers a collapsible in the collapsed state.
func (c *Controller) AddCollapsible(id string) {
	c.collapsibles[id] = &collapsible{}
}

// SelectTab activates exactly the named panel in the group, deactivating
// every other panel. An unknown panel returns ErrUnknownTab and changes
// nothing, so a failed selection never leaves the group with no active
// panel.
func (c *Controller) SelectTab(group, panel string) error {
	g, ok := c.groups[group]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	for _, p := range g.panels {
		if p == panel {
			g.active = panel
			return nil
		}
	}
	return fmt.Errorf("%w: %q in group %q", ErrUnknownTab, panel, group)
}

// ActiveTab returns the active panel of the group, or "" when the group has
// no panels.
func (c *Controller) ActiveTab(group string) string {
	g, ok := c.groups[group]
	if !ok {
		return ""
	}
	return g.active
}

// Panels returns the group's panels in registration order.
func (c *Controller) Panels(group string) []string {
	g, ok := c.groups[group]
	if !ok {
		return nil
	}
	return append([]string(nil), g.panels...)
}

// CycleTab activates the panel delta steps from the current one, wrapping
// around the group. It is a convenience for keyboard-driven views.
func (c *Controller) CycleTab(group string, delta int) error {
	g, ok := c.groups[group]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if len(g.panels) == 0 {
		return nil
	}
	cur := 0
	for i, p := range g.panels {
		if p == g.active {
			cur = i
			break
		}
	}
	n := len(g.panels)
	g.active = g.panels[((cur+delta)%n+n)%n]
	return nil
}

// Toggle flips the named collapsible between collapsed and expanded. Two
// consecutive calls restore the original state, and no other collapsible is
// affected.
func (c *Controller) Toggle(id string) error {
	col, ok := c.collapsibles[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollapsible, id)
	}
	col.expanded = !col.expanded
	return nil
}

// Expanded reports whether the named collapsible is expanded. Unregistered
// ids report false, matching the collapsed initial state.
func (c *Controller) Expanded(id string) bool {
	col, ok := c.collapsibles[id]
	if !ok {
		return false
	}
	return col.expanded
}

// Collapsibles returns the registered collapsible ids, sorted.
func (c *Controller) Collapsibles() []string {
	ids := make([]string, 0, len(c.collapsibles))
	for id := range c.collapsibles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
