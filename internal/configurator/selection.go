package configurator

import (
	"github.com/suitloom/suitloom-backend/internal/catalog"
)

// SelectionState maps category -> group key -> chosen option.
// At most one option per (category, group); a missing key means the group
// is unselected. Placeholder options like "베스트 없음" are real selections
// and are not the same as an absent key.
type SelectionState map[catalog.Category]map[string]catalog.Option

// NewSelectionState returns an empty selection state.
func NewSelectionState() SelectionState {
	return make(SelectionState)
}

// DefaultSelectionState resolves the catalog defaults for every category.
func DefaultSelectionState(c *catalog.Catalog) SelectionState {
	state := NewSelectionState()
	for _, category := range c.Categories() {
		defaults := c.DefaultSelectionFor(category)
		if len(defaults) == 0 {
			continue
		}
		state[category] = defaults
	}
	return state
}

// Select sets the option for (category, group). Re-selecting the same
// option is idempotent; toggling off is Deselect, decided by the caller.
func (s SelectionState) Select(category catalog.Category, group string, option catalog.Option) {
	groups, ok := s[category]
	if !ok {
		groups = make(map[string]catalog.Option)
		s[category] = groups
	}
	groups[group] = option
}

// Deselect removes exactly the (category, group) entry, reverting that
// group to unselected. Other groups are untouched.
func (s SelectionState) Deselect(category catalog.Category, group string) {
	groups, ok := s[category]
	if !ok {
		return
	}
	delete(groups, group)
	if len(groups) == 0 {
		delete(s, category)
	}
}

// Selected returns the chosen option for (category, group), if any.
func (s SelectionState) Selected(category catalog.Category, group string) (catalog.Option, bool) {
	groups, ok := s[category]
	if !ok {
		return catalog.Option{}, false
	}
	opt, ok := groups[group]
	return opt, ok
}

// Clone returns a deep copy. Presets and the live state must never share
// map references, so every boundary crossing goes through Clone.
func (s SelectionState) Clone() SelectionState {
	out := make(SelectionState, len(s))
	for category, groups := range s {
		cloned := make(map[string]catalog.Option, len(groups))
		for group, opt := range groups {
			cloned[group] = opt
		}
		out[category] = cloned
	}
	return out
}

// Count returns the number of selected (category, group) entries.
func (s SelectionState) Count() int {
	n := 0
	for _, groups := range s {
		n += len(groups)
	}
	return n
}

// FlatSelection is one compositing instruction sent to the remote service.
type FlatSelection struct {
	Category string  `json:"category"`
	Group    *string `json:"group"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
}

// Flatten serializes the state into an ordered instruction list. Iteration
// follows catalog declaration order for categories and groups, so the wire
// payload is deterministic regardless of map iteration order.
func Flatten(c *catalog.Catalog, s SelectionState) []FlatSelection {
	var out []FlatSelection
	for _, category := range c.Categories() {
		groups, ok := s[category]
		if !ok {
			continue
		}
		for _, group := range c.GroupsOf(category) {
			opt, ok := groups[group]
			if !ok {
				continue
			}
			flat := FlatSelection{
				Category: string(category),
				Title:    opt.Title,
				Subtitle: opt.Subtitle,
			}
			if group != catalog.DefaultGroup {
				g := group
				flat.Group = &g
			}
			out = append(out, flat)
		}
	}
	return out
}
