package configurator

import (
	"encoding/json"

	"github.com/suitloom/suitloom-backend/internal/catalog"
)

// Snapshot is the durable mirror of a session. Photo fields carry only
// storage URLs; raw data URIs stay transient to keep the durable channel
// small.
type Snapshot struct {
	ActiveTab    catalog.Category            `json:"activeTab"`
	ActiveGroups map[catalog.Category]string `json:"activeGroups"`
	Selections   SelectionState              `json:"selections"`
	Presets      []*Preset                   `json:"presets"`
	ActivePreset int                         `json:"activePreset"`
	PreviewOwner int                         `json:"previewOwner"`
	PreviewURL   string                      `json:"previewUrl"`
	Photo        PhotoVariants               `json:"photo"`
	PhotoState   PhotoState                  `json:"photoState"`
	ViewMode     ViewMode                    `json:"viewMode"`
}

// PreviewMirror is the lightweight payload of the volatile channel. The
// fast-changing preview is persisted at its own granularity so a failed
// restore of the big snapshot cannot take the preview down with it.
type PreviewMirror struct {
	PreviewURL string `json:"previewUrl"`
	Owner      int    `json:"owner"`
}

// Snapshot captures the persistable state of the session. Caller holds Mu.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveTab:    s.ActiveTab,
		ActiveGroups: make(map[catalog.Category]string, len(s.ActiveGroups)),
		Selections:   s.Selections.Clone(),
		Presets:      make([]*Preset, len(s.Presets)),
		ActivePreset: s.ActivePreset,
		PreviewOwner: s.PreviewOwner,
		Photo:        s.Photo,
		PhotoState:   s.PhotoState,
		ViewMode:     s.ViewMode,
	}
	for k, v := range s.ActiveGroups {
		snap.ActiveGroups[k] = v
	}
	for i, p := range s.Presets {
		snap.Presets[i] = &Preset{
			ID:         p.ID,
			Name:       p.Name,
			Selections: p.Selections.Clone(),
			PreviewURL: p.PreviewURL,
		}
	}
	if s.PreviewOwner >= 0 && s.PreviewOwner < len(s.Presets) {
		snap.PreviewURL = s.Presets[s.PreviewOwner].PreviewURL
	}
	return snap
}

// Mirror captures the volatile-channel payload. Caller holds Mu.
func (s *Session) Mirror() PreviewMirror {
	mirror := PreviewMirror{Owner: s.PreviewOwner}
	if s.PreviewOwner >= 0 && s.PreviewOwner < len(s.Presets) {
		mirror.PreviewURL = s.Presets[s.PreviewOwner].PreviewURL
	}
	return mirror
}

// Restore applies a raw snapshot payload field by field. Absent or
// malformed fields keep their freshly initialized defaults; nothing here
// ever fails the session. Caller holds Mu.
func (s *Session) Restore(raw []byte, c *catalog.Catalog) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}

	if v, ok := fields["activeTab"]; ok {
		var tab catalog.Category
		if json.Unmarshal(v, &tab) == nil && c.HasCategory(tab) {
			s.ActiveTab = tab
		}
	}

	if v, ok := fields["activeGroups"]; ok {
		var groups map[catalog.Category]string
		if json.Unmarshal(v, &groups) == nil {
			for category, group := range groups {
				if c.HasCategory(category) {
					s.ActiveGroups[category] = group
				}
			}
		}
	}

	if v, ok := fields["selections"]; ok {
		var sel SelectionState
		if json.Unmarshal(v, &sel) == nil {
			s.Selections = sanitizeSelections(sel, c)
		}
	}

	if v, ok := fields["presets"]; ok {
		var presets []*Preset
		if json.Unmarshal(v, &presets) == nil && len(presets) == len(s.Presets) {
			valid := true
			for _, p := range presets {
				if p == nil {
					valid = false
					break
				}
			}
			if valid {
				for i, p := range presets {
					p.ID = i
					if p.Name == "" {
						p.Name = s.Presets[i].Name
					}
					p.Selections = sanitizeSelections(p.Selections, c)
					s.Presets[i] = p
				}
			}
		}
	}

	if v, ok := fields["activePreset"]; ok {
		var idx int
		if json.Unmarshal(v, &idx) == nil && idx >= 0 && idx < len(s.Presets) {
			s.ActivePreset = idx
		}
	}

	if v, ok := fields["previewOwner"]; ok {
		var owner int
		if json.Unmarshal(v, &owner) == nil && owner >= NoPreviewOwner && owner < len(s.Presets) {
			s.PreviewOwner = owner
		}
	}

	if v, ok := fields["photo"]; ok {
		var photo PhotoVariants
		if json.Unmarshal(v, &photo) == nil {
			s.Photo = photo
		}
	}

	if v, ok := fields["photoState"]; ok {
		var state PhotoState
		if json.Unmarshal(v, &state) == nil {
			switch state {
			case PhotoIdle, PhotoReady, PhotoReadyWithOriginal:
				s.PhotoState = state
			default:
				// transient states are never restored
			}
		}
	}

	if v, ok := fields["viewMode"]; ok {
		var mode ViewMode
		if json.Unmarshal(v, &mode) == nil && (mode == ViewConfigure || mode == ViewSummary) {
			s.ViewMode = mode
		}
	}
}

// RestorePreview re-applies a remembered preview URL onto the owning
// preset. The mirror channel is fresher than the durable snapshot, so a
// non-empty preferred URL wins over whatever the snapshot restored.
func (s *Session) RestorePreview(preferred string) {
	if s.PreviewOwner < 0 || s.PreviewOwner >= len(s.Presets) {
		return
	}
	if preferred != "" {
		s.Presets[s.PreviewOwner].PreviewURL = preferred
	}
}

// sanitizeSelections drops categories the catalog does not declare and
// re-resolves every stored option against the catalog so stale entries
// cannot survive a catalog change.
func sanitizeSelections(sel SelectionState, c *catalog.Catalog) SelectionState {
	out := NewSelectionState()
	for category, groups := range sel {
		if !c.HasCategory(category) {
			continue
		}
		for group, opt := range groups {
			resolved, ok := c.OptionByID(category, opt.ID)
			if !ok || resolved.GroupKey() != group {
				continue
			}
			out.Select(category, group, resolved)
		}
	}
	return out
}
