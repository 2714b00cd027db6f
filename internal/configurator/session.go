package configurator

import (
	"fmt"
	"sync"

	"github.com/suitloom/suitloom-backend/internal/catalog"
)

// ViewMode 화면 모드
type ViewMode string

const (
	ViewConfigure ViewMode = "configure" // 옵션 선택 화면
	ViewSummary   ViewMode = "summary"   // 최종 확인 화면
)

// PhotoState 업로드 파이프라인 상태
type PhotoState string

const (
	PhotoIdle              PhotoState = "idle"
	PhotoNormalizing       PhotoState = "normalizing"
	PhotoRemovingBG        PhotoState = "removing_background"
	PhotoReady             PhotoState = "ready"               // 배경 제거 성공
	PhotoReadyWithOriginal PhotoState = "ready_with_original" // 배경 제거 실패, 원본 사용
)

// PresetCount 프리셋 수는 세션 수명 동안 고정
const PresetCount = 3

// NoPreviewOwner marks that no preset owns the visible preview.
const NoPreviewOwner = -1

// PhotoVariants tracks the three independently stored photo references.
// One photo serves all presets.
type PhotoVariants struct {
	OriginalUpload    string `json:"originalUpload"`    // 정규화 후, 배경 제거 전
	BackgroundPreview string `json:"backgroundPreview"` // 배경 제거 후
	UserImage         string `json:"userImage"`         // 합성에 실제 사용되는 변형
}

// Preset is a named snapshot of a full selection state with its own
// generated preview. Selections are deep-owned, never shared.
type Preset struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Selections SelectionState `json:"selections"`
	PreviewURL string         `json:"previewUrl"`
}

// Session holds the full configurator state for one client session.
// All mutation goes through the methods below while holding Mu; the
// service layer owns locking because remote calls happen between a
// capture and the apply of their result.
type Session struct {
	Mu sync.Mutex

	ID           string
	Selections   SelectionState
	Presets      []*Preset
	ActivePreset int
	PreviewOwner int
	Photo        PhotoVariants
	PhotoState   PhotoState
	ActiveTab    catalog.Category
	ActiveGroups map[catalog.Category]string
	ViewMode     ViewMode

	// single-flight guards; concurrent work is dropped, not queued
	PreviewInFlight bool
	UploadInFlight  bool

	// set once the first rehydration attempt finished; persistence
	// writes are suppressed until then
	Hydrated bool
}

// NewSession creates a fresh session: default selections, three presets
// initialized from the catalog defaults, preset 0 active, no preview.
func NewSession(id string, c *catalog.Catalog) *Session {
	defaults := DefaultSelectionState(c)

	presets := make([]*Preset, PresetCount)
	for i := range presets {
		presets[i] = &Preset{
			ID:         i,
			Name:       fmt.Sprintf("룩 %d", i+1),
			Selections: defaults.Clone(),
		}
	}

	var firstTab catalog.Category
	if cats := c.Categories(); len(cats) > 0 {
		firstTab = cats[0]
	}

	return &Session{
		ID:           id,
		Selections:   defaults.Clone(),
		Presets:      presets,
		ActivePreset: 0,
		PreviewOwner: NoPreviewOwner,
		PhotoState:   PhotoIdle,
		ActiveTab:    firstTab,
		ActiveGroups: make(map[catalog.Category]string),
		ViewMode:     ViewConfigure,
	}
}

// Select applies a user selection and writes it back into the active
// preset (auto-save: selection edits have no explicit save action).
func (s *Session) Select(category catalog.Category, group string, option catalog.Option) {
	s.Selections.Select(category, group, option)
	s.saveToActivePreset()
}

// Deselect removes a user selection and writes back into the active preset.
func (s *Session) Deselect(category catalog.Category, group string) {
	s.Selections.Deselect(category, group)
	s.saveToActivePreset()
}

// saveToActivePreset mirrors the live state into the active preset.
// Preset application never calls this: applying a preset replaces the
// live state directly, which is the structural replacement for the
// one-shot skip flag the storefront client used.
func (s *Session) saveToActivePreset() {
	s.Presets[s.ActivePreset].Selections = s.Selections.Clone()
}

// ApplyPreset activates the preset at index, replaces the live state
// with a deep copy of its snapshot, and returns to the configure view.
func (s *Session) ApplyPreset(index int) error {
	if index < 0 || index >= len(s.Presets) {
		return fmt.Errorf("preset index %d out of range", index)
	}
	s.ActivePreset = index
	s.Selections = s.Presets[index].Selections.Clone()
	s.ViewMode = ViewConfigure
	return nil
}

// CurrentPreview returns the active preset's preview URL only when that
// preset owns the visible preview; otherwise "" renders as "no preview yet".
func (s *Session) CurrentPreview() string {
	if s.PreviewOwner != s.ActivePreset {
		return ""
	}
	return s.Presets[s.ActivePreset].PreviewURL
}

// ApplyUploadResult records the image that became userImage as the live
// preview of the preset that was active when the upload started. The
// index is captured before any remote work, so a preset switch during
// background removal cannot corrupt another preset's preview.
func (s *Session) ApplyUploadResult(presetAtUpload int, userImage string) {
	if presetAtUpload < 0 || presetAtUpload >= len(s.Presets) {
		return
	}
	s.Presets[presetAtUpload].PreviewURL = userImage
	s.PreviewOwner = presetAtUpload
}

// ApplyPreviewResult writes a compositing result into the preset that
// originated the request, together with the selection snapshot captured
// at request time. The visible preview only changes when that preset is
// still the active one.
func (s *Session) ApplyPreviewResult(requestPreset int, snapshot SelectionState, previewURL string) {
	if requestPreset < 0 || requestPreset >= len(s.Presets) {
		return
	}
	preset := s.Presets[requestPreset]
	preset.Selections = snapshot.Clone()
	preset.PreviewURL = previewURL
	if s.ActivePreset == requestPreset {
		s.PreviewOwner = requestPreset
	}
}
