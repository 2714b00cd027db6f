package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitloom/suitloom-backend/internal/catalog"
)

func newTestSession(t *testing.T) (*Session, *catalog.Catalog) {
	t.Helper()
	c := catalog.Default()
	return NewSession("test-session", c), c
}

func TestNewSession_Defaults(t *testing.T) {
	s, c := newTestSession(t)

	require.Len(t, s.Presets, PresetCount)
	assert.Equal(t, 0, s.ActivePreset)
	assert.Equal(t, NoPreviewOwner, s.PreviewOwner)
	assert.Equal(t, ViewConfigure, s.ViewMode)
	assert.Equal(t, PhotoIdle, s.PhotoState)
	assert.Equal(t, "룩 1", s.Presets[0].Name)

	// 모든 프리셋이 카탈로그 기본 선택으로 시작
	defaults := DefaultSelectionState(c)
	for _, p := range s.Presets {
		assert.Equal(t, defaults, p.Selections)
		assert.Empty(t, p.PreviewURL)
	}
}

func TestSession_Select_AutoSavesIntoActivePreset(t *testing.T) {
	s, c := newTestSession(t)

	peak, _ := c.OptionByID(catalog.CategoryJacket, "jacket-lapel-peak")
	s.Select(catalog.CategoryJacket, "lapel", peak)

	saved, ok := s.Presets[0].Selections.Selected(catalog.CategoryJacket, "lapel")
	require.True(t, ok)
	assert.Equal(t, "jacket-lapel-peak", saved.ID)
}

func TestSession_PresetIsolation(t *testing.T) {
	s, c := newTestSession(t)

	// 프리셋 1 활성화 후 변경
	require.NoError(t, s.ApplyPreset(1))
	peak, _ := c.OptionByID(catalog.CategoryJacket, "jacket-lapel-peak")
	s.Select(catalog.CategoryJacket, "lapel", peak)

	preset1Lapel, _ := s.Presets[1].Selections.Selected(catalog.CategoryJacket, "lapel")
	require.Equal(t, "jacket-lapel-peak", preset1Lapel.ID)

	// 프리셋 0으로 돌아가 변경해도 프리셋 1은 그대로
	require.NoError(t, s.ApplyPreset(0))
	shawl, _ := c.OptionByID(catalog.CategoryJacket, "jacket-lapel-shawl")
	s.Select(catalog.CategoryJacket, "lapel", shawl)

	preset1Lapel, _ = s.Presets[1].Selections.Selected(catalog.CategoryJacket, "lapel")
	assert.Equal(t, "jacket-lapel-peak", preset1Lapel.ID)
	preset2Lapel, _ := s.Presets[2].Selections.Selected(catalog.CategoryJacket, "lapel")
	assert.Equal(t, "jacket-lapel-notch", preset2Lapel.ID)
}

func TestSession_ApplyPreset_DoesNotWriteBack(t *testing.T) {
	s, c := newTestSession(t)

	peak, _ := c.OptionByID(catalog.CategoryJacket, "jacket-lapel-peak")
	s.Select(catalog.CategoryJacket, "lapel", peak)

	// 프리셋 1 적용: 프리셋 0의 저장본은 그대로, 라이브 상태만 교체
	require.NoError(t, s.ApplyPreset(1))

	preset0Lapel, _ := s.Presets[0].Selections.Selected(catalog.CategoryJacket, "lapel")
	assert.Equal(t, "jacket-lapel-peak", preset0Lapel.ID)
	liveLapel, _ := s.Selections.Selected(catalog.CategoryJacket, "lapel")
	assert.Equal(t, "jacket-lapel-notch", liveLapel.ID)
}

func TestSession_ApplyPreset_SwitchesToConfigureView(t *testing.T) {
	s, _ := newTestSession(t)

	s.ViewMode = ViewSummary
	require.NoError(t, s.ApplyPreset(2))
	assert.Equal(t, ViewConfigure, s.ViewMode)
	assert.Equal(t, 2, s.ActivePreset)
}

func TestSession_ApplyPreset_OutOfRange(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Error(t, s.ApplyPreset(-1))
	assert.Error(t, s.ApplyPreset(PresetCount))
}

func TestSession_ApplyPreset_DeepCopiesSnapshot(t *testing.T) {
	s, c := newTestSession(t)

	require.NoError(t, s.ApplyPreset(1))
	peak, _ := c.OptionByID(catalog.CategoryJacket, "jacket-lapel-peak")
	// 라이브 상태를 프리셋 적용 없이 직접 변경
	s.Selections.Select(catalog.CategoryJacket, "lapel", peak)

	stored, _ := s.Presets[1].Selections.Selected(catalog.CategoryJacket, "lapel")
	assert.Equal(t, "jacket-lapel-notch", stored.ID)
}

func TestSession_CurrentPreview_OwnershipRule(t *testing.T) {
	s, _ := newTestSession(t)

	s.Presets[0].PreviewURL = "/uploads/preview-0.jpg"
	s.PreviewOwner = 0
	assert.Equal(t, "/uploads/preview-0.jpg", s.CurrentPreview())

	// 소유자가 아닌 프리셋으로 전환하면 미리보기 없음
	require.NoError(t, s.ApplyPreset(1))
	assert.Empty(t, s.CurrentPreview())
}

func TestSession_PreviewRaceAnchoring(t *testing.T) {
	s, _ := newTestSession(t)

	// 프리셋 0에서 미리보기 요청 시점의 상태 캡처
	requestPreset := s.ActivePreset
	snapshot := s.Selections.Clone()

	// 응답 도착 전에 프리셋 1로 전환
	require.NoError(t, s.ApplyPreset(1))

	s.ApplyPreviewResult(requestPreset, snapshot, "/uploads/result.jpg")

	// 결과는 요청 시점 프리셋(0)에 기록됨
	assert.Equal(t, "/uploads/result.jpg", s.Presets[0].PreviewURL)
	// 현재 활성 프리셋(1)의 표시 미리보기는 변하지 않음
	assert.Empty(t, s.Presets[1].PreviewURL)
	assert.Empty(t, s.CurrentPreview())
	assert.Equal(t, NoPreviewOwner, s.PreviewOwner)
}

func TestSession_PreviewResult_VisibleWhenStillActive(t *testing.T) {
	s, _ := newTestSession(t)

	s.ApplyPreviewResult(s.ActivePreset, s.Selections.Clone(), "/uploads/result.jpg")
	assert.Equal(t, "/uploads/result.jpg", s.CurrentPreview())
	assert.Equal(t, 0, s.PreviewOwner)
}

func TestSession_ApplyUploadResult_AnchoredToUploadTimePreset(t *testing.T) {
	s, _ := newTestSession(t)

	captured := s.ActivePreset
	require.NoError(t, s.ApplyPreset(2))

	s.ApplyUploadResult(captured, "/uploads/user.jpg")

	assert.Equal(t, "/uploads/user.jpg", s.Presets[captured].PreviewURL)
	assert.Empty(t, s.Presets[2].PreviewURL)
}
