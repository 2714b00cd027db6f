package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/internal/catalog"
	"github.com/suitloom/suitloom-backend/internal/configurator"
	"github.com/suitloom/suitloom-backend/internal/storage"
	"github.com/suitloom/suitloom-backend/internal/websocket"
	"github.com/suitloom/suitloom-backend/pkg/imagepipe"
	"github.com/suitloom/suitloom-backend/pkg/imageproc"
	"github.com/suitloom/suitloom-backend/pkg/logger"
	redisstore "github.com/suitloom/suitloom-backend/pkg/redis"
)

var (
	ErrUnknownCategory  = errors.New("unknown catalog category")
	ErrUnknownOption    = errors.New("unknown catalog option")
	ErrUnknownGroup     = errors.New("unknown option group")
	ErrPresetOutOfRange = errors.New("preset index out of range")
	ErrPhotoRequired    = errors.New("photo required before preview")
	ErrInvalidPhoto     = errors.New("photo could not be decoded")
	ErrUploadInFlight   = errors.New("photo upload already in progress")
	ErrPreviewInFlight  = errors.New("preview generation already in progress")
	ErrInvalidViewMode  = errors.New("unknown view mode")
)

// StateView is the client-facing projection of a session. Everything the
// storefront needs to render comes from one payload.
type StateView struct {
	SessionID      string                      `json:"sessionId"`
	ActiveTab      catalog.Category            `json:"activeTab"`
	ActiveGroups   map[catalog.Category]string `json:"activeGroups"`
	ViewMode       configurator.ViewMode       `json:"viewMode"`
	Selections     configurator.SelectionState `json:"selections"`
	Presets        []PresetView                `json:"presets"`
	ActivePreset   int                         `json:"activePreset"`
	CurrentPreview string                      `json:"currentPreview"` // 빈 문자열 = 아직 미리보기 없음
	Photo          configurator.PhotoVariants  `json:"photo"`
	PhotoState     configurator.PhotoState     `json:"photoState"`
	PreviewPending bool                        `json:"previewPending"`
	UploadPending  bool                        `json:"uploadPending"`
}

// PresetView summarizes one preset for the preset bank UI.
type PresetView struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	PreviewURL     string `json:"previewUrl"`
	SelectionCount int    `json:"selectionCount"`
}

// SummaryEntry is one flattened selection line on the summary screen.
type SummaryEntry struct {
	Category catalog.Category             `json:"category"`
	Items    []configurator.FlatSelection `json:"items"`
}

// SummaryView is the read model of the final confirmation screen.
type SummaryView struct {
	Entries      []SummaryEntry    `json:"entries"`
	PreviewURL   string            `json:"previewUrl"`
	PhotoState   string            `json:"photoState"`
	Measurements map[string]string `json:"measurements,omitempty"`
}

// OrderDraft carries everything the order service needs from a session
// at submission time.
type OrderDraft struct {
	SelectionsJSON    string
	MeasurementsJSON  string
	SelectionCount    int
	PreviewURL        string
	OriginalUpload    string
	BackgroundPreview string
}

type ConfiguratorService interface {
	State(ctx context.Context, sessionID string) (*StateView, error)
	Select(ctx context.Context, sessionID string, category catalog.Category, optionID string) (*StateView, error)
	Deselect(ctx context.Context, sessionID string, category catalog.Category, group string) (*StateView, error)
	SetActiveTab(ctx context.Context, sessionID string, category catalog.Category) (*StateView, error)
	SetActiveGroup(ctx context.Context, sessionID string, category catalog.Category, group string) (*StateView, error)
	SetViewMode(ctx context.Context, sessionID string, mode configurator.ViewMode) (*StateView, error)
	ApplyPreset(ctx context.Context, sessionID string, index int) (*StateView, error)
	UploadPhoto(ctx context.Context, sessionID string, data []byte) (*StateView, error)
	GeneratePreview(ctx context.Context, sessionID string) (*StateView, error)
	Summary(ctx context.Context, sessionID string) (*SummaryView, error)
	SaveMeasurements(ctx context.Context, sessionID string, fields map[string]string) error
	Measurements(ctx context.Context, sessionID string) (map[string]string, error)
	Draft(ctx context.Context, sessionID string) (*OrderDraft, error)
	Clear(ctx context.Context, sessionID string) error
}

type configuratorService struct {
	catalog         *catalog.Catalog
	snapshotRepo    repository.SnapshotRepository
	measurementRepo repository.MeasurementRepository
	mirrors         redisstore.MirrorStore
	pipeline        *imagepipe.Client
	store           storage.Storage
	hub             *websocket.Hub
	summaryVisible  map[catalog.Category]bool // 빈 맵 = 전체 카테고리 표시

	mu       sync.Mutex
	sessions map[string]*configurator.Session
}

func NewConfiguratorService(
	cat *catalog.Catalog,
	snapshotRepo repository.SnapshotRepository,
	measurementRepo repository.MeasurementRepository,
	mirrors redisstore.MirrorStore,
	pipeline *imagepipe.Client,
	store storage.Storage,
	hub *websocket.Hub,
	summaryCategories ...string,
) ConfiguratorService {
	visible := make(map[catalog.Category]bool, len(summaryCategories))
	for _, c := range summaryCategories {
		visible[catalog.Category(c)] = true
	}
	return &configuratorService{
		catalog:         cat,
		snapshotRepo:    snapshotRepo,
		measurementRepo: measurementRepo,
		mirrors:         mirrors,
		pipeline:        pipeline,
		store:           store,
		hub:             hub,
		summaryVisible:  visible,
		sessions:        make(map[string]*configurator.Session),
	}
}

// session returns the cached session for the ID, rehydrating it from the
// durable snapshot and the preview mirror on first touch. Rehydration is
// best effort: a missing or unreadable snapshot yields a fresh session,
// never an error.
func (s *configuratorService) session(ctx context.Context, sessionID string) *configurator.Session {
	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return sess
	}
	sess := configurator.NewSession(sessionID, s.catalog)
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	snapshot, err := s.snapshotRepo.Load(sessionID)
	if err == nil {
		sess.Restore([]byte(snapshot.Payload), s.catalog)
		logger.Debug("Session restored from durable snapshot", map[string]interface{}{
			"session_id":    sessionID,
			"active_preset": sess.ActivePreset,
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("Durable snapshot unavailable, starting fresh", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	// 미러 채널이 더 신선하므로 미리보기는 미러가 우선한다
	var mirror configurator.PreviewMirror
	found, err := s.mirrors.Load(ctx, sessionID, &mirror)
	if err != nil {
		logger.Warn("Preview mirror unavailable", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	if found {
		if mirror.Owner >= configurator.NoPreviewOwner && mirror.Owner < len(sess.Presets) {
			sess.PreviewOwner = mirror.Owner
		}
		sess.RestorePreview(mirror.PreviewURL)
	}

	sess.Hydrated = true
	return sess
}

// persist writes both channels. Persistence never fails a user action;
// failures are logged and the in-memory session stays authoritative.
// Caller holds the session lock.
func (s *configuratorService) persist(ctx context.Context, sess *configurator.Session) {
	if !sess.Hydrated {
		return
	}

	payload, err := json.Marshal(sess.Snapshot())
	if err != nil {
		logger.Error("Failed to marshal session snapshot", err, map[string]interface{}{
			"session_id": sess.ID,
		})
		return
	}
	if err := s.snapshotRepo.Save(sess.ID, string(payload)); err != nil {
		logger.Error("Failed to persist durable snapshot", err, map[string]interface{}{
			"session_id": sess.ID,
		})
	}

	if err := s.mirrors.Save(ctx, sess.ID, sess.Mirror()); err != nil {
		logger.Error("Failed to persist preview mirror", err, map[string]interface{}{
			"session_id": sess.ID,
		})
	}
}

// view builds the client projection. Caller holds the session lock.
func (s *configuratorService) view(sess *configurator.Session) *StateView {
	presets := make([]PresetView, len(sess.Presets))
	for i, p := range sess.Presets {
		presets[i] = PresetView{
			ID:             p.ID,
			Name:           p.Name,
			PreviewURL:     p.PreviewURL,
			SelectionCount: p.Selections.Count(),
		}
	}

	groups := make(map[catalog.Category]string, len(sess.ActiveGroups))
	for k, v := range sess.ActiveGroups {
		groups[k] = v
	}

	return &StateView{
		SessionID:      sess.ID,
		ActiveTab:      sess.ActiveTab,
		ActiveGroups:   groups,
		ViewMode:       sess.ViewMode,
		Selections:     sess.Selections.Clone(),
		Presets:        presets,
		ActivePreset:   sess.ActivePreset,
		CurrentPreview: sess.CurrentPreview(),
		Photo:          sess.Photo,
		PhotoState:     sess.PhotoState,
		PreviewPending: sess.PreviewInFlight,
		UploadPending:  sess.UploadInFlight,
	}
}

func (s *configuratorService) State(ctx context.Context, sessionID string) (*StateView, error) {
	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return s.view(sess), nil
}

func (s *configuratorService) Select(ctx context.Context, sessionID string, category catalog.Category, optionID string) (*StateView, error) {
	if !s.catalog.HasCategory(category) {
		return nil, ErrUnknownCategory
	}
	option, ok := s.catalog.OptionByID(category, optionID)
	if !ok {
		return nil, ErrUnknownOption
	}

	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.Select(category, option.GroupKey(), option)
	s.persist(ctx, sess)

	logger.Debug("Selection applied", map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"group":      option.GroupKey(),
		"option_id":  option.ID,
	})
	return s.view(sess), nil
}

func (s *configuratorService) Deselect(ctx context.Context, sessionID string, category catalog.Category, group string) (*StateView, error) {
	if !s.catalog.HasCategory(category) {
		return nil, ErrUnknownCategory
	}

	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.Deselect(category, group)
	s.persist(ctx, sess)

	logger.Debug("Selection removed", map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"group":      group,
	})
	return s.view(sess), nil
}

func (s *configuratorService) SetActiveTab(ctx context.Context, sessionID string, category catalog.Category) (*StateView, error) {
	if !s.catalog.HasCategory(category) {
		return nil, ErrUnknownCategory
	}

	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.ActiveTab = category
	s.persist(ctx, sess)
	return s.view(sess), nil
}

func (s *configuratorService) SetActiveGroup(ctx context.Context, sessionID string, category catalog.Category, group string) (*StateView, error) {
	if !s.catalog.HasCategory(category) {
		return nil, ErrUnknownCategory
	}
	known := false
	for _, g := range s.catalog.GroupsOf(category) {
		if g == group {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrUnknownGroup
	}

	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.ActiveGroups[category] = group
	s.persist(ctx, sess)
	return s.view(sess), nil
}

func (s *configuratorService) SetViewMode(ctx context.Context, sessionID string, mode configurator.ViewMode) (*StateView, error) {
	if mode != configurator.ViewConfigure && mode != configurator.ViewSummary {
		return nil, ErrInvalidViewMode
	}

	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.ViewMode = mode
	s.persist(ctx, sess)
	return s.view(sess), nil
}

func (s *configuratorService) ApplyPreset(ctx context.Context, sessionID string, index int) (*StateView, error) {
	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if err := sess.ApplyPreset(index); err != nil {
		return nil, ErrPresetOutOfRange
	}
	s.persist(ctx, sess)

	logger.Info("Preset applied", map[string]interface{}{
		"session_id": sessionID,
		"preset":     index,
	})
	return s.view(sess), nil
}

// UploadPhoto runs the full photo pipeline: normalize, store, remove
// background. The session lock is released around every remote call, so
// the preset index is captured up front and the result is anchored to
// that preset no matter what the user did in the meantime.
func (s *configuratorService) UploadPhoto(ctx context.Context, sessionID string, data []byte) (*StateView, error) {
	sess := s.session(ctx, sessionID)

	sess.Mu.Lock()
	if sess.UploadInFlight {
		sess.Mu.Unlock()
		return nil, ErrUploadInFlight
	}
	sess.UploadInFlight = true
	sess.PhotoState = configurator.PhotoNormalizing
	presetAtUpload := sess.ActivePreset
	sess.Mu.Unlock()

	s.publishPhotoState(sessionID, configurator.PhotoNormalizing)

	normalized, err := imageproc.Normalize(data)
	if err != nil {
		s.failUpload(ctx, sess)
		logger.Warn("Photo normalization failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, ErrInvalidPhoto
	}

	originalURL, err := s.store.Put(ctx, "photos", ".jpg", "image/jpeg", normalized)
	if err != nil {
		s.failUpload(ctx, sess)
		logger.Error("Failed to store normalized photo", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	sess.Mu.Lock()
	sess.Photo.OriginalUpload = originalURL
	sess.PhotoState = configurator.PhotoRemovingBG
	sess.Mu.Unlock()

	s.publishPhotoState(sessionID, configurator.PhotoRemovingBG)

	// 배경 제거 실패는 치명적이지 않다: 정규화된 원본으로 대체
	userImage := originalURL
	finalState := configurator.PhotoReadyWithOriginal
	backgroundPreview := ""

	resp, err := s.pipeline.RemoveBackground(ctx, imagepipe.RemoveBackgroundRequest{
		UserImage: imageproc.DataURI(normalized),
	})
	if err != nil {
		logger.Warn("Background removal failed, keeping original photo", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	} else if ref := resp.ImageURL; configurator.ValidImageRef(ref) {
		userImage = ref
		backgroundPreview = ref
		finalState = configurator.PhotoReady
	} else {
		logger.Warn("Background removal returned unusable image reference", map[string]interface{}{
			"session_id": sessionID,
		})
	}

	sess.Mu.Lock()
	sess.Photo.BackgroundPreview = backgroundPreview
	sess.Photo.UserImage = userImage
	sess.PhotoState = finalState
	sess.ApplyUploadResult(presetAtUpload, userImage)
	sess.UploadInFlight = false
	s.persist(ctx, sess)
	view := s.view(sess)
	sess.Mu.Unlock()

	s.publishPhotoState(sessionID, finalState)
	s.hub.Publish(websocket.Event{
		Type:       websocket.EventPreviewReady,
		SessionID:  sessionID,
		Preset:     presetAtUpload,
		PreviewURL: userImage,
	})

	logger.Info("Photo upload pipeline completed", map[string]interface{}{
		"session_id":  sessionID,
		"preset":      presetAtUpload,
		"photo_state": finalState,
	})
	return view, nil
}

func (s *configuratorService) failUpload(ctx context.Context, sess *configurator.Session) {
	sess.Mu.Lock()
	sess.PhotoState = configurator.PhotoIdle
	sess.UploadInFlight = false
	s.persist(ctx, sess)
	sess.Mu.Unlock()
	s.publishPhotoState(sess.ID, configurator.PhotoIdle)
}

func (s *configuratorService) publishPhotoState(sessionID string, state configurator.PhotoState) {
	s.hub.Publish(websocket.Event{
		Type:       websocket.EventPhotoState,
		SessionID:  sessionID,
		PhotoState: string(state),
	})
}

// GeneratePreview composites the current selections over the user photo.
// Request state is captured before the remote call: the result always
// lands on the preset that originated it, and becomes visible only if
// that preset is still active when it arrives.
func (s *configuratorService) GeneratePreview(ctx context.Context, sessionID string) (*StateView, error) {
	sess := s.session(ctx, sessionID)

	sess.Mu.Lock()
	if sess.PhotoState != configurator.PhotoReady && sess.PhotoState != configurator.PhotoReadyWithOriginal {
		sess.Mu.Unlock()
		return nil, ErrPhotoRequired
	}
	if sess.Photo.UserImage == "" {
		sess.Mu.Unlock()
		return nil, ErrPhotoRequired
	}
	if sess.PreviewInFlight {
		sess.Mu.Unlock()
		return nil, ErrPreviewInFlight
	}
	sess.PreviewInFlight = true
	requestPreset := sess.ActivePreset
	requestSelections := sess.Selections.Clone()
	userImage := sess.Photo.UserImage
	sess.Mu.Unlock()

	s.hub.Publish(websocket.Event{
		Type:      websocket.EventPreviewStarted,
		SessionID: sessionID,
		Preset:    requestPreset,
	})

	flat := configurator.Flatten(s.catalog, requestSelections)
	selections := make([]imagepipe.Selection, len(flat))
	for i, f := range flat {
		selections[i] = imagepipe.Selection{
			Category: string(f.Category),
			Group:    f.Group,
			Title:    f.Title,
			Subtitle: f.Subtitle,
		}
	}

	resp, err := s.pipeline.Compose(ctx, imagepipe.ComposeRequest{
		Selections: selections,
		UserImage:  userImage,
	})

	sess.Mu.Lock()
	sess.PreviewInFlight = false
	if err != nil {
		s.persist(ctx, sess)
		sess.Mu.Unlock()
		s.hub.Publish(websocket.Event{
			Type:      websocket.EventPreviewDiscarded,
			SessionID: sessionID,
			Preset:    requestPreset,
			Message:   "합성에 실패했습니다",
		})
		logger.Error("Preview compositing failed", err, map[string]interface{}{
			"session_id": sessionID,
			"preset":     requestPreset,
		})
		return nil, err
	}

	// 파이프라인이 돌려준 참조가 쓸 수 없는 값이면 대체 이미지로
	previewURL := configurator.SanitizeImageRef(resp.ImageURL)
	sess.ApplyPreviewResult(requestPreset, requestSelections, previewURL)
	s.persist(ctx, sess)
	view := s.view(sess)
	sess.Mu.Unlock()

	s.hub.Publish(websocket.Event{
		Type:       websocket.EventPreviewReady,
		SessionID:  sessionID,
		Preset:     requestPreset,
		PreviewURL: previewURL,
	})

	logger.Info("Preview generated", map[string]interface{}{
		"session_id": sessionID,
		"preset":     requestPreset,
	})
	return view, nil
}

func (s *configuratorService) Summary(ctx context.Context, sessionID string) (*SummaryView, error) {
	sess := s.session(ctx, sessionID)
	sess.Mu.Lock()
	flat := configurator.Flatten(s.catalog, sess.Selections)
	preview := sess.CurrentPreview()
	photoState := string(sess.PhotoState)
	sess.Mu.Unlock()

	byCategory := make(map[catalog.Category][]configurator.FlatSelection)
	for _, f := range flat {
		key := catalog.Category(f.Category)
		byCategory[key] = append(byCategory[key], f)
	}

	// 카탈로그 선언 순서 그대로, 선택이 있는 카테고리만.
	// 허용 목록이 설정되어 있으면 목록에 없는 카테고리는 요약에서 제외한다.
	entries := make([]SummaryEntry, 0, len(byCategory))
	for _, category := range s.catalog.Categories() {
		if len(s.summaryVisible) > 0 && !s.summaryVisible[category] {
			continue
		}
		if items, ok := byCategory[category]; ok {
			entries = append(entries, SummaryEntry{Category: category, Items: items})
		}
	}

	summary := &SummaryView{
		Entries:    entries,
		PreviewURL: preview,
		PhotoState: photoState,
	}

	if fields, err := s.Measurements(ctx, sessionID); err == nil && len(fields) > 0 {
		summary.Measurements = fields
	}
	return summary, nil
}

func (s *configuratorService) SaveMeasurements(ctx context.Context, sessionID string, fields map[string]string) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.measurementRepo.Save(sessionID, string(data))
}

func (s *configuratorService) Measurements(ctx context.Context, sessionID string) (map[string]string, error) {
	record, err := s.measurementRepo.Load(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(record.Fields), &fields); err != nil {
		logger.Warn("Discarding malformed measurement record", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return map[string]string{}, nil
	}
	return fields, nil
}

func (s *configuratorService) Draft(ctx context.Context, sessionID string) (*OrderDraft, error) {
	sess := s.session(ctx, sessionID)

	sess.Mu.Lock()
	flat := configurator.Flatten(s.catalog, sess.Selections)
	count := sess.Selections.Count()
	preview := sess.CurrentPreview()
	photo := sess.Photo
	sess.Mu.Unlock()

	selectionsJSON, err := json.Marshal(flat)
	if err != nil {
		return nil, err
	}

	measurementsJSON := ""
	if record, err := s.measurementRepo.Load(sessionID); err == nil {
		measurementsJSON = record.Fields
	}

	return &OrderDraft{
		SelectionsJSON:    string(selectionsJSON),
		MeasurementsJSON:  measurementsJSON,
		SelectionCount:    count,
		PreviewURL:        preview,
		OriginalUpload:    photo.OriginalUpload,
		BackgroundPreview: photo.BackgroundPreview,
	}, nil
}

// Clear wipes every persistence channel for the session and evicts it
// from the in-memory cache. Used after order submission and on explicit
// reset.
func (s *configuratorService) Clear(ctx context.Context, sessionID string) error {
	if err := s.snapshotRepo.Delete(sessionID); err != nil {
		return err
	}
	if err := s.measurementRepo.Delete(sessionID); err != nil {
		return err
	}
	if err := s.mirrors.Delete(ctx, sessionID); err != nil {
		logger.Warn("Failed to delete preview mirror", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.Info("Session cleared", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}
