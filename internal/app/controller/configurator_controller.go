package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/suitloom/suitloom-backend/internal/app/service"
	"github.com/suitloom/suitloom-backend/internal/catalog"
	"github.com/suitloom/suitloom-backend/internal/configurator"
	apperrors "github.com/suitloom/suitloom-backend/internal/errors"
	"github.com/suitloom/suitloom-backend/internal/middleware"
	"github.com/suitloom/suitloom-backend/internal/storage"
)

// 업로드 사진 최대 크기
const maxPhotoSize = 10 << 20 // 10MB

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ConfiguratorController struct {
	configuratorService service.ConfiguratorService
}

func NewConfiguratorController(configuratorService service.ConfiguratorService) *ConfiguratorController {
	return &ConfiguratorController{
		configuratorService: configuratorService,
	}
}

type SelectRequest struct {
	Category string `json:"category" binding:"required"`
	OptionID string `json:"option_id" binding:"required"`
}

type DeselectRequest struct {
	Category string `json:"category" binding:"required"`
	Group    string `json:"group" binding:"required"`
}

type ActiveTabRequest struct {
	Category string `json:"category" binding:"required"`
}

type ActiveGroupRequest struct {
	Category string `json:"category" binding:"required"`
	Group    string `json:"group" binding:"required"`
}

type ViewModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type MeasurementsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// respondConfigError maps configurator sentinel errors onto the error
// code taxonomy. Unmatched errors fall through to the generic parser.
func respondConfigError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrUnknownCategory):
		apperrors.BadRequest(c, apperrors.ConfigInvalidCategory, "존재하지 않는 카테고리입니다")
	case errors.Is(err, service.ErrUnknownOption):
		apperrors.BadRequest(c, apperrors.ConfigInvalidOption, "존재하지 않는 옵션입니다")
	case errors.Is(err, service.ErrUnknownGroup):
		apperrors.BadRequest(c, apperrors.ConfigInvalidOption, "존재하지 않는 옵션 그룹입니다")
	case errors.Is(err, service.ErrPresetOutOfRange):
		apperrors.BadRequest(c, apperrors.ConfigPresetOutOfRange, "프리셋 번호가 올바르지 않습니다")
	case errors.Is(err, service.ErrPhotoRequired):
		apperrors.BadRequest(c, apperrors.ConfigPhotoRequired, "먼저 사진을 업로드해주세요")
	case errors.Is(err, service.ErrPreviewInFlight):
		apperrors.Conflict(c, apperrors.ConfigPreviewInFlight, "미리보기를 생성하는 중입니다. 잠시만 기다려주세요")
	case errors.Is(err, service.ErrUploadInFlight):
		apperrors.Conflict(c, apperrors.ConfigUploadInFlight, "사진을 처리하는 중입니다. 잠시만 기다려주세요")
	case errors.Is(err, service.ErrInvalidPhoto):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "사진을 읽을 수 없습니다. 다른 사진으로 시도해주세요")
	case errors.Is(err, service.ErrInvalidViewMode):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "화면 모드가 올바르지 않습니다")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// GetState returns the full session state
// GET /api/v1/configurator/state
func (ctrl *ConfiguratorController) GetState(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	state, err := ctrl.configuratorService.State(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to load configurator state", err, map[string]interface{}{
			"session_id": sessionID,
		})
		respondConfigError(c, err, "get state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Select applies an option selection
// POST /api/v1/configurator/select
func (ctrl *ConfiguratorController) Select(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.Select(
		c.Request.Context(), sessionID, catalog.Category(req.Category), req.OptionID,
	)
	if err != nil {
		log.Warn("Selection rejected", map[string]interface{}{
			"session_id": sessionID,
			"category":   req.Category,
			"option_id":  req.OptionID,
			"error":      err.Error(),
		})
		respondConfigError(c, err, "select option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Deselect removes an option selection
// POST /api/v1/configurator/deselect
func (ctrl *ConfiguratorController) Deselect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req DeselectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.Deselect(
		c.Request.Context(), sessionID, catalog.Category(req.Category), req.Group,
	)
	if err != nil {
		log.Warn("Deselection rejected", map[string]interface{}{
			"session_id": sessionID,
			"category":   req.Category,
			"group":      req.Group,
			"error":      err.Error(),
		})
		respondConfigError(c, err, "deselect option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// SetActiveTab switches the active category tab
// PUT /api/v1/configurator/tab
func (ctrl *ConfiguratorController) SetActiveTab(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	var req ActiveTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.SetActiveTab(
		c.Request.Context(), sessionID, catalog.Category(req.Category),
	)
	if err != nil {
		respondConfigError(c, err, "set active tab")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// SetActiveGroup switches the expanded option group of a category
// PUT /api/v1/configurator/group
func (ctrl *ConfiguratorController) SetActiveGroup(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	var req ActiveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.SetActiveGroup(
		c.Request.Context(), sessionID, catalog.Category(req.Category), req.Group,
	)
	if err != nil {
		respondConfigError(c, err, "set active group")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// SetViewMode switches between the configure and summary screens
// PUT /api/v1/configurator/view
func (ctrl *ConfiguratorController) SetViewMode(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	var req ViewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.SetViewMode(
		c.Request.Context(), sessionID, configurator.ViewMode(req.Mode),
	)
	if err != nil {
		respondConfigError(c, err, "set view mode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ApplyPreset activates a preset
// POST /api/v1/configurator/presets/:index/apply
func (ctrl *ConfiguratorController) ApplyPreset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "프리셋 번호가 올바르지 않습니다")
		return
	}

	state, err := ctrl.configuratorService.ApplyPreset(c.Request.Context(), sessionID, index)
	if err != nil {
		log.Warn("Preset apply rejected", map[string]interface{}{
			"session_id": sessionID,
			"preset":     index,
			"error":      err.Error(),
		})
		respondConfigError(c, err, "apply preset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// UploadPhoto receives a user photo and runs the processing pipeline
// POST /api/v1/configurator/photo
func (ctrl *ConfiguratorController) UploadPhoto(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "사진 파일이 필요합니다")
		return
	}

	if err := storage.ValidateFileSize(fileHeader.Size, maxPhotoSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "사진은 10MB 이하만 업로드할 수 있습니다")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.ValidateContentType(contentType, allowedPhotoTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "JPEG, PNG, WebP 형식만 업로드할 수 있습니다")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded photo", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "사진 업로드에 실패했습니다")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		log.Error("Failed to read uploaded photo", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "사진 업로드에 실패했습니다")
		return
	}

	state, err := ctrl.configuratorService.UploadPhoto(c.Request.Context(), sessionID, data)
	if err != nil {
		log.Warn("Photo upload rejected", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		respondConfigError(c, err, "upload photo")
		return
	}

	log.Info("Photo uploaded", map[string]interface{}{
		"session_id":  sessionID,
		"photo_state": state.PhotoState,
	})

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// GeneratePreview requests a composite preview of the current selections
// POST /api/v1/configurator/preview
func (ctrl *ConfiguratorController) GeneratePreview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	state, err := ctrl.configuratorService.GeneratePreview(c.Request.Context(), sessionID)
	if err != nil {
		log.Warn("Preview generation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		respondConfigError(c, err, "generate preview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// GetSummary returns the final confirmation read model
// GET /api/v1/configurator/summary
func (ctrl *ConfiguratorController) GetSummary(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	summary, err := ctrl.configuratorService.Summary(c.Request.Context(), sessionID)
	if err != nil {
		respondConfigError(c, err, "get summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SaveMeasurements stores the measurement form
// PUT /api/v1/configurator/measurements
func (ctrl *ConfiguratorController) SaveMeasurements(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	var req MeasurementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.configuratorService.SaveMeasurements(c.Request.Context(), sessionID, req.Fields); err != nil {
		respondConfigError(c, err, "save measurements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "치수가 저장되었습니다"})
}

// GetMeasurements returns the stored measurement form
// GET /api/v1/configurator/measurements
func (ctrl *ConfiguratorController) GetMeasurements(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	fields, err := ctrl.configuratorService.Measurements(c.Request.Context(), sessionID)
	if err != nil {
		respondConfigError(c, err, "get measurements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// Reset wipes the session
// DELETE /api/v1/configurator
func (ctrl *ConfiguratorController) Reset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.configuratorService.Clear(c.Request.Context(), sessionID); err != nil {
		log.Error("Failed to reset session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		respondConfigError(c, err, "delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "세션이 초기화되었습니다"})
}
