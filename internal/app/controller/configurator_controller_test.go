package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/internal/app/service"
	"github.com/suitloom/suitloom-backend/internal/catalog"
	"github.com/suitloom/suitloom-backend/internal/configurator"
	"github.com/suitloom/suitloom-backend/internal/db"
	"github.com/suitloom/suitloom-backend/internal/middleware"
	"github.com/suitloom/suitloom-backend/internal/websocket"
	"github.com/suitloom/suitloom-backend/pkg/imagepipe"
)

// 컨트롤러 테스트용 인메모리 미러 저장소
type memMirrorStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemMirrorStore() *memMirrorStore {
	return &memMirrorStore{data: make(map[string][]byte)}
}

func (m *memMirrorStore) Save(ctx context.Context, sessionID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = data
	return nil
}

func (m *memMirrorStore) Load(ctx context.Context, sessionID string, out interface{}) (bool, error) {
	m.mu.Lock()
	data, ok := m.data[sessionID]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memMirrorStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

type memStorage struct {
	mu    sync.Mutex
	count int
}

func (m *memStorage) Put(ctx context.Context, folder, ext, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return fmt.Sprintf("/uploads/%s/%d%s", folder, m.count, ext), nil
}

func setupConfiguratorControllerTest(t *testing.T, handler http.Handler) (*ConfiguratorController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	if handler == nil {
		handler = http.NewServeMux()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	pipeline, err := imagepipe.NewClient(imagepipe.Config{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	configuratorService := service.NewConfiguratorService(
		catalog.Default(),
		repository.NewSnapshotRepository(testDB),
		repository.NewMeasurementRepository(testDB),
		newMemMirrorStore(),
		pipeline,
		&memStorage{},
		websocket.NewHub(),
	)
	controller := NewConfiguratorController(configuratorService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequireSession())

	return controller, router
}

func sessionRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, "test-session")
	return req
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	state, ok := response["state"].(map[string]interface{})
	require.True(t, ok, "response should contain a state object")
	return state
}

func TestConfiguratorController_GetState_Defaults(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.GET("/state", controller.GetState)

	req := sessionRequest(http.MethodGet, "/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-session", w.Header().Get(middleware.SessionHeader))

	state := decodeState(t, w)
	assert.Equal(t, "test-session", state["sessionId"])
	assert.Equal(t, string(configurator.ViewConfigure), state["viewMode"])
	assert.Equal(t, float64(0), state["activePreset"])
}

func TestConfiguratorController_GetState_AssignsSessionWhenMissing(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.GET("/state", controller.GetState)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionHeader))
}

func TestConfiguratorController_Select_Success(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)

	body := jsonBody(t, SelectRequest{Category: "fabric", OptionID: "fabric-cashmere-blend"})
	req := sessionRequest(http.MethodPost, "/select", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	selections := state["selections"].(map[string]interface{})
	fabric := selections["fabric"].(map[string]interface{})
	chosen := fabric["default"].(map[string]interface{})
	assert.Equal(t, "fabric-cashmere-blend", chosen["id"])
}

func TestConfiguratorController_Select_UnknownCategory(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)

	body := jsonBody(t, SelectRequest{Category: "hats", OptionID: "anything"})
	req := sessionRequest(http.MethodPost, "/select", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CONFIG_INVALID_CATEGORY", response["error"])
}

func TestConfiguratorController_Select_UnknownOption(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)

	body := jsonBody(t, SelectRequest{Category: "fabric", OptionID: "fabric-velvet"})
	req := sessionRequest(http.MethodPost, "/select", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CONFIG_INVALID_OPTION", response["error"])
}

func TestConfiguratorController_Select_MissingFields(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)

	body := jsonBody(t, map[string]string{"category": "fabric"})
	req := sessionRequest(http.MethodPost, "/select", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfiguratorController_Deselect_Success(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)
	router.POST("/deselect", controller.Deselect)

	selectBody := jsonBody(t, SelectRequest{Category: "jacket", OptionID: "jacket-lining-full"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sessionRequest(http.MethodPost, "/select", selectBody))

	body := jsonBody(t, DeselectRequest{Category: "jacket", Group: "lining"})
	req := sessionRequest(http.MethodPost, "/deselect", body)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	selections := state["selections"].(map[string]interface{})
	jacket := selections["jacket"].(map[string]interface{})
	_, hasLining := jacket["lining"]
	assert.False(t, hasLining)
}

func TestConfiguratorController_SetActiveTab(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.PUT("/tab", controller.SetActiveTab)

	body := jsonBody(t, ActiveTabRequest{Category: "trousers"})
	req := sessionRequest(http.MethodPut, "/tab", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, "trousers", state["activeTab"])
}

func TestConfiguratorController_SetViewMode_Invalid(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.PUT("/view", controller.SetViewMode)

	body := jsonBody(t, ViewModeRequest{Mode: "fullscreen"})
	req := sessionRequest(http.MethodPut, "/view", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfiguratorController_ApplyPreset(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/presets/:index/apply", controller.ApplyPreset)

	req := sessionRequest(http.MethodPost, "/presets/2/apply", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, float64(2), state["activePreset"])
}

func TestConfiguratorController_ApplyPreset_OutOfRange(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/presets/:index/apply", controller.ApplyPreset)

	req := sessionRequest(http.MethodPost, "/presets/9/apply", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CONFIG_PRESET_OUT_OF_RANGE", response["error"])
}

func TestConfiguratorController_ApplyPreset_NotANumber(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/presets/:index/apply", controller.ApplyPreset)

	req := sessionRequest(http.MethodPost, "/presets/first/apply", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func photoForm(t *testing.T, fieldName, contentType string) (*bytes.Buffer, string) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	var photo bytes.Buffer
	require.NoError(t, png.Encode(&photo, img))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="photo.png"`, fieldName)}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(photo.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestConfiguratorController_UploadPhoto_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remove-background", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": "/images/processed/cutout-1.png"})
	})

	controller, router := setupConfiguratorControllerTest(t, mux)
	router.POST("/photo", controller.UploadPhoto)

	body, contentType := photoForm(t, "photo", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/photo", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.SessionHeader, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, string(configurator.PhotoReady), state["photoState"])
}

func TestConfiguratorController_UploadPhoto_MissingFile(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/photo", controller.UploadPhoto)

	req := sessionRequest(http.MethodPost, "/photo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfiguratorController_UploadPhoto_WrongContentType(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/photo", controller.UploadPhoto)

	body, contentType := photoForm(t, "photo", "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/photo", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.SessionHeader, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "UPLOAD_INVALID_FILE_TYPE", response["error"])
}

func TestConfiguratorController_GeneratePreview_PhotoRequired(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/preview", controller.GeneratePreview)

	req := sessionRequest(http.MethodPost, "/preview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CONFIG_PHOTO_REQUIRED", response["error"])
}

func TestConfiguratorController_GeneratePreview_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remove-background", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": "/images/processed/cutout-1.png"})
	})
	mux.HandleFunc("/compose", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": "/images/preview/composite-1.png"})
	})

	controller, router := setupConfiguratorControllerTest(t, mux)
	router.POST("/photo", controller.UploadPhoto)
	router.POST("/preview", controller.GeneratePreview)

	body, contentType := photoForm(t, "photo", "image/png")
	uploadReq := httptest.NewRequest(http.MethodPost, "/photo", body)
	uploadReq.Header.Set("Content-Type", contentType)
	uploadReq.Header.Set(middleware.SessionHeader, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadReq)
	require.Equal(t, http.StatusOK, w.Code)

	req := sessionRequest(http.MethodPost, "/preview", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, "/images/preview/composite-1.png", state["currentPreview"])
}

func TestConfiguratorController_Measurements_Roundtrip(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.PUT("/measurements", controller.SaveMeasurements)
	router.GET("/measurements", controller.GetMeasurements)

	body := jsonBody(t, MeasurementsRequest{Fields: map[string]string{
		"chest": "98", "waist": "84", "height": "178",
	}})
	req := sessionRequest(http.MethodPut, "/measurements", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = sessionRequest(http.MethodGet, "/measurements", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	fields := response["fields"].(map[string]interface{})
	assert.Equal(t, "98", fields["chest"])
	assert.Equal(t, "178", fields["height"])
}

func TestConfiguratorController_GetSummary(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.GET("/summary", controller.GetSummary)

	req := sessionRequest(http.MethodGet, "/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	_, ok := response["summary"]
	assert.True(t, ok)
}

func TestConfiguratorController_Reset(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.POST("/select", controller.Select)
	router.DELETE("/", controller.Reset)
	router.GET("/state", controller.GetState)

	selectBody := jsonBody(t, SelectRequest{Category: "fabric", OptionID: "fabric-linen-blend"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sessionRequest(http.MethodPost, "/select", selectBody))
	require.Equal(t, http.StatusOK, w.Code)

	req := sessionRequest(http.MethodDelete, "/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = sessionRequest(http.MethodGet, "/state", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	state := decodeState(t, w)
	selections := state["selections"].(map[string]interface{})
	fabric := selections["fabric"].(map[string]interface{})
	chosen := fabric["default"].(map[string]interface{})
	assert.Equal(t, "fabric-wool-110s", chosen["id"])
}

func TestConfiguratorController_MalformedSessionID(t *testing.T) {
	controller, router := setupConfiguratorControllerTest(t, nil)
	router.GET("/state", controller.GetState)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set(middleware.SessionHeader, "bad session id!!")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
