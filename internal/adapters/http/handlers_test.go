package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lounge/internal/app"
	"github.com/dkeye/Lounge/internal/config"
	"github.com/dkeye/Lounge/internal/domain"
)

func testRouter(t *testing.T) (*gin.Engine, *app.Dispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:       "release",
		StaticPath: t.TempDir(),
		ReadLimit:  32768,
		PingPeriod: 54 * time.Second,
		Secret:     "test-secret",
		AgoraAppID: "app-123",
	}
	d := app.NewDispatcher(app.NewRegistry(), app.NewRoomStore())
	return SetupRouter(context.Background(), cfg, d), d
}

func getJSON(t *testing.T, r *gin.Engine, method, path string, body []byte) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return w.Code, m
}

func TestHealth_ReportsRoomCount(t *testing.T) {
	req := require.New(t)
	r, d := testRouter(t)

	code, body := getJSON(t, r, http.MethodGet, "/api/health", nil)
	req.Equal(http.StatusOK, code)
	req.Equal("healthy", body["status"])
	req.Equal(float64(0), body["rooms"])
	req.Equal(true, body["agora_app_id_set"])

	d.Rooms.GetOrCreate(domain.RoomID("r1"))
	_, body = getJSON(t, r, http.MethodGet, "/api/health", nil)
	req.Equal(float64(1), body["rooms"])
}

func TestAgoraAppID_HandsOutTheConfiguredID(t *testing.T) {
	r, _ := testRouter(t)

	code, body := getJSON(t, r, http.MethodGet, "/api/agora/appid", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "app-123", body["appId"])
}

func TestAgoraConfig_EchoesRoomAndUser(t *testing.T) {
	req := require.New(t)
	r, _ := testRouter(t)

	payload := []byte(`{"userId":"u-7","roomId":"r-9"}`)
	code, body := getJSON(t, r, http.MethodPost, "/api/agora/config", payload)
	req.Equal(http.StatusOK, code)
	req.Equal("app-123", body["appId"])
	req.Equal("r-9", body["channel"])
	req.Equal("u-7", body["uid"])
	req.Nil(body["token"])
	req.Equal(true, body["success"])
	req.Equal("test", body["mode"])
}

func TestAgoraConfig_DefaultsOnEmptyOrBadBody(t *testing.T) {
	req := require.New(t)
	r, _ := testRouter(t)

	code, body := getJSON(t, r, http.MethodPost, "/api/agora/config", []byte("not json"))
	req.Equal(http.StatusOK, code)
	req.Equal("default", body["channel"])
	req.Contains(body["uid"], "user_")
}

func TestAPI_UnknownRouteAnswersJSON404(t *testing.T) {
	r, _ := testRouter(t)

	code, body := getJSON(t, r, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "not found", body["error"])
}
