package sim

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/koi/internal/feeder"
)

func newTestRouter(t *testing.T, opts Options) (*gin.Engine, *Device) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dev := NewDevice(opts)
	return NewRouter(dev), dev
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGetStatus(t *testing.T) {
	r, dev := newTestRouter(t, Options{Name: "Aquário da sala"})

	w := serve(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[feeder.DeviceStatus](t, w)
	assert.Equal(t, dev.ID(), status.DeviceID)
	assert.Equal(t, "Aquário da sala", status.DeviceName)
	assert.Equal(t, 10, status.MaxSchedules)
}

func TestScanAndConfigureWiFi(t *testing.T) {
	r, _ := newTestRouter(t, Options{WiFiAck: AckMessage})

	w := serve(r, http.MethodGet, "/scan-wifi", "")
	require.Equal(t, http.StatusOK, w.Code)
	scan := decode[ScanResponse](t, w)
	assert.Len(t, scan.Networks, len(DefaultNetworks))

	w = serve(r, http.MethodPost, "/config-wifi", `{"ssid":"CasaAquario","password":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	reply := decode[map[string]any](t, w)
	assert.Equal(t, "Conectado com sucesso", reply["message"])

	w = serve(r, http.MethodPost, "/config-wifi", `{"ssid":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/ip", "")
	net := decode[feeder.NetworkInfo](t, w)
	assert.True(t, net.Connected)
	assert.Equal(t, "CasaAquario", net.SSID)
}

func TestFeedHandler(t *testing.T) {
	r, dev := newTestRouter(t, Options{})

	w := serve(r, http.MethodPost, "/alimentar", `{"refill":"refill2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feeder.FeedResult{Status: "ok", Refill: feeder.RefillRight}, decode[feeder.FeedResult](t, w))
	assert.Equal(t, 1, dev.History().Total)

	w = serve(r, http.MethodPost, "/alimentar", `{"refill":"nenhum"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/alimentar", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateConfigHandler(t *testing.T) {
	r, dev := newTestRouter(t, Options{})

	w := serve(r, http.MethodPut, "/configuracoes", `{"refill1Nome":"Tetra Min"}`)
	require.Equal(t, http.StatusOK, w.Code)
	status := dev.Status()
	assert.Equal(t, "Tetra Min", status.Refills.Refill1.Name)
	assert.Equal(t, DefaultName, status.DeviceName)
}

func TestScheduleCRUDHandlers(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	w := serve(r, http.MethodPost, "/agendamento", `{"hora":8,"minuto":0,"refill":"ambos","ativo":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[feeder.CreateResult](t, w)
	require.Equal(t, 1, created.ID)

	w = serve(r, http.MethodPost, "/agendamento", `{"hora":25,"minuto":0,"refill":"ambos","ativo":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/agendamento?id=1", `{"ativo":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/agendamento?id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[feeder.Schedule](t, w).Active)

	w = serve(r, http.MethodPut, "/agendamento?id=7", `{"ativo":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/agendamento?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodDelete, "/agendamento?id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feeder.DeleteResult{Status: "ok", Total: 0}, decode[feeder.DeleteResult](t, w))
}

func TestHistoryAndStatisticsHandlers(t *testing.T) {
	r, _ := newTestRouter(t, Options{})
	serve(r, http.MethodPost, "/alimentar", `{"refill":"refill1"}`)

	w := serve(r, http.MethodGet, "/historico", "")
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[feeder.HistoryResponse](t, w)
	assert.Equal(t, 1, history.Total)

	w = serve(r, http.MethodGet, "/estatisticas", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[feeder.Statistics](t, w)
	assert.Equal(t, 1, stats.ByRefill.Refill1)
	assert.Equal(t, 1, stats.ByKind.Manual)
}

func TestRateLimitRejectsBursts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(1, 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, http.MethodGet, "/ping", "").Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
