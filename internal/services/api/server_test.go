package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/LeonardoBeccarini/borewell_project/internal/config"
	"github.com/LeonardoBeccarini/borewell_project/internal/model"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
)

var fixedNow = time.Date(2024, 8, 15, 5, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts irrigation.Options) (*Server, *irrigation.Service) {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts.Metrics = irrigation.NewMetrics(reg)
	svc := irrigation.NewService(opts)
	svc.SetClock(func() time.Time { return fixedNow })
	srv := New(config.Config{HTTPPort: 8080, Location: time.UTC}, svc, reg)
	gin.SetMode(gin.TestMode)
	srv.now = func() time.Time { return fixedNow }
	return srv, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAddAndFindConnection(t *testing.T) {
	srv, _ := newTestServer(t, irrigation.Options{})
	h := srv.Engine()

	rec := do(t, h, http.MethodPost, "/api/connections",
		`{"borewell_id":5,"connected_to":77,"distance":150,"speed":100,"hour":6,"minute":30}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status %d: %s", rec.Code, rec.Body)
	}
	var created struct {
		EndTime        time.Time `json:"end_time"`
		EndTimeDisplay string    `json:"end_time_display"`
		Logged         bool      `json:"logged"`
	}
	decode(t, rec, &created)
	if created.EndTimeDisplay != "08:00:00" || !created.Logged {
		t.Fatalf("unexpected response %+v", created)
	}

	rec = do(t, h, http.MethodGet, "/api/connections/5", "")
	var conn model.Connection
	decode(t, rec, &conn)
	if rec.Code != http.StatusOK || conn.ConnectedTo != 77 || conn.Speed != 100 {
		t.Fatalf("GET status %d body %+v", rec.Code, conn)
	}

	if rec = do(t, h, http.MethodGet, "/api/connections/6", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing id status %d", rec.Code)
	}
	if rec = do(t, h, http.MethodGet, "/api/connections/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status %d", rec.Code)
	}
}

func TestInvalidInputIs400(t *testing.T) {
	srv, svc := newTestServer(t, irrigation.Options{})
	h := srv.Engine()
	cases := []struct{ path, body string }{
		{"/api/connections", `{"borewell_id":1,"distance":10,"speed":0}`},
		{"/api/motors", `{"borewell_id":1,"water_amount":-5,"speed":10}`},
		{"/api/crops", `{"id":1,"crop_type":"","soil_type":"clay","water_required":5,"speed":1}`},
		{"/api/crops", `{"id":1,"crop_type":"rice","soil_type":"clay","speed":1,"hour":25}`},
		{"/api/motors", `not json`},
	}
	for _, c := range cases {
		if rec := do(t, h, http.MethodPost, c.path, c.body); rec.Code != http.StatusBadRequest {
			t.Fatalf("POST %s %s: status %d", c.path, c.body, rec.Code)
		}
	}
	if st := svc.Stats(); st.Connections+st.QueuedRuns+st.Crops != 0 {
		t.Fatalf("rejected requests mutated state %+v", st)
	}
}

func TestMotorQueueEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, irrigation.Options{})
	h := srv.Engine()
	for _, id := range []string{"1", "2"} {
		body := `{"borewell_id":` + id + `,"water_amount":100,"speed":50,"start_time":"2024-08-15T06:00:00Z"}`
		if rec := do(t, h, http.MethodPost, "/api/motors", body); rec.Code != http.StatusCreated {
			t.Fatalf("schedule %s: %d %s", id, rec.Code, rec.Body)
		}
	}

	var pending struct {
		Runs []model.ScheduledMotorRun `json:"motor_runs"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/motors", ""), &pending)
	if len(pending.Runs) != 2 || pending.Runs[0].BorewellID != 1 {
		t.Fatalf("pending = %+v", pending.Runs)
	}

	for _, want := range []int{1, 2} {
		rec := do(t, h, http.MethodPost, "/api/motors/next", "")
		var run model.ScheduledMotorRun
		decode(t, rec, &run)
		if rec.Code != http.StatusOK || run.BorewellID != want {
			t.Fatalf("next: %d %+v, want %d", rec.Code, run, want)
		}
	}
	if rec := do(t, h, http.MethodPost, "/api/motors/next", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("empty queue status %d", rec.Code)
	}
}

func TestCropsSortedAndHistory(t *testing.T) {
	srv, _ := newTestServer(t, irrigation.Options{HistoryCapacity: 2})
	h := srv.Engine()
	var lastWarning string
	for _, id := range []string{"30", "10", "20"} {
		rec := do(t, h, http.MethodPost, "/api/crops",
			`{"id":`+id+`,"crop_type":"maize","soil_type":"sandy","water_required":60,"speed":30}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add crop %s: %d %s", id, rec.Code, rec.Body)
		}
		var body struct {
			Warning string `json:"warning"`
		}
		decode(t, rec, &body)
		lastWarning = body.Warning
	}
	if lastWarning == "" {
		t.Fatalf("third crop should carry a history-full warning")
	}

	var crops struct {
		Crops []model.Crop `json:"crops"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/crops", ""), &crops)
	if len(crops.Crops) != 3 || crops.Crops[0].ID != 10 || crops.Crops[2].ID != 30 {
		t.Fatalf("crops = %+v", crops.Crops)
	}

	var hist struct {
		History []historyView `json:"history"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/history", ""), &hist)
	if len(hist.History) != 2 || hist.History[0].Display != "2024-08-15 05:00:00" ||
		hist.History[0].Description != irrigation.ActionAddCrop {
		t.Fatalf("history = %+v", hist.History)
	}

	var health struct {
		Status      string `json:"status"`
		HistoryFull bool   `json:"history_full"`
	}
	decode(t, do(t, h, http.MethodGet, "/healthz", ""), &health)
	if health.Status != "ok" || !health.HistoryFull {
		t.Fatalf("health = %+v", health)
	}
}

func TestMetricsEndpointAndCORS(t *testing.T) {
	srv, _ := newTestServer(t, irrigation.Options{})
	h := srv.Handler()
	do(t, h, http.MethodPost, "/api/connections", `{"borewell_id":1,"distance":1,"speed":1}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "borewell_connections 1") {
		t.Fatalf("metrics status %d body %s", rec.Code, rec.Body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/crops", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	if got := out.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestReadiness(t *testing.T) {
	srv, _ := newTestServer(t, irrigation.Options{})
	h := srv.Engine()
	if rec := do(t, h, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("no checks: status %d", rec.Code)
	}

	var brokerErr error
	srv.AddCheck("mqtt", func() error { return brokerErr })
	brokerErr = errors.New("not connected")
	rec := do(t, h, http.MethodGet, "/readyz", "")
	var body struct {
		Ready  bool              `json:"ready"`
		Failed map[string]string `json:"failed"`
	}
	decode(t, rec, &body)
	if rec.Code != http.StatusServiceUnavailable || body.Ready || body.Failed["mqtt"] != "not connected" {
		t.Fatalf("status %d body %+v", rec.Code, body)
	}

	brokerErr = nil
	if rec := do(t, h, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("recovered check: status %d", rec.Code)
	}
}
