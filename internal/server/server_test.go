package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"xivsim/internal/cache"
	"xivsim/internal/jobs"
	"xivsim/internal/sim"
)

const whmRequest = `{
	"job": "whm",
	"stats": {
		"level": 90, "main_stat": 3350, "weapon_damage": 132, "weapon_delay": 3.44,
		"crit": 2400, "direct_hit": 1100, "determination": 2000,
		"skill_speed": 400, "spell_speed": 400, "tenacity": 400
	},
	"settings": {"total_time": 120}
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := jobs.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(reg, c, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJobs(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got []jobInfo
	if err := jsoniter.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Job != "PLD" || got[0].Description == "" {
		t.Errorf("jobs %+v", got)
	}
}

func TestSettings(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/jobs/sch/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if job := sim.SavedJob(rec.Body.Bytes()); job != "SCH" {
		t.Errorf("exported job %q", job)
	}
	if rec := do(t, h, http.MethodGet, "/jobs/xyz/settings", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown job status %d", rec.Code)
	}
}

func TestSimulateCachesReports(t *testing.T) {
	h := newTestServer(t).Handler()

	first := do(t, h, http.MethodPost, "/simulate", whmRequest)
	if first.Code != http.StatusOK {
		t.Fatalf("status %d: %s", first.Code, first.Body)
	}
	if first.Header().Get("X-Cache") != "miss" {
		t.Error("first request served from cache")
	}
	var rep sim.Report
	if err := jsoniter.Unmarshal(first.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Job != "WHM" || rep.MainDps <= 0 || len(rep.Candidates) != 2 {
		t.Errorf("report %+v", rep)
	}

	second := do(t, h, http.MethodPost, "/simulate", whmRequest)
	if second.Header().Get("X-Cache") != "hit" {
		t.Error("second request not served from cache")
	}
	var again sim.Report
	if err := jsoniter.Unmarshal(second.Body.Bytes(), &again); err != nil {
		t.Fatal(err)
	}
	if math.Abs(again.MainDps-rep.MainDps) > 1e-6 || again.Rotation != rep.Rotation {
		t.Errorf("cached report differs: %v vs %v", again.MainDps, rep.MainDps)
	}
}

func TestSimulateRejects(t *testing.T) {
	h := newTestServer(t).Handler()
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"job":`, http.StatusBadRequest},
		{"unknown job", `{"job":"XYZ","stats":{"level":90}}`, http.StatusNotFound},
		{"wrong stats job", strings.Replace(whmRequest, `"level": 90,`, `"level": 90, "job": "PLD",`, 1), http.StatusBadRequest},
		{"bad level", strings.Replace(whmRequest, `"level": 90`, `"level": 7`, 1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, "/simulate", tt.body); rec.Code != tt.code {
				t.Errorf("status %d, want %d: %s", rec.Code, tt.code, rec.Body)
			}
		})
	}
}

func TestSimulateWebsocket(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/simulate", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	if err := ws.WriteMessage(websocket.TextMessage, []byte(whmRequest)); err != nil {
		t.Fatal(err)
	}

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	progress := 0
	for {
		var ev struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := ws.ReadJSON(&ev); err != nil {
			t.Fatalf("after %d progress events: %v", progress, err)
		}
		switch ev.Event {
		case "progress":
			var p wsProgress
			if err := jsoniter.Unmarshal(ev.Data, &p); err != nil {
				t.Fatal(err)
			}
			progress++
			if p.Done != progress || p.Total != 2 {
				t.Errorf("progress %+v", p)
			}
		case "report":
			var rep sim.Report
			if err := jsoniter.Unmarshal(ev.Data, &rep); err != nil {
				t.Fatal(err)
			}
			if progress != 2 || rep.Job != "WHM" {
				t.Errorf("report after %d progress events: %+v", progress, rep.Candidates)
			}
			return
		default:
			t.Fatalf("unexpected event %s: %s", ev.Event, ev.Data)
		}
	}
}

func TestWebsocketBadRequest(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/simulate", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	ws.WriteMessage(websocket.TextMessage, []byte(`{"job":"XYZ"}`))
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev wsEvent
	if err := ws.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Event != "error" {
		t.Errorf("event %s", ev.Event)
	}
}
