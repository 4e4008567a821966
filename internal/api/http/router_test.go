package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nvdow/volunteerfinder/internal/api/http/handlers"
	"github.com/nvdow/volunteerfinder/internal/config"
	"github.com/nvdow/volunteerfinder/internal/observability"
	"github.com/nvdow/volunteerfinder/internal/roster"
	"github.com/nvdow/volunteerfinder/internal/selection"
	"github.com/nvdow/volunteerfinder/internal/service"
)

func newTestApp(t *testing.T, csv string) *fiber.App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "volunteers.csv")
	if csv != "" {
		if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
			t.Fatalf("failed to write csv: %v", err)
		}
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	loader := roster.NewLoader(config.RosterConfig{Path: path, CacheTTLSeconds: 3600}, logger, metrics, nil)
	finder := service.NewFinderService(service.FinderDependencies{
		Loader:  loader,
		Tracker: selection.NewTracker(),
		Metrics: metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("volunteer-finder", "test", loader),
		Volunteers: handlers.NewVolunteersHandler(finder),
		Metrics:    handlers.NewMetricsHandler(metrics),
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

const testCSV = "Insider Volunteers,CRG,Timezone,Business Unit,Email,Employee #\n" +
	"A,X,PT,HW,a@x.com,1\n" +
	"B,X,ET,SW,b@x.com,2\n" +
	"C,Y,PT,HW,c@x.com,3\n"

func TestGetVolunteers(t *testing.T) {
	app := newTestApp(t, testCSV)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/volunteers?crg=X", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]any)
	volunteers := data["volunteers"].([]any)
	if len(volunteers) != 2 {
		t.Fatalf("expected 2 volunteers for crg=X, got %d", len(volunteers))
	}
	first := volunteers[0].(map[string]any)
	if first["name"] != "A" || first["interaction_id"] == "" {
		t.Errorf("unexpected first card: %v", first)
	}
	if data["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", data["total"])
	}
}

func TestGetVolunteerOptions(t *testing.T) {
	app := newTestApp(t, testCSV)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/volunteers/options", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]any)
	crg := data["crg"].([]any)
	if len(crg) != 3 || crg[0] != "All" {
		t.Errorf("expected [All X Y], got %v", crg)
	}
}

func TestScheduleVolunteer(t *testing.T) {
	app := newTestApp(t, testCSV)

	req := httptest.NewRequest("POST", "/api/volunteers/schedule",
		strings.NewReader(`{"name":"A","interaction_id":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]any)
	if data["times_selected"].(float64) != 1 {
		t.Errorf("expected count 1, got %v", data["times_selected"])
	}
	if !strings.HasPrefix(data["mailto"].(string), "mailto:a@x.com?") {
		t.Errorf("unexpected mailto: %v", data["mailto"])
	}
	if data["applied"] != true {
		t.Errorf("expected applied=true, got %v", data["applied"])
	}

	// Replayed interaction id must not double-count.
	req = httptest.NewRequest("POST", "/api/volunteers/schedule",
		strings.NewReader(`{"name":"A","interaction_id":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	data = decodeBody(t, resp.Body)["data"].(map[string]any)
	if data["times_selected"].(float64) != 1 || data["applied"] != false {
		t.Errorf("replay should be a no-op, got %v", data)
	}
}

func TestScheduleUnknownVolunteer(t *testing.T) {
	app := newTestApp(t, testCSV)

	req := httptest.NewRequest("POST", "/api/volunteers/schedule", strings.NewReader(`{"name":"Nobody"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", errObj)
	}
}

func TestScheduleMissingName(t *testing.T) {
	app := newTestApp(t, testCSV)

	req := httptest.NewRequest("POST", "/api/volunteers/schedule", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMissingRosterSurfacesLoadError(t *testing.T) {
	app := newTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/volunteers", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "ROSTER_LOAD_FAILED" {
		t.Errorf("expected ROSTER_LOAD_FAILED, got %v", errObj)
	}
}

func TestHealthAndIndex(t *testing.T) {
	app := newTestApp(t, testCSV)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Errorf("liveness probe failed: %v %v", err, resp)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Errorf("readiness probe failed: %v %v", err, resp)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Errorf("index page failed: %v %v", err, resp)
	}
}
