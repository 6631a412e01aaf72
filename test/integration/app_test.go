package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/abdm"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/dataexport"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/futureready"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/insights"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/monetization"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/reports"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/middleware"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// testApp is the full developer-mode application: every domain wired onto one
// echo instance with in-memory stores and a manual clock.
type testApp struct {
	e          *echo.Echo
	clk        *clock.Manual
	exportProc *dataexport.Processor
	backupProc *futureready.Processor
}

func newTestApp() *testApp {
	clk := clock.NewManual(testStart)
	d := dispatch.Dispatcher{DeveloperMode: true, LatencyScale: 0}
	log := zerolog.Nop()

	exportRepo := dataexport.NewMemExportRepo()
	shareRepo := dataexport.NewMemShareLinkRepo()
	backupRepo := futureready.NewMemBackupRepo()

	e := echo.New()
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestID())
	api := e.Group("/api/v1")

	dataexport.NewHandler(dataexport.NewService(d, nil, exportRepo, shareRepo, clk, log)).RegisterRoutes(api)
	reports.NewHandler(reports.NewService(d, nil, reports.NewMemReportRepo(), clk, log)).RegisterRoutes(api)
	monetization.NewHandler(monetization.NewService(d, nil, monetization.NewMemSubscriptionRepo(), monetization.NewMemConsultationRepo(), clk, log)).RegisterRoutes(api)
	futureready.NewHandler(futureready.NewService(d, nil, futureready.NewMemSettingsRepo(), backupRepo, clk, log)).RegisterRoutes(api)
	insights.NewHandler(insights.NewService(d, nil, log)).RegisterRoutes(api)
	abdm.NewHandler(abdm.NewService(d, nil, "integration-secret", clk, log)).RegisterRoutes(api)

	return &testApp{
		e:          e,
		clk:        clk,
		exportProc: dataexport.NewProcessor(exportRepo, clk, 3*time.Second, log),
		backupProc: futureready.NewProcessor(backupRepo, clk, 3*time.Second, log),
	}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func TestExportLifecycle(t *testing.T) {
	app := newTestApp()

	// request a pdf export of lab results
	rec, job := app.do(t, http.MethodPost, "/api/v1/exports", map[string]interface{}{
		"format":       "pdf",
		"record_types": []string{"lab_results"},
		"date_range": map[string]string{
			"start": "2025-06-01T00:00:00Z",
			"end":   "2025-12-31T00:00:00Z",
		},
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("request export: status %d body %s", rec.Code, rec.Body)
	}
	if job["status"] != "processing" {
		t.Fatalf("expected processing, got %v", job["status"])
	}
	id := job["id"].(string)

	// download before completion is rejected
	rec, _ = app.do(t, http.MethodGet, "/api/v1/exports/"+id+"/download", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 before completion, got %d", rec.Code)
	}

	// advance past the processing delay and sweep
	app.clk.Advance(3 * time.Second)
	if _, err := app.exportProc.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	rec, job = app.do(t, http.MethodGet, "/api/v1/exports/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: %d", rec.Code)
	}
	if job["status"] != "completed" {
		t.Fatalf("expected completed, got %v", job["status"])
	}
	url, _ := job["download_url"].(string)
	if len(url) < 4 || url[len(url)-4:] != ".pdf" {
		t.Errorf("expected .pdf locator, got %q", url)
	}
	if job["file_size"] == nil || job["expires_at"] == nil {
		t.Error("expected populated artifact fields")
	}

	// repeated polls are stable
	_, again := app.do(t, http.MethodGet, "/api/v1/exports/"+id, nil)
	if again["status"] != "completed" {
		t.Error("expected idempotent status reads")
	}

	// share with a recipient: single-use link with a one-time password
	rec, share := app.do(t, http.MethodPost, "/api/v1/exports/"+id+"/share", map[string]interface{}{
		"recipient":        "doc@example.com",
		"require_password": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("share: %d body %s", rec.Code, rec.Body)
	}
	password, _ := share["password"].(string)
	if password == "" {
		t.Fatal("expected one-time password in response")
	}
	link := share["share_link"].(map[string]interface{})
	token := link["token"].(string)

	// wrong password rejected, right password redeems once
	rec, _ = app.do(t, http.MethodGet, "/api/v1/shares/"+token+"?password=wrong", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for wrong password, got %d", rec.Code)
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/shares/"+token+"?password="+password, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 redeem, got %d", rec.Code)
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/shares/"+token+"?password="+password, nil)
	if rec.Code != http.StatusGone {
		t.Errorf("expected 410 for exhausted link, got %d", rec.Code)
	}

	// aging 7 days past completion expires the artifact
	app.clk.Advance(7*24*time.Hour + time.Minute)
	rec, job = app.do(t, http.MethodGet, "/api/v1/exports/"+id, nil)
	if rec.Code != http.StatusOK || job["status"] != "expired" {
		t.Errorf("expected expired, got %d %v", rec.Code, job["status"])
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/exports/"+id+"/download", nil)
	if rec.Code != http.StatusGone {
		t.Errorf("expected 410 download after expiry, got %d", rec.Code)
	}

	// delete is idempotent
	rec, _ = app.do(t, http.MethodDelete, "/api/v1/exports/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
	rec, _ = app.do(t, http.MethodDelete, "/api/v1/exports/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete: %d", rec.Code)
	}
}

func TestReportGenerationFlow(t *testing.T) {
	app := newTestApp()

	rec, _ := app.do(t, http.MethodGet, "/api/v1/reports/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("templates: %d", rec.Code)
	}

	rec, report := app.do(t, http.MethodPost, "/api/v1/reports/generate", map[string]interface{}{
		"template_id": "health-summary",
		"title":       "Summary",
		"section_ids": []string{"overview", "vitals"},
		"format":      "pdf",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: %d body %s", rec.Code, rec.Body)
	}
	meta := report["metadata"].(map[string]interface{})
	if meta["total_pages"] == nil {
		t.Error("pdf report must carry a page estimate")
	}

	id := report["id"].(string)
	rec, _ = app.do(t, http.MethodGet, "/api/v1/reports/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get report: %d", rec.Code)
	}
}

func TestBackupFlow(t *testing.T) {
	app := newTestApp()

	rec, entry := app.do(t, http.MethodPost, "/api/v1/futureready/backup/trigger/user-1", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("trigger: %d", rec.Code)
	}
	if entry["status"] != "in_progress" {
		t.Fatalf("expected in_progress, got %v", entry["status"])
	}

	app.clk.Advance(3 * time.Second)
	if _, err := app.backupProc.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	rec, storage := app.do(t, http.MethodGet, "/api/v1/futureready/storage/user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("storage: %d", rec.Code)
	}
	if storage["last_backup_at"] == nil {
		t.Error("expected last backup timestamp after completion")
	}
}

func TestABHARegistrationFlow(t *testing.T) {
	app := newTestApp()

	rec, otp := app.do(t, http.MethodPost, "/api/v1/abdm/aadhaar/otp", map[string]string{"aadhaar": "123456789012"})
	if rec.Code != http.StatusOK {
		t.Fatalf("otp: %d body %s", rec.Code, rec.Body)
	}
	txn := otp["txn_id"].(string)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/abdm/aadhaar/verify", map[string]string{"txn_id": txn, "otp": "000000"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong otp, got %d", rec.Code)
	}
	rec, _ = app.do(t, http.MethodPost, "/api/v1/abdm/aadhaar/verify", map[string]string{"txn_id": txn, "otp": "123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d", rec.Code)
	}

	rec, result := app.do(t, http.MethodPost, "/api/v1/abdm/abha", map[string]string{"txn_id": txn})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create abha: %d", rec.Code)
	}
	if result["token"] == nil || result["profile"] == nil {
		t.Error("expected token and profile")
	}
}
