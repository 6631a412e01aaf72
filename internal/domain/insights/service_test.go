package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
)

func newTestService() *Service {
	d := dispatch.Dispatcher{DeveloperMode: true, LatencyScale: 0}
	return NewService(d, nil, zerolog.Nop())
}

func TestListInsights(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	all, err := svc.ListInsights(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(Insights) {
		t.Errorf("expected full set, got %d", len(all))
	}

	vitals, err := svc.ListInsights(ctx, "user-1", "vitals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ins := range vitals {
		if ins.Category != "vitals" {
			t.Errorf("filter leaked category %s", ins.Category)
		}
	}
	if len(vitals) == 0 {
		t.Error("expected vitals insights")
	}

	none, err := svc.ListInsights(ctx, "user-1", "genomics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty set for unknown category, got %d", len(none))
	}
}

func TestListPredictions(t *testing.T) {
	svc := newTestService()
	predictions, err := svc.ListPredictions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predictions) != len(Predictions) {
		t.Errorf("expected full set, got %d", len(predictions))
	}
	for _, p := range predictions {
		if p.Probability < 0 || p.Probability > 1 {
			t.Errorf("probability out of range: %f", p.Probability)
		}
	}
}

func TestHandler_ListInsights_Filtered(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?category=labs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userID")
	c.SetParamValues("user-1")

	if err := h.ListInsights(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result []AIInsight
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result) != 1 || result[0].ID != "ins-hba1c-stable" {
		t.Errorf("expected labs insight only, got %+v", result)
	}
}
