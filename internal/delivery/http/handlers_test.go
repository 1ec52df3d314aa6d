package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/dedup"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/ilindan-dev/alertgate/internal/manager"
	"github.com/ilindan-dev/alertgate/internal/senders"
	"github.com/rs/zerolog"
)

type okSender struct{}

func (okSender) Send(context.Context, *model.Message) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Logger:             config.LoggerConfig{Level: "disabled"},
		DedupWindowSeconds: 300,
		SendTimeoutSeconds: 2,
	}
	nop := zerolog.Nop()
	reg := senders.Registry{model.ChannelTeams: okSender{}}

	mgr, err := manager.NewManager(cfg, reg, dedup.NewMemory(cfg.DedupWindow()), nil, &nop)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	router := gin.New()
	NewHandlers(mgr, &nop).RegisterRoutes(router)
	return router
}

func TestNotifyEndpointDispatches(t *testing.T) {
	router := newTestRouter(t)

	body := `{"event":"build_failure","title":"Build failed","content":"tests exploded","level":"warning"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var res model.AggregateResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if res.Outcome != model.OutcomeSent {
		t.Errorf("outcome = %s, want sent", res.Outcome)
	}
}

func TestNotifyEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(`{"content":"x"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestNotifyEndpointRejectsBadLevel(t *testing.T) {
	router := newTestRouter(t)

	body := `{"event":"x","title":"y","level":"shouting"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestNotifyEndpointReportsDuplicates(t *testing.T) {
	router := newTestRouter(t)
	body := `{"event":"deploy","title":"Done","content":"all good"}`

	for i, wantOutcome := range []model.Outcome{model.OutcomeSent, model.OutcomeSuppressed} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var res model.AggregateResult
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("request %d: cannot decode response: %v", i, err)
		}
		if res.Outcome != wantOutcome {
			t.Fatalf("request %d: outcome = %s, want %s", i, res.Outcome, wantOutcome)
		}
	}
}
