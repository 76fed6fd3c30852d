package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
)

func TestMetricsHandler_ExposesCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collectors, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("register collectors: %v", err)
	}
	collectors.CacheWrite("ok")

	srv := httptest.NewServer(NewMetricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(string(body), `matchday_cache_writes_total{outcome="ok"} 1`) {
		t.Fatalf("metrics body missing cache writes:\n%s", body)
	}
}

func TestStartMetricsServer_Disabled(t *testing.T) {
	t.Parallel()

	srv, err := StartMetricsServer(config.Config{MetricsEnabled: false}, prometheus.NewRegistry(), nil)
	if err != nil || srv != nil {
		t.Fatalf("expected no server, got srv=%v err=%v", srv, err)
	}
	if err := StopMetricsServer(nil, nil, 0); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}
