package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReload(t *testing.T) {
	r := New()
	r.ObserveReload(nil)
	r.ObserveReload(nil)
	r.ObserveReload(errors.New("boom"))

	if got := testutil.ToFloat64(r.Reloads.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok reloads, got %v", got)
	}
	if got := testutil.ToFloat64(r.Reloads.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed reload, got %v", got)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	r := New()
	r.Decorations.Set(3)

	srv := httptest.NewServer(r.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "fluentdeco_decorations 3") {
		t.Fatalf("expected decorations gauge in output, got:\n%s", body)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", resp.StatusCode)
	}
}
