package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/component"
	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/server/endpoint"
)

func newTestServer(health endpoint.HealthChecker, ready endpoint.ReadyChecker) *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.NewNop())
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(endpoint.ServiceInfo{Name: "svc", Environment: "test"}, health, ready)
	return s
}

func get(t *testing.T, s *Server, path string) (int, map[string]any, http.Header) {
	t.Helper()
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: invalid JSON %q: %v", path, rr.Body.String(), err)
	}
	return rr.Code, body, rr.Header()
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []component.HealthStatus
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []component.HealthStatus{component.StatusHealthy, component.StatusHealthy}, 200, "healthy"},
		{"pending", []component.HealthStatus{component.StatusHealthy, component.StatusPending}, 200, "starting"},
		{"unhealthy wins", []component.HealthStatus{component.StatusPending, component.StatusUnhealthy}, 503, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := func(context.Context) []component.Health {
				out := make([]component.Health, len(tt.statuses))
				for i, st := range tt.statuses {
					out[i] = component.Health{Name: "c", Status: st}
				}
				return out
			}
			code, body, _ := get(t, newTestServer(checker, nil), "/health")
			if code != tt.wantCode || body["status"] != tt.wantStatus {
				t.Errorf("got %d %v, want %d %s", code, body["status"], tt.wantCode, tt.wantStatus)
			}
			if comps, _ := body["components"].([]any); len(comps) != len(tt.statuses) {
				t.Errorf("expected %d components, got %v", len(tt.statuses), body["components"])
			}
		})
	}
}

func TestReady(t *testing.T) {
	code, body, _ := get(t, newTestServer(nil, func(context.Context) error { return nil }), "/ready")
	if code != 200 || body["status"] != "ready" {
		t.Errorf("got %d %v", code, body)
	}

	notReady := func(context.Context) error { return stderrors.New("components not ready: [kafka=pending]") }
	code, body, _ = get(t, newTestServer(nil, notReady), "/ready")
	if code != 503 || body["status"] != "not_ready" || body["reason"] != "components not ready: [kafka=pending]" {
		t.Errorf("got %d %v", code, body)
	}
}

func TestReady_AppErrorBody(t *testing.T) {
	failed := func(context.Context) error {
		return fmt.Errorf("kafka: %w", errors.ConvergenceTimeout("orders", 3, nil))
	}
	code, body, _ := get(t, newTestServer(nil, failed), "/ready")
	if code != 503 {
		t.Fatalf("expected 503, got %d", code)
	}
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected structured error, got %v", body)
	}
	if errBody["code"] != string(errors.ErrCodeConvergenceTimeout) {
		t.Errorf("code = %v", errBody["code"])
	}
}

func TestReady_WithRegistry(t *testing.T) {
	reg := component.NewRegistry()
	s := newTestServer(reg.HealthAll, reg.Ready)
	if err := reg.Register(NewComponent(s)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if code, _, _ := get(t, s, "/ready"); code != 503 {
		t.Errorf("expected 503 before start, got %d", code)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	defer reg.StopAll(context.Background())
	if code, _, _ := get(t, s, "/ready"); code != 200 {
		t.Errorf("expected 200 after start, got %d", code)
	}
}

func TestInfo(t *testing.T) {
	code, body, _ := get(t, newTestServer(nil, nil), "/info")
	if code != 200 || body["service"] != "svc" || body["environment"] != "test" {
		t.Errorf("got %d %v", code, body)
	}
	build, ok := body["build"].(map[string]any)
	if !ok || build["version"] == "" {
		t.Errorf("expected build info, got %v", body["build"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, _, hdr := get(t, newTestServer(nil, nil), "/info")
	if hdr.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id response header")
	}
}

func TestServer_StartServeStop(t *testing.T) {
	s := newTestServer(nil, nil)
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Healthy() {
		t.Error("expected not healthy before Start")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if h := c.Health(context.Background()); !h.Healthy() {
		t.Errorf("expected healthy after Start, got %+v", h)
	}

	addr := s.Addr()
	resp, err := http.Get("http://" + addr + "/ready")
	if err != nil {
		t.Fatalf("GET /ready: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if _, err := http.Get("http://" + addr + "/ready"); err == nil {
		t.Error("expected connection error after Stop")
	}
	if h := c.Health(context.Background()); h.Healthy() {
		t.Error("expected not healthy after Stop")
	}
}

func TestServer_StartBindError(t *testing.T) {
	first := newTestServer(nil, nil)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer first.Stop(context.Background())

	cfg := Config{}
	cfg.ApplyDefaults()
	second := New(cfg, logger.NewNop())
	second.httpServer.Addr = first.Addr()
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected bind error for a port in use")
	}
}

func TestComponent_Routes(t *testing.T) {
	s := newTestServer(nil, nil)
	s.GinEngine().GET("/api/topics", func(c *gin.Context) {})

	routes := NewComponent(s).Routes()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}
	if routes[0].Path != "/api/topics" {
		t.Errorf("expected application route first, got %s", routes[0].Path)
	}
	if routes[1].Handler != "health" {
		t.Errorf("expected handler name health, got %q", routes[1].Handler)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.ShutdownTimeout == 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port out of range")
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"github.com/kbukum/kafkaready/server/endpoint.Health.func1", "health"},
		{"github.com/org/svc/internal/api.(*TopicPort).List-fm", "TopicPort.List"},
		{"main.handler", "handler"},
	}
	for _, tt := range tests {
		if got := formatHandlerName(tt.in); got != tt.want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
