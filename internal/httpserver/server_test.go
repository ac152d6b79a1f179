package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/engine"
	"github.com/MrSnakeDoc/marquee/internal/favorites"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/mw"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

type stubCatalog struct{}

func (stubCatalog) FetchPage(_ context.Context, _ domain.Filter, _ domain.Bounds, page, limit int) (domain.Page, error) {
	docs := make([]domain.Movie, 0, limit)
	for i := 1; i <= limit; i++ {
		id := int64((page-1)*limit + i)
		docs = append(docs, domain.Movie{ID: id, Name: fmt.Sprintf("Movie %d", id), Poster: &domain.Poster{URL: "https://img/x.jpg"}})
	}
	return domain.Page{Docs: docs}, nil
}

func (stubCatalog) FetchByID(_ context.Context, id int64) (domain.Movie, error) {
	return domain.Movie{ID: id, Name: "Movie", Poster: &domain.Poster{URL: "https://img/x.jpg"}}, nil
}

func newTestRouter(t *testing.T, mutate func(*deps.Deps)) http.Handler {
	t.Helper()
	e, err := engine.New(context.Background(), engine.Options{
		Catalog:  stubCatalog{},
		Slot:     favorites.NewFileSlot(t.TempDir()),
		Bounds:   domain.NewBounds(1900, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)),
		PageSize: 5,
		Logger:   logger.NewNop(),
	})
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	d := deps.Deps{
		Logger:     logger.NewNop(),
		StartTime:  time.Now(),
		InstanceID: "test",
		Engine:     e,
		Storage:    "file",
	}
	if mutate != nil {
		mutate(&d)
	}
	return NewRouter(d.Logger, d, 5*time.Second)
}

func TestRouterMountsRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{method: http.MethodGet, path: "/readyz", status: http.StatusOK},
		{method: http.MethodGet, path: "/infra", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/state", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/location", status: http.StatusOK},
		{method: http.MethodPost, path: "/api/movies/next", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/movies/7", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/bookmarks", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/presets", status: http.StatusOK},
		{method: http.MethodPost, path: "/reload", status: http.StatusAccepted},
		{method: http.MethodGet, path: "/search", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if rec.Code == http.StatusOK && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestOpsEndpointsRestrictedByCIDR(t *testing.T) {
	h := newTestRouter(t, func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })

	tests := []struct {
		path   string
		remote string
		status int
	}{
		{path: "/readyz", remote: "10.1.2.3:5555", status: http.StatusOK},
		{path: "/readyz", remote: "192.168.1.2:5555", status: http.StatusForbidden},
		{path: "/infra", remote: "192.168.1.2:5555", status: http.StatusForbidden},
		{path: "/healthz", remote: "192.168.1.2:5555", status: http.StatusOK},
		{path: "/api/state", remote: "192.168.1.2:5555", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path+" from "+tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestCatalogRoutesAreRateLimited(t *testing.T) {
	h := newTestRouter(t, func(d *deps.Deps) {
		d.CatalogLimit = mw.RateLimit(mw.RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/movies/next", nil))
		codes = append(codes, rec.Code)
	}
	if fmt.Sprint(codes) != "[200 200 429]" {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("state after limit = %d, want 200", rec.Code)
	}
}

func TestEventStreamThroughMiddleware(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer func() { _ = conn.Close() }()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("status = %d, want 101", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&ev); err != nil || ev.Type != "HELLO" {
		t.Errorf("first event = (%+v, %v)", ev, err)
	}
}
