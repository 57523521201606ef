package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/commune/fnbwatch/internal/metrics"
	"github.com/commune/fnbwatch/internal/middleware"
	"github.com/commune/fnbwatch/internal/model"
)

// mockEventLister はEventListerのテスト用モック。
type mockEventLister struct {
	events []model.EventRecord
}

func (m *mockEventLister) FetchUpcoming(ctx context.Context, now time.Time) []model.EventRecord {
	return m.events
}

// mockArticleLister はArticleListerのテスト用モック。
type mockArticleLister struct {
	articles []model.ArticleRecord
}

func (m *mockArticleLister) Fetch(ctx context.Context) []model.ArticleRecord {
	return m.articles
}

// mockStoryFetcher はStoryFetcherのテスト用モック。
type mockStoryFetcher struct {
	stories map[model.Series][]model.Story
}

func (m *mockStoryFetcher) Fetch(ctx context.Context) map[model.Series][]model.Story {
	if m.stories == nil {
		return map[model.Series][]model.Story{}
	}
	return m.stories
}

// newTestRouter はテスト用の依存でルーターを構成する。
func newTestRouter(t *testing.T, deps *RouterDeps) http.Handler {
	t.Helper()

	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.RateLimiter == nil {
		rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
		t.Cleanup(rl.Stop)
		deps.RateLimiter = rl
	}
	if deps.Gatherer == nil {
		reg := prometheus.NewRegistry()
		metrics.NewCollector(reg)
		deps.Gatherer = reg
	}
	if deps.Closures == nil {
		deps.Closures = &mockClosureLister{}
	}
	if deps.Openings == nil {
		deps.Openings = &mockOpeningLister{}
	}
	if deps.Events == nil {
		deps.Events = &mockEventLister{}
	}
	if deps.Articles == nil {
		deps.Articles = &mockArticleLister{}
	}
	if deps.Stories == nil {
		deps.Stories = &mockStoryFetcher{}
	}
	if deps.Geocoder == nil {
		deps.Geocoder = &mockGeocoder{}
	}

	return NewRouter(deps)
}

// TestRouter_HealthEndpoint は/healthが"OK"を返すことを検証する。
func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "OK" {
		t.Errorf("body = %q, want %q", body, "OK")
	}
}

// TestRouter_MetricsEndpoint は/metricsがPrometheus形式で返ることを検証する。
func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordSheetFetchSuccess("closures")

	router := newTestRouter(t, &RouterDeps{Gatherer: reg})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "fnbwatch_sheet_fetch_success_total") {
		t.Error("metrics output should contain fnbwatch_sheet_fetch_success_total")
	}
}

// TestRouter_EventsEndpoint は/api/eventsの配線を検証する。
func TestRouter_EventsEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		Events: &mockEventLister{events: []model.EventRecord{
			{ID: "e-1", Title: "Singapore Food Festival", Date: "2026-09-10", URL: "https://example.com/sff"},
			{ID: "e-2", Title: "Hawker Fest", Date: "TBA", URL: "https://example.com/hf"},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var resp eventListResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(resp.Events))
	}
	if resp.Events[1].Date != "TBA" {
		t.Errorf("events[1].Date = %q, want TBA", resp.Events[1].Date)
	}
}

// TestRouter_ArticlesEndpoint は/api/articlesの配線を検証する。
func TestRouter_ArticlesEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		Articles: &mockArticleLister{articles: []model.ArticleRecord{
			{ID: "a-1", Title: "The Slow Death of the Kopitiam", URL: "https://example.com/kopitiam", PublishedDate: "2026-02-10"},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp articleListResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "The Slow Death of the Kopitiam" {
		t.Errorf("articles = %+v", resp.Articles)
	}
}

// TestRouter_StoriesEndpoint は/api/storiesの配線を検証する。
func TestRouter_StoriesEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		Stories: &mockStoryFetcher{stories: map[model.Series][]model.Story{
			model.SeriesBurntEnd: {
				{ID: "s-1", Title: "The Last Days of Keng Eng Kee", URL: "https://example.com/1", Series: model.SeriesBurntEnd},
			},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp storyListResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp.Stories[model.SeriesBurntEnd]) != 1 {
		t.Errorf("stories = %+v", resp.Stories)
	}
}

// TestRouter_MetaEndpoint は/api/metaの配線を検証する。
func TestRouter_MetaEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		Meta: MetaConfig{
			SubmitFormURL: "https://forms.example.com/report",
			ClosuresOn:    true,
			OpeningsOn:    false,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/meta", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp metaResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.SubmitFormURL != "https://forms.example.com/report" {
		t.Errorf("submit_form_url = %q", resp.SubmitFormURL)
	}
	if !resp.Datasets["closures"] || resp.Datasets["openings"] {
		t.Errorf("datasets = %v", resp.Datasets)
	}
}

// TestRouter_APIRoutesHaveSecurityHeaders はAPIルートにセキュリティヘッダーが付くことを検証する。
func TestRouter_APIRoutesHaveSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/closures", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Result().Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

// TestRouter_StaticFallback は静的配信とSPAフォールバックの配線を検証する。
func TestRouter_StaticFallback(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{StaticDir: newStaticDir(t)})

	req := httptest.NewRequest(http.MethodGet, "/closures", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "fnbwatch") {
		t.Errorf("body = %q, want index.html content", body)
	}
}

// TestRouter_NoStaticDir は静的ディレクトリ未設定時に未知パスが404になることを検証する。
func TestRouter_NoStaticDir(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
