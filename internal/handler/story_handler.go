package handler

import (
	"context"
	"net/http"

	"github.com/commune/fnbwatch/internal/model"
)

// StoryFetcher は編集ストーリーの取得インターフェース。
type StoryFetcher interface {
	Fetch(ctx context.Context) map[model.Series][]model.Story
}

// StoryHandler はRSS由来の編集ストーリーのHTTPハンドラー。
type StoryHandler struct {
	service StoryFetcher
}

// NewStoryHandler はStoryHandlerを生成する。
func NewStoryHandler(service StoryFetcher) *StoryHandler {
	return &StoryHandler{service: service}
}

// storyResponse はストーリー1件のレスポンス。
type storyResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt,omitempty"` // サニタイズ済みHTML
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// storyListResponse はシリーズごとのストーリー集合のレスポンス。
// フィードが取得できない場合は空のマップが返る。
type storyListResponse struct {
	Stories map[model.Series][]storyResponse `json:"stories"`
}

// List はシリーズごとのストーリー集合を返す。
// GET /api/stories
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	fetched := h.service.Fetch(r.Context())

	stories := make(map[model.Series][]storyResponse, len(fetched))
	for series, list := range fetched {
		converted := make([]storyResponse, 0, len(list))
		for _, s := range list {
			converted = append(converted, storyResponse{
				ID:          s.ID,
				Title:       s.Title,
				Excerpt:     s.Excerpt,
				URL:         s.URL,
				ImageURL:    s.ImageURL,
				PublishedAt: s.PublishedAt,
			})
		}
		stories[series] = converted
	}

	writeJSON(w, storyListResponse{Stories: stories})
}
