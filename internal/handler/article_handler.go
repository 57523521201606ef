package handler

import (
	"context"
	"net/http"

	"github.com/commune/fnbwatch/internal/model"
)

// ArticleLister はキュレーション記事の取得インターフェース。
type ArticleLister interface {
	Fetch(ctx context.Context) []model.ArticleRecord
}

// ArticleHandler はキュレーション記事のHTTPハンドラー。
type ArticleHandler struct {
	source ArticleLister
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(source ArticleLister) *ArticleHandler {
	return &ArticleHandler{source: source}
}

// articleResponse は記事1件のレスポンス。
type articleResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Source        string `json:"source,omitempty"`
	Author        string `json:"author,omitempty"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date,omitempty"`
}

// articleListResponse は記事一覧のレスポンス。
type articleListResponse struct {
	Articles []articleResponse `json:"articles"`
}

// List は公開日降順の最新記事（最大5件）を返す。
// GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.source.Fetch(r.Context())

	articles := make([]articleResponse, 0, len(records))
	for _, rec := range records {
		articles = append(articles, articleResponse{
			ID:            rec.ID,
			Title:         rec.Title,
			Source:        rec.Source,
			Author:        rec.Author,
			URL:           rec.URL,
			PublishedDate: rec.PublishedDate,
		})
	}

	writeJSON(w, articleListResponse{Articles: articles})
}
