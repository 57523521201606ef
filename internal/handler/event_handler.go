package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/commune/fnbwatch/internal/model"
)

// EventLister は開催予定イベントの取得インターフェース。
type EventLister interface {
	FetchUpcoming(ctx context.Context, now time.Time) []model.EventRecord
}

// EventHandler はF&BイベントのHTTPハンドラー。
type EventHandler struct {
	source EventLister
	now    func() time.Time
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(source EventLister) *EventHandler {
	return &EventHandler{
		source: source,
		now:    time.Now,
	}
}

// eventResponse はイベント1件のレスポンス。
type eventResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"` // ISO日付または "TBA"
	Location string `json:"location,omitempty"`
	URL      string `json:"url"`
	Source   string `json:"source,omitempty"`
}

// eventListResponse はイベント一覧のレスポンス。
type eventListResponse struct {
	Events []eventResponse `json:"events"`
}

// ListUpcoming は開催予定イベントの一覧を返す。
// 過去のイベントは除外され、日付昇順（TBAは末尾）に並ぶ。
// GET /api/events
func (h *EventHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	records := h.source.FetchUpcoming(r.Context(), h.now())

	events := make([]eventResponse, 0, len(records))
	for _, rec := range records {
		events = append(events, eventResponse{
			ID:       rec.ID,
			Title:    rec.Title,
			Date:     rec.Date,
			Location: rec.Location,
			URL:      rec.URL,
			Source:   rec.Source,
		})
	}

	writeJSON(w, eventListResponse{Events: events})
}
