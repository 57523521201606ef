package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/commune/fnbwatch/internal/model"
	"github.com/commune/fnbwatch/internal/sheet"
	"github.com/commune/fnbwatch/internal/view"
)

// dateTBA はイベント日付が未定であることを示すリテラル。
// TBAのイベントは保持され、日付確定済みのイベントの後ろに並ぶ。
const dateTBA = "TBA"

// EventSource はイベントシートのフェッチャー。
type EventSource struct {
	client    *sheet.Client
	sourceURL string
	schema    sheet.EventSchema
	metrics   sheet.FetchMetrics
}

// NewEventSource はEventSourceの新しいインスタンスを生成する。
func NewEventSource(client *sheet.Client, sourceURL string, schema sheet.EventSchema, metrics sheet.FetchMetrics) *EventSource {
	return &EventSource{
		client:    client,
		sourceURL: sourceURL,
		schema:    schema,
		metrics:   metrics,
	}
}

// Fetch はイベントレコードをファイル内の行順で返す。
// タイトルまたはURLを欠く行は破棄される。
func (s *EventSource) Fetch(ctx context.Context) []model.EventRecord {
	rows := s.client.FetchRows(ctx, "events", s.sourceURL)

	events := make([]model.EventRecord, 0, len(rows))
	dropped := 0
	for _, fields := range rows {
		ev, ok := s.schema.ParseRow(fields)
		if !ok {
			dropped++
			continue
		}
		events = append(events, ev)
	}

	if s.metrics != nil {
		s.metrics.RecordSheetRows("events", len(events), dropped)
	}

	return events
}

// FetchUpcoming は開催予定のイベントを日付昇順で返す。
// 解決可能な日付が過去のイベントは除外され、日付が "TBA" のイベントは
// 常に保持されて日付確定済みイベントの後ろに並ぶ。
func (s *EventSource) FetchUpcoming(ctx context.Context, now time.Time) []model.EventRecord {
	return Upcoming(s.Fetch(ctx), now)
}

// Upcoming はイベント集合から開催予定ビューを導出する純粋関数。
func Upcoming(events []model.EventRecord, now time.Time) []model.EventRecord {
	upcoming := make([]model.EventRecord, 0, len(events))
	for _, ev := range events {
		if ev.Date == dateTBA {
			upcoming = append(upcoming, ev)
			continue
		}
		t, ok := view.ParseDate(ev.Date)
		if !ok {
			// TBA以外でパース不能な日付は開催予定と判断できないため除外する
			continue
		}
		if !t.Before(now) {
			upcoming = append(upcoming, ev)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		ti, iOK := view.ParseDate(upcoming[i].Date)
		tj, jOK := view.ParseDate(upcoming[j].Date)
		if iOK != jOK {
			// 日付確定済みが先、TBA・パース不能が後
			return iOK
		}
		if !iOK {
			return false
		}
		return ti.Before(tj)
	})

	return upcoming
}
