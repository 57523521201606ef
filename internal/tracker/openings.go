package tracker

import (
	"context"

	"github.com/commune/fnbwatch/internal/model"
	"github.com/commune/fnbwatch/internal/sheet"
)

// OpeningSource は開店データセットのフェッチャー。
// 閉店と同じシート構造で、主要日付カラムが開店日を表す。
type OpeningSource struct {
	client    *sheet.Client
	sourceURL string
	schema    sheet.BusinessSchema
	metrics   sheet.FetchMetrics
}

// NewOpeningSource はOpeningSourceの新しいインスタンスを生成する。
func NewOpeningSource(client *sheet.Client, sourceURL string, schema sheet.BusinessSchema, metrics sheet.FetchMetrics) *OpeningSource {
	return &OpeningSource{
		client:    client,
		sourceURL: sourceURL,
		schema:    schema,
		metrics:   metrics,
	}
}

// Fetch は公開済みの開店レコードをファイル内の行順で返す。
// 破棄とフェイルオープンの規則はClosureSource.Fetchと同一。
func (s *OpeningSource) Fetch(ctx context.Context) []model.OpeningRecord {
	rows := s.client.FetchRows(ctx, string(model.DatasetOpenings), s.sourceURL)

	openings := make([]model.OpeningRecord, 0, len(rows))
	dropped := 0
	for _, fields := range rows {
		row, ok := s.schema.ParseRow(fields)
		if !ok || !row.Published {
			dropped++
			continue
		}
		openings = append(openings, model.OpeningRecord{
			ID:           row.ID,
			AddedAt:      row.AddedAt,
			BusinessName: row.BusinessName,
			OutletName:   row.OutletName,
			Address:      row.Address,
			PostalCode:   row.PostalCode,
			Category:     row.Category,
			OpeningDate:  row.PrimaryDate,
			Description:  row.Description,
			SourceURLs:   row.SourceURLs,
			Tags:         row.Tags,
			ImageURL:     row.ImageURL,
			Published:    true,
		})
	}

	if s.metrics != nil {
		s.metrics.RecordSheetRows(string(model.DatasetOpenings), len(openings), dropped)
	}

	return openings
}
