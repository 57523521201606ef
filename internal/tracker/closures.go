// Package tracker は閉店・開店・イベント・記事の各データソースを提供する。
// 各ソースは公開CSVエンドポイントを取得し、スキーマを適用して
// 型付きレコードの集合を返す。取得は読み取り専用で冪等。
// 非公開行はフェッチ境界で破棄され、保持されることはない。
package tracker

import (
	"context"

	"github.com/commune/fnbwatch/internal/model"
	"github.com/commune/fnbwatch/internal/sheet"
)

// ClosureSource は閉店データセットのフェッチャー。
type ClosureSource struct {
	client    *sheet.Client
	sourceURL string
	schema    sheet.BusinessSchema
	metrics   sheet.FetchMetrics
}

// NewClosureSource はClosureSourceの新しいインスタンスを生成する。
// sourceURLが空の場合、Fetchはネットワークアクセスなしで空集合を返す。
func NewClosureSource(client *sheet.Client, sourceURL string, schema sheet.BusinessSchema, metrics sheet.FetchMetrics) *ClosureSource {
	return &ClosureSource{
		client:    client,
		sourceURL: sourceURL,
		schema:    schema,
		metrics:   metrics,
	}
}

// Fetch は公開済みの閉店レコードをファイル内の行順で返す。
// フィールド数不足・店名欠落・非公開の行は破棄される。
// 失敗はフェイルオープンで空集合に縮退し、エラーは返らない。
func (s *ClosureSource) Fetch(ctx context.Context) []model.ClosureRecord {
	rows := s.client.FetchRows(ctx, string(model.DatasetClosures), s.sourceURL)

	closures := make([]model.ClosureRecord, 0, len(rows))
	dropped := 0
	for _, fields := range rows {
		row, ok := s.schema.ParseRow(fields)
		if !ok || !row.Published {
			dropped++
			continue
		}
		closures = append(closures, model.ClosureRecord{
			ID:           row.ID,
			AddedAt:      row.AddedAt,
			BusinessName: row.BusinessName,
			OutletName:   row.OutletName,
			Address:      row.Address,
			PostalCode:   row.PostalCode,
			Category:     row.Category,
			LastDay:      row.PrimaryDate,
			Description:  row.Description,
			SourceURLs:   row.SourceURLs,
			Tags:         row.Tags,
			ImageURL:     row.ImageURL,
			Published:    true,
		})
	}

	if s.metrics != nil {
		s.metrics.RecordSheetRows(string(model.DatasetClosures), len(closures), dropped)
	}

	return closures
}
