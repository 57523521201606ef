package tracker

import (
	"context"
	"sort"

	"github.com/commune/fnbwatch/internal/model"
	"github.com/commune/fnbwatch/internal/sheet"
	"github.com/commune/fnbwatch/internal/view"
)

// maxArticles はフェッチ境界を越えて返される記事の最大件数。
const maxArticles = 5

// ArticleSource はキュレーション記事シートのフェッチャー。
type ArticleSource struct {
	client    *sheet.Client
	sourceURL string
	schema    sheet.ArticleSchema
	metrics   sheet.FetchMetrics
}

// NewArticleSource はArticleSourceの新しいインスタンスを生成する。
func NewArticleSource(client *sheet.Client, sourceURL string, schema sheet.ArticleSchema, metrics sheet.FetchMetrics) *ArticleSource {
	return &ArticleSource{
		client:    client,
		sourceURL: sourceURL,
		schema:    schema,
		metrics:   metrics,
	}
}

// Fetch は記事レコードを公開日の降順で最大5件返す。
// 5件の切り詰めはフェッチ境界で行われ、それ以降の記事は保持されない。
func (s *ArticleSource) Fetch(ctx context.Context) []model.ArticleRecord {
	rows := s.client.FetchRows(ctx, "articles", s.sourceURL)

	articles := make([]model.ArticleRecord, 0, len(rows))
	dropped := 0
	for _, fields := range rows {
		a, ok := s.schema.ParseRow(fields)
		if !ok {
			dropped++
			continue
		}
		articles = append(articles, a)
	}

	if s.metrics != nil {
		s.metrics.RecordSheetRows("articles", len(articles), dropped)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		ti, _ := view.ParseDate(articles[i].PublishedDate)
		tj, _ := view.ParseDate(articles[j].PublishedDate)
		return ti.After(tj)
	})

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}
	return articles
}
