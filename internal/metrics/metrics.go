// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// シートクライアント・トラッカー・ジオコーダーから利用する。
type MetricsCollector interface {
	RecordSheetFetchSuccess(source string)
	RecordSheetFetchFailure(source string)
	RecordSheetRows(source string, parsed, dropped int)
	RecordFetchLatency(duration time.Duration)
	RecordGeocodeHit()
	RecordGeocodeMiss()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	sheetFetchSuccess *prometheus.CounterVec
	sheetFetchFail    *prometheus.CounterVec
	sheetRowsParsed   *prometheus.CounterVec
	sheetRowsDropped  *prometheus.CounterVec
	fetchLatency      prometheus.Histogram
	geocodeHits       prometheus.Counter
	geocodeMisses     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sheetFetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fnbwatch_sheet_fetch_success_total",
			Help: "ソース別のシート取得成功の合計数",
		}, []string{"source"}),
		sheetFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fnbwatch_sheet_fetch_fail_total",
			Help: "ソース別のシート取得失敗の合計数",
		}, []string{"source"}),
		sheetRowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fnbwatch_sheet_rows_parsed_total",
			Help: "ソース別のパース成功行の合計数",
		}, []string{"source"}),
		sheetRowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fnbwatch_sheet_rows_dropped_total",
			Help: "ソース別の破棄行（不正行・非公開行）の合計数",
		}, []string{"source"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fnbwatch_fetch_latency_seconds",
			Help:    "外部ソース取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		geocodeHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fnbwatch_geocode_hit_total",
			Help: "ジオコーディング解決成功の合計数",
		}),
		geocodeMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fnbwatch_geocode_miss_total",
			Help: "ジオコーディング解決失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.sheetFetchSuccess,
		c.sheetFetchFail,
		c.sheetRowsParsed,
		c.sheetRowsDropped,
		c.fetchLatency,
		c.geocodeHits,
		c.geocodeMisses,
	)

	return c
}

// RecordSheetFetchSuccess はシート取得成功を記録する。
func (c *Collector) RecordSheetFetchSuccess(source string) {
	c.sheetFetchSuccess.WithLabelValues(source).Inc()
}

// RecordSheetFetchFailure はシート取得失敗を記録する。
func (c *Collector) RecordSheetFetchFailure(source string) {
	c.sheetFetchFail.WithLabelValues(source).Inc()
}

// RecordSheetRows はパース結果の行数を記録する。
func (c *Collector) RecordSheetRows(source string, parsed, dropped int) {
	c.sheetRowsParsed.WithLabelValues(source).Add(float64(parsed))
	c.sheetRowsDropped.WithLabelValues(source).Add(float64(dropped))
}

// RecordFetchLatency は取得のレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordGeocodeHit はジオコーディング成功を記録する。
func (c *Collector) RecordGeocodeHit() {
	c.geocodeHits.Inc()
}

// RecordGeocodeMiss はジオコーディング失敗を記録する。
func (c *Collector) RecordGeocodeMiss() {
	c.geocodeMisses.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
