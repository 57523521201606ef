// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/commune/fnbwatch/internal/middleware"
	"github.com/commune/fnbwatch/internal/model"
	"github.com/commune/fnbwatch/internal/view"
)

const (
	// defaultPageSize はテーブルビューの1ページあたりのデフォルト件数。
	defaultPageSize = 20
	// maxPageSize はpage_sizeの上限。
	maxPageSize = 100
	// defaultRecentCount は新着ビューのデフォルト件数。
	defaultRecentCount = 5
	// maxRecentCount は新着ビューの件数上限。
	maxRecentCount = 50
)

// sortableFields はテーブルビューでソート可能なフィールド名。
var sortableFields = map[string]bool{
	"business_name": true,
	"outlet_name":   true,
	"address":       true,
	"category":      true,
	"date":          true,
	"added_at":      true,
}

// ClosureLister は閉店レコードの取得インターフェース。
type ClosureLister interface {
	Fetch(ctx context.Context) []model.ClosureRecord
}

// OpeningLister は開店レコードの取得インターフェース。
type OpeningLister interface {
	Fetch(ctx context.Context) []model.OpeningRecord
}

// DatasetHandler は閉店・開店データセットのHTTPハンドラー。
// 両データセットを同じクエリ語彙（q/sort/dir/page/page_size）で提供する。
type DatasetHandler struct {
	closures ClosureLister
	openings OpeningLister
}

// NewDatasetHandler はDatasetHandlerを生成する。
func NewDatasetHandler(closures ClosureLister, openings OpeningLister) *DatasetHandler {
	return &DatasetHandler{
		closures: closures,
		openings: openings,
	}
}

// --- レスポンス型 ---

// businessRecordResponse は閉店・開店レコード1件のレスポンス。
type businessRecordResponse struct {
	ID           string `json:"id"`
	AddedAt      string `json:"added_at"`
	BusinessName string `json:"business_name"`
	OutletName   string `json:"outlet_name,omitempty"`
	Address      string `json:"address,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Category     string `json:"category,omitempty"`
	Date         string `json:"date,omitempty"` // 最終営業日または開店日の生値
	Description  string `json:"description,omitempty"`
	SourceURLs   string `json:"source_urls,omitempty"`
	Tags         string `json:"tags,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// tableResponse はテーブルビューのレスポンス。
type tableResponse struct {
	Items      []businessRecordResponse `json:"items"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// recentResponse は新着ビューのレスポンス。
type recentResponse struct {
	Items []businessRecordResponse `json:"items"`
}

// statsResponse は統計ビューのレスポンス。
type statsResponse struct {
	Total         int                 `json:"total"`
	MonthlyCounts model.MonthlyCounts `json:"monthly_counts"`
	Years         []string            `json:"years"`
}

func closureResponse(c model.ClosureRecord) businessRecordResponse {
	return businessRecordResponse{
		ID:           c.ID,
		AddedAt:      c.AddedAt,
		BusinessName: c.BusinessName,
		OutletName:   c.OutletName,
		Address:      c.Address,
		PostalCode:   c.PostalCode,
		Category:     c.Category,
		Date:         c.LastDay,
		Description:  c.Description,
		SourceURLs:   c.SourceURLs,
		Tags:         c.Tags,
		ImageURL:     c.ImageURL,
	}
}

func openingResponse(o model.OpeningRecord) businessRecordResponse {
	return businessRecordResponse{
		ID:           o.ID,
		AddedAt:      o.AddedAt,
		BusinessName: o.BusinessName,
		OutletName:   o.OutletName,
		Address:      o.Address,
		PostalCode:   o.PostalCode,
		Category:     o.Category,
		Date:         o.OpeningDate,
		Description:  o.Description,
		SourceURLs:   o.SourceURLs,
		Tags:         o.Tags,
		ImageURL:     o.ImageURL,
	}
}

// tableQuery はテーブルビューのクエリパラメータ。
type tableQuery struct {
	term     string
	sort     string
	dir      view.Direction
	page     int
	pageSize int
}

// parseTableQuery はクエリパラメータを検証して取り出す。
// 不正な値はAPIErrorとして返し、ハンドラーが400で応答する。
func parseTableQuery(r *http.Request) (tableQuery, *model.APIError) {
	q := tableQuery{
		term:     r.URL.Query().Get("q"),
		sort:     "date",
		dir:      view.Desc,
		page:     1,
		pageSize: defaultPageSize,
	}

	if s := r.URL.Query().Get("sort"); s != "" {
		if !sortableFields[s] {
			return q, model.NewInvalidQueryError("sort", "未対応のソートフィールドです")
		}
		q.sort = s
	}

	if d := r.URL.Query().Get("dir"); d != "" {
		switch view.Direction(d) {
		case view.Asc, view.Desc:
			q.dir = view.Direction(d)
		default:
			return q, model.NewInvalidQueryError("dir", "asc または desc を指定してください")
		}
	}

	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return q, model.NewInvalidQueryError("page", "1以上の整数を指定してください")
		}
		q.page = n
	}

	if ps := r.URL.Query().Get("page_size"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 1 || n > maxPageSize {
			return q, model.NewInvalidQueryError("page_size", "1〜100の整数を指定してください")
		}
		q.pageSize = n
	}

	return q, nil
}

// ListClosures は閉店レコードのテーブルビューを返す。
// GET /api/closures?q=&sort=&dir=&page=&page_size=
func (h *DatasetHandler) ListClosures(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseTableQuery(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	records := h.closures.Fetch(r.Context())
	writeTableResponse(w, q, view.Search(records, q.term), closureResponse)
}

// ListOpenings は開店レコードのテーブルビューを返す。
// GET /api/openings?q=&sort=&dir=&page=&page_size=
func (h *DatasetHandler) ListOpenings(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseTableQuery(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	records := h.openings.Fetch(r.Context())
	writeTableResponse(w, q, view.Search(records, q.term), openingResponse)
}

// writeTableResponse は検索済みレコードをソート・ページングしてJSONで書き込む。
// テーブルビューの合成は常に Paginate(Sort(Search)) の順。
func writeTableResponse[T view.Record](w http.ResponseWriter, q tableQuery, matched []T, convert func(T) businessRecordResponse) {
	sorted := view.Sort(matched, q.sort, q.dir)
	pageItems := view.Paginate(sorted, q.pageSize, q.page)

	items := make([]businessRecordResponse, 0, len(pageItems))
	for _, rec := range pageItems {
		items = append(items, convert(rec))
	}

	writeJSON(w, tableResponse{
		Items:      items,
		Total:      len(matched),
		Page:       q.page,
		PageSize:   q.pageSize,
		TotalPages: view.TotalPages(len(matched), q.pageSize),
	})
}

// parseRecentCount は新着ビューの件数パラメータを検証して取り出す。
func parseRecentCount(r *http.Request) (int, *model.APIError) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return defaultRecentCount, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxRecentCount {
		return 0, model.NewInvalidQueryError("n", "1〜50の整数を指定してください")
	}
	return n, nil
}

// RecentClosures は閉店レコードの新着ビューを返す。
// GET /api/closures/recent?n=
func (h *DatasetHandler) RecentClosures(w http.ResponseWriter, r *http.Request) {
	n, apiErr := parseRecentCount(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	records := view.Recent(h.closures.Fetch(r.Context()), n)
	items := make([]businessRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, closureResponse(rec))
	}
	writeJSON(w, recentResponse{Items: items})
}

// RecentOpenings は開店レコードの新着ビューを返す。
// GET /api/openings/recent?n=
func (h *DatasetHandler) RecentOpenings(w http.ResponseWriter, r *http.Request) {
	n, apiErr := parseRecentCount(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	records := view.Recent(h.openings.Fetch(r.Context()), n)
	items := make([]businessRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, openingResponse(rec))
	}
	writeJSON(w, recentResponse{Items: items})
}

// ClosureStats は閉店レコードの統計ビューを返す。
// GET /api/closures/stats
func (h *DatasetHandler) ClosureStats(w http.ResponseWriter, r *http.Request) {
	records := h.closures.Fetch(r.Context())
	writeJSON(w, statsResponse{
		Total:         len(records),
		MonthlyCounts: view.MonthlyCounts(records),
		Years:         view.AvailableYears(records),
	})
}

// OpeningStats は開店レコードの統計ビューを返す。
// GET /api/openings/stats
func (h *DatasetHandler) OpeningStats(w http.ResponseWriter, r *http.Request) {
	records := h.openings.Fetch(r.Context())
	writeJSON(w, statsResponse{
		Total:         len(records),
		MonthlyCounts: view.MonthlyCounts(records),
		Years:         view.AvailableYears(records),
	})
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
