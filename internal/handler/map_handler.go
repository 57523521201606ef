package handler

import (
	"context"
	"net/http"

	"github.com/commune/fnbwatch/internal/middleware"
	"github.com/commune/fnbwatch/internal/model"
)

// Geocoder は郵便番号の一括ジオコーディングインターフェース。
type Geocoder interface {
	ResolveBatch(ctx context.Context, postalCodes []string) map[string]model.Coordinates
}

// MapHandler は地図ビュー用のジオコーディング済みレコードを提供する。
type MapHandler struct {
	closures ClosureLister
	openings OpeningLister
	geocoder Geocoder
}

// NewMapHandler はMapHandlerを生成する。
func NewMapHandler(closures ClosureLister, openings OpeningLister, geocoder Geocoder) *MapHandler {
	return &MapHandler{
		closures: closures,
		openings: openings,
		geocoder: geocoder,
	}
}

// mapMarkerResponse は地図マーカー1件のレスポンス。
type mapMarkerResponse struct {
	ID           string            `json:"id"`
	BusinessName string            `json:"business_name"`
	OutletName   string            `json:"outlet_name,omitempty"`
	Address      string            `json:"address,omitempty"`
	PostalCode   string            `json:"postal_code"`
	Category     string            `json:"category,omitempty"`
	Date         string            `json:"date,omitempty"`
	Coordinates  model.Coordinates `json:"coordinates"`
}

// mapResponse は地図ビューのレスポンス。
type mapResponse struct {
	Dataset model.DatasetKind   `json:"dataset"`
	Markers []mapMarkerResponse `json:"markers"`
}

// Markers は指定データセットのジオコーディング済みマーカーを返す。
// 郵便番号が解決できなかったレコードは結果から除外される。
// GET /api/map?dataset=closures|openings
func (h *MapHandler) Markers(w http.ResponseWriter, r *http.Request) {
	dataset := model.DatasetKind(r.URL.Query().Get("dataset"))
	if dataset == "" {
		dataset = model.DatasetClosures
	}

	var entries []mapMarkerResponse
	switch dataset {
	case model.DatasetClosures:
		for _, rec := range h.closures.Fetch(r.Context()) {
			entries = append(entries, mapMarkerResponse{
				ID:           rec.ID,
				BusinessName: rec.BusinessName,
				OutletName:   rec.OutletName,
				Address:      rec.Address,
				PostalCode:   rec.PostalCode,
				Category:     rec.Category,
				Date:         rec.LastDay,
			})
		}
	case model.DatasetOpenings:
		for _, rec := range h.openings.Fetch(r.Context()) {
			entries = append(entries, mapMarkerResponse{
				ID:           rec.ID,
				BusinessName: rec.BusinessName,
				OutletName:   rec.OutletName,
				Address:      rec.Address,
				PostalCode:   rec.PostalCode,
				Category:     rec.Category,
				Date:         rec.OpeningDate,
			})
		}
	default:
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewUnknownDatasetError(string(dataset)))
		return
	}

	// 郵便番号を重複排除して一括解決する
	seen := map[string]bool{}
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		code := e.PostalCode
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	resolved := h.geocoder.ResolveBatch(r.Context(), codes)

	markers := make([]mapMarkerResponse, 0, len(entries))
	for _, e := range entries {
		coords, ok := resolved[e.PostalCode]
		if !ok {
			continue
		}
		e.Coordinates = coords
		markers = append(markers, e)
	}

	writeJSON(w, mapResponse{
		Dataset: dataset,
		Markers: markers,
	})
}
