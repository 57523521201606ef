package handler

import "net/http"

// MetaConfig はメタ情報エンドポイントが公開する設定値。
type MetaConfig struct {
	SubmitFormURL string
	NewsletterURL string
	ClosuresOn    bool
	OpeningsOn    bool
	EventsOn      bool
	ArticlesOn    bool
	StoriesOn     bool
}

// MetaHandler はフロントエンド向けのメタ情報を提供する。
// どのデータソースが有効かをクライアントが判断できるようにする。
type MetaHandler struct {
	config MetaConfig
}

// NewMetaHandler はMetaHandlerを生成する。
func NewMetaHandler(config MetaConfig) *MetaHandler {
	return &MetaHandler{config: config}
}

// metaResponse はメタ情報のレスポンス。
type metaResponse struct {
	SubmitFormURL string          `json:"submit_form_url,omitempty"`
	NewsletterURL string          `json:"newsletter_url,omitempty"`
	Datasets      map[string]bool `json:"datasets"`
}

// Get はメタ情報を返す。
// GET /api/meta
func (h *MetaHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, metaResponse{
		SubmitFormURL: h.config.SubmitFormURL,
		NewsletterURL: h.config.NewsletterURL,
		Datasets: map[string]bool{
			"closures": h.config.ClosuresOn,
			"openings": h.config.OpeningsOn,
			"events":   h.config.EventsOn,
			"articles": h.config.ArticlesOn,
			"stories":  h.config.StoriesOn,
		},
	})
}
