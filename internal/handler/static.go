package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// mimeTypes は配信する静的アセットの拡張子とContent-Typeの対応表。
// 表にない拡張子はapplication/octet-streamで配信される。
var mimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".mjs":   "text/javascript; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".txt":   "text/plain; charset=utf-8",
	".map":   "application/json; charset=utf-8",
}

// StaticHandler はビルド済みSPAアセットを配信するハンドラー。
// 存在しないパスにはindex.htmlを返し、クライアント側ルーティングに委ねる。
type StaticHandler struct {
	root string
}

// NewStaticHandler はStaticHandlerを生成する。
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

// ServeHTTP は静的ファイルを配信する。
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if name == "." || name == "" {
		name = "index.html"
	}

	// ルート外への脱出を拒否する
	if strings.HasPrefix(name, "..") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.root, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		// SPAフォールバック: 未知のパスはindex.html
		path = filepath.Join(h.root, "index.html")
		if _, err := os.Stat(path); err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
	}

	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	http.ServeFile(w, r, path)
}
