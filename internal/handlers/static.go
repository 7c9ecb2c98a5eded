package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// contentTypes maps asset extensions to the types the storefront serves.
// Anything else falls back to octet-stream.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
}

// StaticHandler serves storefront assets from the public directory. The
// root path serves index.html; requests resolving outside the public
// directory are rejected.
type StaticHandler struct {
	root string
}

// NewStaticHandler constructs the asset handler for the given directory.
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: filepath.Clean(root)}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requested := req.URL.Path
	if requested == "/" || requested == "" {
		requested = "/index.html"
	}

	if strings.Contains(requested, "..") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	cleaned := path.Clean("/" + requested)
	target := filepath.Join(h.root, filepath.FromSlash(cleaned))
	if target != h.root && !strings.HasPrefix(target, h.root+string(filepath.Separator)) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(target))]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		_, _ = w.Write(raw)
	}
}
