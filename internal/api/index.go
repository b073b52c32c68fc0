package api

import (
	_ "embed"
	"log/slog"
	"net/http"
)

//go:embed web/index.html
var indexPage []byte

// IndexHandler serves the single page form. The page expects the JSON api to
// be mounted under /api/v1.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexPage); err != nil {
		slog.Error("error writing index page", "error", err)
	}
}
