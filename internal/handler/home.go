package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/shopfront/internal/view"
)

// HandleHome renders the landing page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	name := ""
	if account := AccountFromContext(r.Context()); account != nil {
		name = account.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.HomePage(name).Render(r.Context(), w); err != nil {
		slog.Error("render home page", "error", err)
	}
}
