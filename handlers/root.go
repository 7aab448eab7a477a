package handlers

import (
	"context"
	"net/http"
	"time"

	"partsapi/httputil"
)

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Apar parts server running"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		h.Log.WithError(err).Warn("store ping failed")
		httputil.JSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
