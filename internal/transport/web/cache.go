package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/transport/web/mw"
)

// TagStatus reports the epoch of a cache tag. Counts cached under an older
// epoch are never served.
type TagStatus struct {
	EntityType string `json:"entityType"`
	Epoch      uint64 `json:"epoch"`
}

func entityType(w http.ResponseWriter, r *http.Request) (string, bool) {
	tag := strings.TrimSpace(r.URL.Query().Get("entityType"))
	if tag == "" {
		writeBadRequest(w, "entityType is required")
		return "", false
	}
	return tag, true
}

// invalidateCache drops every count cached for entityType. Unknown entity
// types are accepted; nothing is cached under them.
func (a *API) invalidateCache(w http.ResponseWriter, r *http.Request) {
	tag, ok := entityType(w, r)
	if !ok {
		return
	}
	epoch := a.Tags.Invalidate(tag)
	a.log.Info("cache invalidated", cache.Fields{"req_id": mw.RequestIDFromCtx(r.Context()), "tag": tag, "epoch": epoch})
	writeData(w, http.StatusOK, TagStatus{EntityType: tag, Epoch: epoch})
}

func (a *API) cacheStatus(w http.ResponseWriter, r *http.Request) {
	tag, ok := entityType(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, TagStatus{EntityType: tag, Epoch: a.Tags.Epoch(tag)})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.PingContext(ctx); err != nil {
			a.log.Error("health check failed", cache.Fields{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, fail(CodeUnexpected, "database unavailable", nil))
			return
		}
	}
	writeData(w, http.StatusOK, "ok")
}
