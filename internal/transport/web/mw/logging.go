package mw

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
)

type metaWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *metaWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metaWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Logging logs one line per request with status, size and duration.
// Server errors are logged at error level.
func Logging(l cache.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			mw := &metaWriter{ResponseWriter: w}

			next.ServeHTTP(mw, r)

			if mw.status == 0 {
				mw.status = http.StatusOK
			}
			fields := cache.Fields{
				"req_id":      RequestIDFromCtx(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      mw.status,
				"size":        mw.size,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if mw.status >= http.StatusInternalServerError {
				l.Error("request", fields)
				return
			}
			l.Info("request", fields)
		})
	}
}

// Recover turns a handler panic into a 500 and logs the stack.
func Recover(l cache.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					l.Error("panic", cache.Fields{
						"req_id": RequestIDFromCtx(r.Context()),
						"panic":  v,
						"stack":  string(debug.Stack()),
					})
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
