package web

import (
	"net/http"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/transport/web/mw"
)

// NewRouter registers the API routes behind the request id, logging and
// recover middleware.
func NewRouter(a *API, logger cache.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.health)

	// sectors
	mux.HandleFunc("GET /api/sectors", a.listSectors)
	mux.HandleFunc("GET /api/sectors/count", a.countSectors)
	mux.HandleFunc("GET /api/sectors/all", a.allSectors)
	mux.HandleFunc("GET /api/sectors/{id}", a.getSector)
	mux.HandleFunc("POST /api/sectors", a.createSector)
	mux.HandleFunc("PUT /api/sectors/{id}", a.updateSector)
	mux.HandleFunc("DELETE /api/sectors/{id}", a.deleteSector)

	// users
	mux.HandleFunc("GET /api/users", a.listUsers)
	mux.HandleFunc("GET /api/users/count", a.countUsers)
	mux.HandleFunc("GET /api/users/{id}", a.getUser)
	mux.HandleFunc("POST /api/users", a.createUser)
	mux.HandleFunc("PUT /api/users/{id}", a.updateUser)
	mux.HandleFunc("PUT /api/users/{id}/password", a.changePassword)
	mux.HandleFunc("PUT /api/users/{id}/sector", a.changeSector)
	mux.HandleFunc("DELETE /api/users/{id}", a.deleteUser)

	// protocols
	mux.HandleFunc("GET /api/protocols", a.listProtocols)
	mux.HandleFunc("GET /api/protocols/count", a.countProtocols)
	mux.HandleFunc("GET /api/protocols/{id}", a.getProtocol)
	mux.HandleFunc("POST /api/protocols", a.createProtocol)
	mux.HandleFunc("PUT /api/protocols/{id}", a.updateProtocol)
	mux.HandleFunc("DELETE /api/protocols/{id}", a.deleteProtocol)

	// cache
	mux.HandleFunc("POST /api/cache/invalidate", a.invalidateCache)
	mux.HandleFunc("GET /api/cache/status", a.cacheStatus)

	mux.HandleFunc("/", writeNotFound)

	return mw.WithRequestID(mw.Logging(logger)(mw.Recover(logger)(mux)))
}
