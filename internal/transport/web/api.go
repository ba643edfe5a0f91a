package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/internal/transport/web/mw"
	"github.com/goliatone/go-protocol-registry/paging"
)

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

type SectorService interface {
	Create(ctx context.Context, in domain.SectorInput) (*domain.Sector, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Sector, error)
	Update(ctx context.Context, id uuid.UUID, in domain.SectorInput) (*domain.Sector, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Page(ctx context.Context, req paging.Request) (paging.Result[domain.SectorRow], error)
	Count(ctx context.Context, search string) (int, error)
	All(ctx context.Context) ([]domain.SectorOption, error)
}

type UserService interface {
	Create(ctx context.Context, in domain.UserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, in domain.UserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, in domain.PasswordChange) error
	ChangeSector(ctx context.Context, id, sectorID uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Page(ctx context.Context, req paging.Request) (paging.Result[domain.UserRow], error)
	Count(ctx context.Context, search string) (int, error)
}

type ProtocolService interface {
	Create(ctx context.Context, in domain.ProtocolInput) (*domain.Protocol, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Protocol, error)
	Update(ctx context.Context, id uuid.UUID, in domain.ProtocolInput) (*domain.Protocol, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Page(ctx context.Context, req paging.Request) (paging.Result[domain.ProtocolRow], error)
	Count(ctx context.Context, search string) (int, error)
}

// TagControl exposes the listing count epochs. *cache.TagCache satisfies it.
type TagControl interface {
	Invalidate(tag string) uint64
	Epoch(tag string) uint64
}

// Pinger reports database health. *bun.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of the API handlers.
type Deps struct {
	Sectors   SectorService
	Users     UserService
	Protocols ProtocolService
	Tags      TagControl
	DB        Pinger
}

// API holds the HTTP handlers.
type API struct {
	Deps
	log cache.Logger
}

func NewAPI(deps Deps, logger cache.Logger) *API {
	if logger == nil {
		logger = cache.NopLogger{}
	}
	return &API{Deps: deps, log: logger}
}

// fail writes err, logging it when it maps to a server error.
func (a *API) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, env := MapError(err)
	if status >= http.StatusInternalServerError {
		a.log.Error(op+" failed", cache.Fields{"req_id": mw.RequestIDFromCtx(r.Context()), "error": err.Error()})
	} else {
		a.log.Debug(op+" refused", cache.Fields{"req_id": mw.RequestIDFromCtx(r.Context()), "code": env.Error.Code})
	}
	writeJSON(w, status, env)
}

// pathID parses the {id} path value; it writes a 400 and returns false when
// the value is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into dst; it writes a 400 and returns false on
// malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeBadRequest(w, "request body is required")
			return false
		}
		writeBadRequest(w, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

// listRequest reads the listing query. pageNumber and searchString are
// accepted as aliases of page and search.
func listRequest(r *http.Request) (paging.Request, error) {
	q := r.URL.Query()
	req := paging.Request{
		SortField:     q.Get("sortLabel"),
		SortDirection: q.Get("sortDirection"),
		Search:        first(q.Get("search"), q.Get("searchString")),
	}

	var err error
	if req.PageNumber, err = intParam(first(q.Get("page"), q.Get("pageNumber"))); err != nil {
		return req, errors.New("page must be a number")
	}
	if req.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		return req, errors.New("pageSize must be a number")
	}
	return req, nil
}

func searchParam(r *http.Request) string {
	q := r.URL.Query()
	return first(q.Get("search"), q.Get("searchString"))
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
