package paging

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
)

// Options tune an Executor. Zero values take the package defaults.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	CountTTL        time.Duration
	Keys            cache.KeySerializer
	Logger          cache.Logger
}

// Executor runs paged listings for one entity type.
type Executor[T, P any] struct {
	listing Listing[T, P]
	source  Source[T]
	counts  *cache.TagCache[int]

	defaultSize int
	maxSize     int
	countTTL    time.Duration
	keys        cache.KeySerializer
	log         cache.Logger
}

// NewExecutor validates the listing and returns an executor reading from src
// and caching totals in counts.
func NewExecutor[T, P any](listing Listing[T, P], src Source[T], counts *cache.TagCache[int], opts Options) (*Executor[T, P], error) {
	if err := listing.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("paging: source is required")
	}
	if counts == nil {
		return nil, errors.New("paging: count cache is required")
	}

	e := &Executor[T, P]{
		listing:     listing,
		source:      src,
		counts:      counts,
		defaultSize: opts.DefaultPageSize,
		maxSize:     opts.MaxPageSize,
		countTTL:    opts.CountTTL,
		keys:        opts.Keys,
		log:         opts.Logger,
	}
	if e.maxSize <= 0 || e.maxSize > MaxPageSize {
		e.maxSize = MaxPageSize
	}
	if e.defaultSize <= 0 {
		e.defaultSize = DefaultPageSize
	}
	if e.defaultSize > e.maxSize {
		e.defaultSize = e.maxSize
	}
	if e.countTTL <= 0 {
		e.countTTL = cache.DefaultTTL
	}
	if e.keys == nil {
		e.keys = cache.NewDefaultKeySerializer()
	}
	if e.log == nil {
		e.log = cache.NopLogger{}
	}
	return e, nil
}

// Entity returns the listing's cache tag.
func (e *Executor[T, P]) Entity() string { return e.listing.Entity }

// Page returns the requested page and the filtered total.
func (e *Executor[T, P]) Page(ctx context.Context, req Request) (Result[P], error) {
	req = req.normalize(e.defaultSize, e.maxSize)

	q := Query[T]{
		Search:       req.Search,
		SearchFields: e.listing.Search,
		Sort:         e.listing.sortField(req.SortField),
		Desc:         ParseDirection(req.SortDirection) == Desc,
		TieBreak:     e.listing.TieBreak,
		Offset:       (req.PageNumber - 1) * req.PageSize,
		Limit:        req.PageSize,
	}

	total, err := e.Count(ctx, req.Search)
	if err != nil {
		return Result[P]{}, err
	}

	rows, err := e.source.Fetch(ctx, q)
	if err != nil {
		return Result[P]{}, err
	}
	items := make([]P, 0, len(rows))
	for _, row := range rows {
		items = append(items, e.listing.Project(row))
	}

	return Result[P]{
		Items:      items,
		TotalCount: total,
		PageNumber: req.PageNumber,
		PageSize:   req.PageSize,
	}, nil
}

// Count returns the number of rows matching search, served from the count
// cache when possible.
func (e *Executor[T, P]) Count(ctx context.Context, search string) (int, error) {
	key := e.keys.CountKey(e.listing.Entity, search)
	q := Query[T]{Search: normalizeSearch(search), SearchFields: e.listing.Search}

	return e.counts.GetOrCompute(ctx, key, e.listing.Entity, e.countTTL, func(ctx context.Context) (int, error) {
		n, err := e.source.Count(ctx, q)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			n = 0
		}
		e.log.Debug("listing count computed", cache.Fields{"entity": e.listing.Entity, "key": key, "count": n})
		return n, nil
	})
}
