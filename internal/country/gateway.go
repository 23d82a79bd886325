package country

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bihua-university/countries/internal/document"
)

// Searcher looks countries up by (partial) name.
type Searcher interface {
	SearchByName(ctx context.Context, name string) ([]document.Value, error)
}

// LookupObserver counts where lookups were answered from.
type LookupObserver interface {
	Lookup(source string)
}

type nopObserver struct{}

func (nopObserver) Lookup(string) {}

type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Logger    *slog.Logger
	Observer  LookupObserver
}

// Gateway resolves country names to documents: hot cache first, then the
// local store, then the upstream API. Upstream hits are saved locally.
type Gateway struct {
	store    Store
	upstream Searcher
	cache    *expirable.LRU[string, document.Value]
	logger   *slog.Logger
	observer LookupObserver
}

func NewGateway(store Store, upstream Searcher, o Options) *Gateway {
	if o.CacheSize <= 0 {
		o.CacheSize = 256
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return &Gateway{
		store:    store,
		upstream: upstream,
		cache:    expirable.NewLRU[string, document.Value](o.CacheSize, nil, o.CacheTTL),
		logger:   o.Logger,
		observer: o.Observer,
	}
}

// Resolve returns the document of the country whose common name is name.
// It fails with ErrNotFound, an *AmbiguousError or ErrUpstream.
func (g *Gateway) Resolve(ctx context.Context, name string) (Country, error) {
	name = Normalize(name)
	if doc, ok := g.cache.Get(name); ok {
		g.observer.Lookup("cache")
		return Country{Name: name, Data: doc}, nil
	}

	doc, err := g.store.FindByCommonName(ctx, name)
	switch {
	case err == nil:
		g.observer.Lookup("store")
		g.cache.Add(name, doc)
		return Country{Name: name, Data: doc}, nil
	case !errors.Is(err, ErrNotFound):
		return Country{}, fmt.Errorf("find %s: %w", name, err)
	}

	doc, err = g.fetch(ctx, name)
	if err != nil {
		return Country{}, err
	}
	g.observer.Lookup("upstream")
	if err := g.store.Save(ctx, name, doc); err != nil {
		// the document is still good to serve
		g.logger.WarnContext(ctx, "save country", "name", name, "error", err)
	}
	g.cache.Add(name, doc)
	return Country{Name: name, Data: doc}, nil
}

// fetch asks upstream and picks the exact common name match.
func (g *Gateway) fetch(ctx context.Context, name string) (document.Value, error) {
	list, err := g.upstream.SearchByName(ctx, name)
	if err != nil {
		return document.Value{}, err
	}
	candidates := make([]string, 0, len(list))
	for _, doc := range list {
		common := CommonName(doc)
		if common == name {
			return doc, nil
		}
		if common != "" {
			candidates = append(candidates, common)
		}
	}
	if len(candidates) == 0 {
		return document.Value{}, ErrNotFound
	}
	return document.Value{}, &AmbiguousError{Name: name, Candidates: candidates}
}

// SeedResult is the outcome of seeding one name.
type SeedResult struct {
	Name string
	Err  error
}

// Seed fetches every name from upstream and stores exact matches, whether or
// not they are stored already.
func (g *Gateway) Seed(ctx context.Context, names ...string) []SeedResult {
	results := make([]SeedResult, 0, len(names))
	for _, raw := range names {
		name := Normalize(raw)
		doc, err := g.fetch(ctx, name)
		if err == nil {
			err = g.store.Save(ctx, name, doc)
		}
		if err == nil {
			g.cache.Add(name, doc)
			g.logger.InfoContext(ctx, "country seeded", "name", name)
		} else {
			g.logger.WarnContext(ctx, "country not seeded", "name", name, "error", err)
		}
		results = append(results, SeedResult{Name: name, Err: err})
	}
	return results
}
