package country

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bihua-university/countries/internal/document"
)

const (
	irelandSearch = `[
		{"name":{"common":"United Kingdom","official":"United Kingdom of Great Britain and Northern Ireland"},"area":242900},
		{"name":{"common":"Ireland","official":"Republic of Ireland"},"area":70273,"population":4994724}
	]`
	guineaSearch = `[
		{"name":{"common":"Guinea-Bissau"}},
		{"name":{"common":"Equatorial Guinea"}},
		{"name":{"common":"Papua New Guinea"}}
	]`
)

type lookupCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *lookupCounter) Lookup(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[source]++
}

func (c *lookupCounter) get(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[source]
}

type GatewaySuite struct {
	suite.Suite
	ctx      context.Context
	srv      *httptest.Server
	hits     map[string]int
	hitsMu   sync.Mutex
	store    *MemoryStore
	counter  *lookupCounter
	gateway  *Gateway
	upstream *Upstream
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.ctx = context.Background()
	s.hits = make(map[string]int)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /name/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		s.hitsMu.Lock()
		s.hits[name]++
		s.hitsMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch name {
		case "Ireland":
			_, _ = w.Write([]byte(irelandSearch))
		case "Guinea":
			_, _ = w.Write([]byte(guineaSearch))
		case "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
		}
	})
	s.srv = httptest.NewServer(mux)
	s.store = NewMemoryStore()
	s.counter = &lookupCounter{counts: make(map[string]int)}
	s.upstream = NewUpstream(s.srv.URL, 5*time.Second)
	s.gateway = NewGateway(s.store, s.upstream, Options{
		CacheSize: 8,
		CacheTTL:  time.Minute,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer:  s.counter,
	})
}

func (s *GatewaySuite) TearDownTest() {
	s.srv.Close()
}

func (s *GatewaySuite) upstreamHits(name string) int {
	s.hitsMu.Lock()
	defer s.hitsMu.Unlock()
	return s.hits[name]
}

func (s *GatewaySuite) TestResolvePicksExactMatchAndSavesIt() {
	c, err := s.gateway.Resolve(s.ctx, "ireland")
	s.Require().NoError(err)
	s.Equal("Ireland", c.Name)
	s.Equal("Ireland", CommonName(c.Data))

	stored, err := s.store.FindByCommonName(s.ctx, "Ireland")
	s.Require().NoError(err)
	s.JSONEq(c.Data.String(), stored.String())
	s.Equal(1, s.counter.get("upstream"))
}

func (s *GatewaySuite) TestResolveUsesCacheThenStore() {
	_, err := s.gateway.Resolve(s.ctx, "Ireland")
	s.Require().NoError(err)
	_, err = s.gateway.Resolve(s.ctx, "IRELAND")
	s.Require().NoError(err)
	s.Equal(1, s.upstreamHits("Ireland"))
	s.Equal(1, s.counter.get("cache"))

	// a fresh gateway over the same store skips upstream
	fresh := NewGateway(s.store, s.upstream, Options{Observer: s.counter})
	_, err = fresh.Resolve(s.ctx, "Ireland")
	s.Require().NoError(err)
	s.Equal(1, s.upstreamHits("Ireland"))
	s.Equal(1, s.counter.get("store"))
}

func (s *GatewaySuite) TestResolveStoreHitNeverCallsUpstream() {
	doc := document.MustParse(`{"name":{"common":"Atlantis"},"area":1}`)
	s.Require().NoError(s.store.Save(s.ctx, "Atlantis", doc))

	c, err := s.gateway.Resolve(s.ctx, "atlantis")
	s.Require().NoError(err)
	s.JSONEq(doc.String(), c.Data.String())
	s.Equal(0, s.upstreamHits("Atlantis"))
}

func (s *GatewaySuite) TestResolveNotFound() {
	_, err := s.gateway.Resolve(s.ctx, "Narnia")
	s.ErrorIs(err, ErrNotFound)

	var amb *AmbiguousError
	s.False(errors.As(err, &amb))
}

func (s *GatewaySuite) TestResolveAmbiguous() {
	_, err := s.gateway.Resolve(s.ctx, "guinea")
	s.ErrorIs(err, ErrNotFound)

	var amb *AmbiguousError
	s.Require().ErrorAs(err, &amb)
	s.Equal("Guinea", amb.Name)
	s.Equal([]string{"Guinea-Bissau", "Equatorial Guinea", "Papua New Guinea"}, amb.Candidates)

	_, err = s.store.FindByCommonName(s.ctx, "Guinea")
	s.ErrorIs(err, ErrNotFound)
}

func (s *GatewaySuite) TestResolveUpstreamFailure() {
	_, err := s.gateway.Resolve(s.ctx, "broken")
	s.ErrorIs(err, ErrUpstream)
	s.NotErrorIs(err, ErrNotFound)
}

func (s *GatewaySuite) TestSeed() {
	results := s.gateway.Seed(s.ctx, "ireland", "narnia", "guinea")
	s.Require().Len(results, 3)

	s.Equal("Ireland", results[0].Name)
	s.NoError(results[0].Err)
	s.ErrorIs(results[1].Err, ErrNotFound)
	s.ErrorIs(results[2].Err, ErrNotFound)

	_, err := s.store.FindByCommonName(s.ctx, "Ireland")
	s.NoError(err)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"france":         "France",
		"united states":  "United States",
		"UNITED kingdom": "United Kingdom",
		"  peru ":        "Peru",
		"côte d'ivoire":  "Côte D'ivoire",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestCommonName(t *testing.T) {
	assert.Equal(t, "Peru", CommonName(document.MustParse(`{"name":{"common":"Peru"}}`)))
	assert.Equal(t, "", CommonName(document.MustParse(`{"name":"Peru"}`)))
	assert.Equal(t, "", CommonName(document.MustParse(`{"name":{"common":1}}`)))
}

func TestUpstreamRejectsNonList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":{"common":"Peru"}}`))
	}))
	defer srv.Close()

	_, err := NewUpstream(srv.URL, time.Second).SearchByName(context.Background(), "Peru")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}
