package country

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/bihua-university/countries/internal/document"
)

var (
	ErrNotFound = errors.New("country not found")
	ErrUpstream = errors.New("upstream request failed")
)

// AmbiguousError is returned when the upstream name search matched countries
// but none of them has exactly the requested common name.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("no exact match for %s among %s", e.Name, strings.Join(e.Candidates, ", "))
}

// Is makes an ambiguous lookup count as not found.
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrNotFound
}

// Country is a resolved country document.
type Country struct {
	Name string
	Data document.Value
}

var commonNamePath = document.Path{"name", "common"}

// CommonName returns name.common of a country document.
func CommonName(doc document.Value) string {
	v, ok := document.Resolve(doc, commonNamePath)
	if !ok || v.Kind() != document.KindString {
		return ""
	}
	return v.Str()
}

// Normalize capitalises every space separated word of a country name,
// "united STATES" becomes "United States".
func Normalize(name string) string {
	words := strings.Split(strings.TrimSpace(name), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// Store is the local country document store.
type Store interface {
	// FindByCommonName returns ErrNotFound when nothing is stored under name.
	FindByCommonName(ctx context.Context, name string) (document.Value, error)
	Save(ctx context.Context, name string, doc document.Value) error
}

// MemoryStore keeps country documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]document.Value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]document.Value)}
}

func (s *MemoryStore) FindByCommonName(_ context.Context, name string) (document.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return document.Value{}, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) Save(_ context.Context, name string, doc document.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = doc
	return nil
}
