package country

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/imroc/req/v3"

	"github.com/bihua-university/countries/internal/document"
)

const DefaultUpstream = "https://restcountries.com/v3.1"

// Upstream searches the REST Countries API by name.
type Upstream struct {
	client *req.Client
}

func NewUpstream(baseURL string, timeout time.Duration) *Upstream {
	if baseURL == "" {
		baseURL = DefaultUpstream
	}
	return &Upstream{
		client: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetCommonHeader("Accept", "application/json"),
	}
}

// SearchByName returns every country whose name contains name. The API
// matches partially, so /name/Ireland also yields the United Kingdom.
func (u *Upstream) SearchByName(ctx context.Context, name string) ([]document.Value, error) {
	resp, err := u.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get("/name/{name}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	list, err := document.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !list.IsList() {
		return nil, fmt.Errorf("%w: expected a list, got %s", ErrUpstream, list.Kind())
	}
	return list.Items(), nil
}
