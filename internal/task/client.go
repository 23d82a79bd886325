package task

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/imroc/req/v3"
)

const (
	// VersionHeader carries the client version; servers reject outdated clients.
	VersionHeader = "Countries-Client-Version"
	ClientVersion = "v0.1.0"
)

// APIError is a non-2xx answer of the comparison API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// Client submits comparisons to a server and polls their results.
type Client struct {
	PollInterval time.Duration

	http *req.Client
}

func NewClient(serverURL string) *Client {
	return &Client{
		PollInterval: time.Second,
		http: req.C().
			SetBaseURL(serverURL).
			SetTimeout(30*time.Second).
			SetCommonHeader(VersionHeader, ClientVersion),
	}
}

type submitResponse struct {
	TaskID  *string `json:"task_id"`
	Message string  `json:"message"`
}

// Submit asks the server to compare countries a and b on the given fields
// and returns the task id.
func (c *Client) Submit(ctx context.Context, a, b string, fields []string) (string, error) {
	if fields == nil {
		fields = []string{}
	}
	var out submitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"a": a, "b": b}).
		SetBody(map[string][]string{"comparators": fields}).
		SetSuccessResult(&out).
		SetErrorResult(&out).
		Post("/countries/compare/{a}/{b}")
	if err != nil {
		return "", fmt.Errorf("submit comparison: %w", err)
	}
	if resp.IsErrorState() {
		return "", &APIError{Status: resp.StatusCode, Message: out.Message}
	}
	if out.TaskID == nil {
		return "", fmt.Errorf("submit comparison: empty task id")
	}
	return *out.TaskID, nil
}

// Get fetches the current snapshot of a task.
func (c *Client) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetSuccessResult(&t).
		Get("/countries/compare/result/{id}")
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsErrorState() {
		return nil, &APIError{Status: resp.StatusCode}
	}
	return &t, nil
}

// Wait polls until the task is terminal or ctx is done.
func (c *Client) Wait(ctx context.Context, id string) (*Task, error) {
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()
	for {
		t, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if t.Status.Terminal() {
			return t, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
