package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/vitaly/internal/telemetry/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const LatestPath = "/api/latest"

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrEmptySnapshot is returned for a 2xx body without a session, e.g. null or {}.
	ErrEmptySnapshot = errors.New("empty session snapshot")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=session

// Source fetches the latest session snapshot.
type Source interface {
	Latest(ctx context.Context) (*Snapshot, error)
}

var _ Source = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a telemetry API client. A nil httpClient gets a traced default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewTracedHttpClient(10 * time.Second)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func NewTracedHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func (c *Client) Latest(ctx context.Context) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.client.latest")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	url := c.baseURL + LatestPath
	span.SetAttributes(attribute.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var snapshot *Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot == nil || snapshot.SessionID == "" {
		return nil, ErrEmptySnapshot
	}

	return snapshot, nil
}
