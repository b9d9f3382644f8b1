package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
)

var (
	// ErrUnauthorized is returned when the backend rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadResponse is returned when a response does not have the expected shape.
	ErrBadResponse = errors.New("unexpected response shape")
)

// Result is the raw payload of one fetch. Exactly one of Table or Items is
// set: sheet sources deliver a table that still needs header normalization,
// the backend delivers items that are already key-named.
type Result struct {
	Table *catalog.Table
	Items []map[string]any
}

// Records reconciles the raw payload into canonical records.
func (r *Result) Records(opts catalog.Options) []catalog.Record {
	if r.Table != nil {
		return catalog.ReconcileTable(*r.Table, opts)
	}
	records := make([]catalog.Record, 0, len(r.Items))
	for _, item := range r.Items {
		records = append(records, catalog.ReconcileItem(item, opts))
	}
	return records
}

type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Result, error)
}

type HTTPOptions struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

func (o HTTPOptions) client() *http.Client {
	if o.Client == nil {
		return http.DefaultClient
	}
	return o.Client
}

func fetch(ctx context.Context, opts HTTPOptions, url string) ([]byte, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("HTTP error: %d: %w", resp.StatusCode, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
