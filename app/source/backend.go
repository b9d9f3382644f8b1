package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// BackendSource reads already key-named items from the authenticated
// catalog backend.
type BackendSource struct {
	endpoint string
	token    string
	opts     HTTPOptions
}

func NewBackendSource(endpoint, token string, opts HTTPOptions) *BackendSource {
	return &BackendSource{
		endpoint: endpoint,
		token:    token,
		opts:     opts,
	}
}

func (s *BackendSource) Name() string {
	return "backend"
}

type listResponse struct {
	OK    bool             `json:"ok"`
	Items []map[string]any `json:"items"`
	Error string           `json:"error"`
}

func (s *BackendSource) Fetch(ctx context.Context) (*Result, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	q := u.Query()
	q.Set("action", "list")
	if s.token != "" {
		q.Set("token", s.token)
	}
	u.RawQuery = q.Encode()

	data, err := fetch(ctx, s.opts, u.String())
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse backend JSON: %w", err)
	}

	if !resp.OK {
		if strings.EqualFold(resp.Error, "UNAUTHORIZED") {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("backend error: %s", firstNonEmpty(resp.Error, "request failed"))
	}

	if resp.Items == nil {
		return nil, fmt.Errorf("missing items: %w", ErrBadResponse)
	}

	return &Result{Items: resp.Items}, nil
}
