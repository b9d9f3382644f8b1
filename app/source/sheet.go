package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
)

const gvizBaseURL = "https://docs.google.com/spreadsheets/d/%s/gviz/tq"

// SheetSource reads a Google Sheet through the gviz query endpoint.
type SheetSource struct {
	sheetID string
	gid     string
	baseURL string
	opts    HTTPOptions
}

// NewSheetSource creates a source for the given sheet and tab. baseURL
// overrides the gviz endpoint and may be empty.
func NewSheetSource(sheetID, gid, baseURL string, opts HTTPOptions) *SheetSource {
	return &SheetSource{
		sheetID: sheetID,
		gid:     gid,
		baseURL: baseURL,
		opts:    opts,
	}
}

func (s *SheetSource) Name() string {
	return "sheet:" + s.sheetID
}

func (s *SheetSource) URL() string {
	base := s.baseURL
	if base == "" {
		base = fmt.Sprintf(gvizBaseURL, url.PathEscape(s.sheetID))
	}

	params := url.Values{}
	if s.gid != "" {
		params.Set("gid", s.gid)
	}
	params.Set("tqx", "out:json")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

func (s *SheetSource) Fetch(ctx context.Context) (*Result, error) {
	data, err := fetch(ctx, s.opts, s.URL())
	if err != nil {
		return nil, err
	}

	table, err := ParseGviz(data)
	if err != nil {
		return nil, err
	}

	return &Result{Table: table}, nil
}

type gvizResponse struct {
	Status string      `json:"status"`
	Errors []gvizError `json:"errors"`
	Table  *gvizTable  `json:"table"`
}

type gvizError struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

type gvizTable struct {
	Cols []gvizColumn `json:"cols"`
	Rows []gvizRow    `json:"rows"`
}

type gvizColumn struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

// ParseGviz decodes a gviz response, with or without the
// google.visualization.Query.setResponse(...) wrapper.
func ParseGviz(data []byte) (*catalog.Table, error) {
	payload, err := unwrapGviz(data)
	if err != nil {
		return nil, err
	}

	var resp gvizResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse gviz JSON: %w", err)
	}

	if resp.Status == "error" {
		msg := "unknown error"
		if len(resp.Errors) > 0 {
			e := resp.Errors[0]
			msg = firstNonEmpty(e.DetailedMessage, e.Message, e.Reason, msg)
		}
		return nil, fmt.Errorf("gviz query failed: %s", msg)
	}

	if resp.Table == nil {
		return nil, fmt.Errorf("missing table: %w", ErrBadResponse)
	}

	table := &catalog.Table{
		Columns: make([]catalog.Column, len(resp.Table.Cols)),
		Rows:    make([]catalog.Row, 0, len(resp.Table.Rows)),
	}
	for i, c := range resp.Table.Cols {
		table.Columns[i] = catalog.Column{ID: c.ID, Label: c.Label, Type: c.Type}
	}
	for _, r := range resp.Table.Rows {
		cells := make([]catalog.Cell, len(r.C))
		for i, c := range r.C {
			if c == nil {
				continue
			}
			cells[i] = catalog.CellFromValue(c.V)
			if c.F != "" && i < len(table.Columns) && isTemporal(table.Columns[i].Type) {
				cells[i] = cells[i].WithFormatted(c.F)
			}
		}
		table.Rows = append(table.Rows, catalog.Row{Cells: cells})
	}

	return table, nil
}

// Temporal gviz values arrive as Date(...) constructors; f holds what the
// sheet displays.
func isTemporal(colType string) bool {
	switch colType {
	case "date", "datetime", "timeofday":
		return true
	}
	return false
}

func unwrapGviz(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		return trimmed, nil
	}

	start := bytes.Index(trimmed, []byte("setResponse("))
	end := bytes.LastIndexByte(trimmed, ')')
	if start < 0 || end < 0 {
		return nil, fmt.Errorf("missing setResponse wrapper: %w", ErrBadResponse)
	}
	start += len("setResponse(")
	if end < start {
		return nil, fmt.Errorf("malformed setResponse wrapper: %w", ErrBadResponse)
	}

	return trimmed[start:end], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
