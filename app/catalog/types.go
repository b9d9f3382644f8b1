package catalog

import (
	"strconv"
	"time"
)

// Canonical record keys
const (
	KeyName        = "name"
	KeySlug        = "slug"
	KeyDescription = "description"
	KeyCategory    = "category"
	KeyTags        = "tags"
	KeyDemoURL     = "demo_url"
	KeyRepoURL     = "repo_url"
	KeyStatus      = "status"
	KeyUpdatedAt   = "updated_at"
	KeyNote        = "note"
)

// CanonicalKeys lists the closed set of record fields in schema order.
var CanonicalKeys = []string{
	KeyName, KeySlug, KeyDescription, KeyCategory, KeyTags,
	KeyDemoURL, KeyRepoURL, KeyStatus, KeyUpdatedAt, KeyNote,
}

// UntitledName is used when a row has neither a name nor a slug.
const UntitledName = "（未命名）"

func IsCanonicalKey(key string) bool {
	switch key {
	case KeyName, KeySlug, KeyDescription, KeyCategory, KeyTags,
		KeyDemoURL, KeyRepoURL, KeyStatus, KeyUpdatedAt, KeyNote:
		return true
	}
	return false
}

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellDate
)

// Cell is a single loosely-typed table value, resolved at the ingestion
// boundary so that nothing downstream has to sniff types.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
	// Formatted is the source's own display text, if it supplied one.
	Formatted string
}

func EmptyCell() Cell           { return Cell{} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(n float64) Cell { return Cell{Kind: CellNumber, Number: n} }
func BoolCell(b bool) Cell      { return Cell{Kind: CellBool, Bool: b} }
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }
func (c Cell) IsEmpty() bool    { return c.Kind == CellEmpty || (c.Kind == CellText && c.Text == "") }

// WithFormatted attaches the source's display text to a non-empty cell.
func (c Cell) WithFormatted(f string) Cell {
	if c.Kind != CellEmpty {
		c.Formatted = f
	}
	return c
}

// String renders the cell the way a spreadsheet user would expect to read it.
// Display text supplied by the source wins.
func (c Cell) String() string {
	if c.Formatted != "" {
		return c.Formatted
	}
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	case CellDate:
		return c.Date.Format(time.RFC3339)
	default:
		return ""
	}
}

// Column describes one source column. Label is the human-authored header,
// ID the source's own column identifier (e.g. "A").
type Column struct {
	ID    string
	Label string
	Type  string
}

type Row struct {
	Cells []Cell
}

// Table is a raw tabular response: columns plus rows of cells. Row length
// is not guaranteed to match the column count.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Record is the canonical catalog entry.
type Record struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Tags        string            `json:"tags"`
	DemoURL     string            `json:"demo_url"`
	RepoURL     string            `json:"repo_url"`
	Status      string            `json:"status"`
	UpdatedAt   *time.Time        `json:"updated_at"`
	Note        string            `json:"note"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Filter holds the user-facing query inputs. Empty fields do not filter.
type Filter struct {
	Keyword  string
	Category string
	Status   string
}
