package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Reconciler turns raw rows into canonical records for one column set.
// Column keys are resolved once at construction.
type Reconciler struct {
	keys    []string
	coercer *DateCoercer
}

// Options bundles the collaborators a Reconciler uses. Zero values fall
// back to the built-in synonym table and time.Local.
type Options struct {
	Normalizer *Normalizer
	Coercer    *DateCoercer
}

func (o Options) normalizer() *Normalizer {
	if o.Normalizer == nil {
		return defaultNormalizer
	}
	return o.Normalizer
}

func (o Options) coercer() *DateCoercer {
	if o.Coercer == nil {
		return defaultCoercer
	}
	return o.Coercer
}

func NewReconciler(columns []Column, opts Options) *Reconciler {
	n := opts.normalizer()
	keys := make([]string, len(columns))
	for i, col := range columns {
		key := n.Normalize(col.Label)
		if key == "" {
			key = fmt.Sprintf("col_%d", i)
		}
		keys[i] = key
	}
	return &Reconciler{keys: keys, coercer: opts.coercer()}
}

// Keys returns the resolved key for each column position.
func (r *Reconciler) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Reconcile builds one record from row. Missing trailing cells count as
// empty; cells beyond the column count are ignored. When two columns share
// a key, the later column wins.
func (r *Reconciler) Reconcile(row []Cell) Record {
	var rec Record
	for i, key := range r.keys {
		var cell Cell
		if i < len(row) {
			cell = row[i]
		}
		r.assign(&rec, key, cell)
	}
	applyNameFallback(&rec)
	return rec
}

func (r *Reconciler) assign(rec *Record, key string, cell Cell) {
	if key == KeyUpdatedAt {
		rec.UpdatedAt = r.coercer.Coerce(cell)
		return
	}

	value := cell.String()
	switch key {
	case KeyName:
		rec.Name = value
	case KeySlug:
		rec.Slug = value
	case KeyDescription:
		rec.Description = value
	case KeyCategory:
		rec.Category = value
	case KeyTags:
		rec.Tags = value
	case KeyDemoURL:
		rec.DemoURL = value
	case KeyRepoURL:
		rec.RepoURL = value
	case KeyStatus:
		rec.Status = value
	case KeyNote:
		rec.Note = value
	default:
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[key] = value
	}
}

func applyNameFallback(rec *Record) {
	if strings.TrimSpace(rec.Name) != "" {
		return
	}
	if strings.TrimSpace(rec.Slug) != "" {
		rec.Name = rec.Slug
		return
	}
	rec.Name = UntitledName
}

// Reconcile is a convenience for a single row against columns using the
// built-in synonym table.
func Reconcile(columns []Column, row []Cell) Record {
	return NewReconciler(columns, Options{}).Reconcile(row)
}

// ReconcileTable reconciles every row of t, preserving row order.
func ReconcileTable(t Table, opts Options) []Record {
	r := NewReconciler(t.Columns, opts)
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, r.Reconcile(row.Cells))
	}
	return records
}

// ReconcileItem reconciles a record that already arrives key-named, such as
// an item from the authenticated backend. Keys are visited in sorted order
// so duplicate spellings resolve deterministically.
func ReconcileItem(item map[string]any, opts Options) Record {
	names := make([]string, 0, len(item))
	for k := range item {
		names = append(names, k)
	}
	sort.Strings(names)

	columns := make([]Column, len(names))
	row := make([]Cell, len(names))
	for i, name := range names {
		columns[i] = Column{Label: name}
		row[i] = CellFromValue(item[name])
	}
	return NewReconciler(columns, opts).Reconcile(row)
}

// CellFromValue classifies a decoded JSON value.
func CellFromValue(v any) Cell {
	switch val := v.(type) {
	case nil:
		return EmptyCell()
	case string:
		return TextCell(val)
	case float64:
		return NumberCell(val)
	case float32:
		return NumberCell(float64(val))
	case int:
		return NumberCell(float64(val))
	case int64:
		return NumberCell(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NumberCell(f)
		}
		return TextCell(val.String())
	case bool:
		return BoolCell(val)
	case time.Time:
		return DateCell(val)
	case *time.Time:
		if val == nil {
			return EmptyCell()
		}
		return DateCell(*val)
	default:
		return TextCell(fmt.Sprint(val))
	}
}
