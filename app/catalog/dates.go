package catalog

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Date(Y,M,D[,h[,m[,s[,ms]]]]) as emitted by the gviz JSON encoder. The
// month is zero-based.
var dateConstructorPattern = regexp.MustCompile(
	`^Date\(\s*(-?\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*(\d+)\s*)?(?:,\s*(\d+)\s*)?(?:,\s*(\d+)\s*)?(?:,\s*(\d+)\s*)?\)$`)

// maxEpochMillis bounds numeric dates to the range a JavaScript Date can hold.
const maxEpochMillis = 8.64e15

// DateCoercer turns heterogeneous cell values into dates. It never fails:
// anything it cannot read becomes nil.
type DateCoercer struct {
	loc *time.Location
}

// NewDateCoercer interprets zone-less values in loc. A nil loc means
// time.Local at the moment of coercion.
func NewDateCoercer(loc *time.Location) *DateCoercer {
	return &DateCoercer{loc: loc}
}

func (d *DateCoercer) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}

func (d *DateCoercer) Coerce(cell Cell) *time.Time {
	switch cell.Kind {
	case CellText:
		s := strings.TrimSpace(cell.Text)
		if s == "" {
			return nil
		}
		if t, ok := d.parseConstructor(s); ok {
			return &t
		}
		return d.parseAny(s)
	case CellDate:
		t := cell.Date
		return &t
	case CellNumber:
		if math.IsNaN(cell.Number) || math.Abs(cell.Number) > maxEpochMillis {
			return nil
		}
		t := time.UnixMilli(int64(cell.Number)).In(d.location())
		return &t
	default:
		return nil
	}
}

func (d *DateCoercer) parseConstructor(s string) (time.Time, bool) {
	m := dateConstructorPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	parts := make([]int, 7)
	for i, raw := range m[1:] {
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}

	return time.Date(parts[0], time.Month(parts[1]+1), parts[2],
		parts[3], parts[4], parts[5], parts[6]*int(time.Millisecond), d.location()), true
}

func (d *DateCoercer) parseAny(s string) (result *time.Time) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Date parser panicked", "value", s, "panic", r)
			result = nil
		}
	}()

	t, err := dateparse.ParseIn(s, d.location())
	if err != nil {
		return nil
	}
	return &t
}

var defaultCoercer = NewDateCoercer(nil)

// CoerceDate converts a cell to a date in the local time zone, or nil.
func CoerceDate(cell Cell) *time.Time {
	return defaultCoercer.Coerce(cell)
}
