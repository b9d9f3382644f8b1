package catalog

import (
	"sort"
	"strings"
	"time"
)

// Query returns the records matching f, most recently updated first.
// records is not modified. Records without a date sort last; ties keep
// their input order.
func Query(records []Record, f Filter) []Record {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))

	result := make([]Record, 0, len(records))
	for _, rec := range records {
		if f.Category != "" && rec.Category != f.Category {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if keyword != "" && !strings.Contains(haystack(rec), keyword) {
			continue
		}
		result = append(result, rec)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return newerThan(result[i].UpdatedAt, result[j].UpdatedAt)
	})

	return result
}

func haystack(rec Record) string {
	return strings.ToLower(strings.Join([]string{
		rec.Name, rec.Slug, rec.Category, rec.Tags, rec.Description, rec.Status,
	}, " "))
}

// newerThan orders dated records before undated ones.
func newerThan(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
