package catalog

import (
	"maps"
	"strings"
)

// Clone returns a copy of r that shares no maps with it.
func (r Record) Clone() Record {
	r.Extra = maps.Clone(r.Extra)
	return r
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// TagList splits the comma-separated tags into trimmed, non-empty tokens.
func (r Record) TagList() []string {
	parts := strings.Split(r.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (r Record) SafeDemoURL() string {
	return SafeURL(r.DemoURL)
}

func (r Record) SafeRepoURL() string {
	return SafeURL(r.RepoURL)
}

// SafeURL returns the trimmed value when it is an http or https URL and ""
// otherwise.
func SafeURL(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return ""
}
