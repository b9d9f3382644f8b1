package catalog

import (
	"strings"
	"unicode"
)

// Synonyms maps lower-cased header tokens to canonical keys. It is never
// modified after construction; use Extend to derive a new table.
type Synonyms struct {
	table map[string]string
}

var defaultSynonyms = map[string][]string{
	KeyName:        {"name", "名稱", "功能名稱", "標題", "title"},
	KeySlug:        {"slug", "代稱", "識別碼", "id"},
	KeyDescription: {"description", "說明", "內容", "簡介", "描述"},
	KeyCategory:    {"category", "分類", "類別"},
	KeyTags:        {"tags", "標籤"},
	KeyDemoURL:     {"demo_url", "demo", "demo連結", "demo網址"},
	KeyRepoURL:     {"repo_url", "repo", "github", "程式碼連結", "repo連結", "github連結"},
	KeyStatus:      {"status", "狀態"},
	KeyUpdatedAt:   {"updated_at", "更新日期", "更新時間", "日期", "最後更新"},
	KeyNote:        {"note", "備註", "備註說明"},
}

// DefaultSynonyms returns the built-in header synonym table.
func DefaultSynonyms() *Synonyms {
	s, _ := NewSynonyms(defaultSynonyms)
	return s
}

// NewSynonyms builds a table from canonical key -> synonym lists. Every
// canonical key always maps to itself.
func NewSynonyms(groups map[string][]string) (*Synonyms, error) {
	s := &Synonyms{table: make(map[string]string)}
	for _, key := range CanonicalKeys {
		s.table[key] = key
	}
	if err := s.add(groups); err != nil {
		return nil, err
	}
	return s, nil
}

// Extend returns a copy of s with the given groups added. Later entries
// override earlier ones for the same token.
func (s *Synonyms) Extend(groups map[string][]string) (*Synonyms, error) {
	out := &Synonyms{table: make(map[string]string, len(s.table))}
	for k, v := range s.table {
		out.table[k] = v
	}
	if err := out.add(groups); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Synonyms) add(groups map[string][]string) error {
	for key, words := range groups {
		if !IsCanonicalKey(key) {
			return &UnknownKeyError{Key: key}
		}
		for _, w := range words {
			token := strings.ToLower(leadingToken(strings.TrimSpace(w)))
			if token == "" {
				continue
			}
			if IsCanonicalKey(token) && token != key {
				return &SynonymConflictError{Token: token, Key: key}
			}
			s.table[token] = key
		}
	}
	return nil
}

func (s *Synonyms) Lookup(token string) (string, bool) {
	key, ok := s.table[token]
	return key, ok
}

func (s *Synonyms) Len() int {
	return len(s.table)
}

// Normalizer maps raw column labels to canonical keys.
type Normalizer struct {
	synonyms *Synonyms
}

func NewNormalizer(synonyms *Synonyms) *Normalizer {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Normalizer{synonyms: synonyms}
}

// Normalize returns the canonical key for label, or the lower-cased leading
// token when no synonym matches. An empty label yields "".
func (n *Normalizer) Normalize(label string) string {
	token := strings.ToLower(leadingToken(strings.TrimSpace(label)))
	if token == "" {
		return ""
	}
	if key, ok := n.synonyms.Lookup(token); ok {
		return key
	}
	return token
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize uses the built-in synonym table.
func Normalize(label string) string {
	return defaultNormalizer.Normalize(label)
}

// leadingToken returns the prefix of s before the first whitespace,
// parenthesis or dash-like separator.
func leadingToken(s string) string {
	if i := strings.IndexFunc(s, isHeaderSeparator); i >= 0 {
		return s[:i]
	}
	return s
}

func isHeaderSeparator(r rune) bool {
	switch r {
	case '(', '（', '-', '—', '－':
		return true
	}
	return unicode.IsSpace(r)
}
