package catalog

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Snapshot is one complete, immutable load result. Callers must not modify
// Records.
type Snapshot struct {
	Records    []Record
	Categories []string
	Statuses   []string
	LoadedAt   time.Time
	Seq        uint64
}

// LoadToken identifies one load attempt. Only the most recently begun load
// may publish its result.
type LoadToken struct {
	Seq uint64
}

type LoadStatus struct {
	Loaded        bool
	Records       int
	LoadedAt      *time.Time
	LastAttemptAt *time.Time
	LastError     string
	InFlight      bool
}

// Store holds the current catalog. Readers always see a whole snapshot;
// writers serialize on mu.
type Store struct {
	locale  language.Tag
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
	begun   uint64
	settled uint64
	lastErr string
	attempt *time.Time
}

func NewStore(locale language.Tag) *Store {
	s := &Store{locale: locale}
	s.current.Store(&Snapshot{})
	return s
}

// BeginLoad registers a new load attempt and supersedes any earlier one.
func (s *Store) BeginLoad() LoadToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.begun++
	now := time.Now()
	s.attempt = &now
	return LoadToken{Seq: s.begun}
}

// Commit publishes records if token belongs to the latest load. It reports
// whether the records were applied.
func (s *Store) Commit(token LoadToken, records []Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.Seq != s.begun {
		return false
	}

	owned := cloneRecords(records)

	s.current.Store(&Snapshot{
		Records:    owned,
		Categories: s.vocabulary(owned, func(r Record) string { return r.Category }),
		Statuses:   s.vocabulary(owned, func(r Record) string { return r.Status }),
		LoadedAt:   time.Now(),
		Seq:        token.Seq,
	})
	s.settled = token.Seq
	s.lastErr = ""
	return true
}

// Fail records a load error for token. The current snapshot stays in place.
func (s *Store) Fail(token LoadToken, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.Seq != s.begun {
		return false
	}
	s.settled = token.Seq
	if err != nil {
		s.lastErr = err.Error()
	}
	return true
}

// ReplaceAll swaps in records unconditionally.
func (s *Store) ReplaceAll(records []Record) {
	s.Commit(s.BeginLoad(), records)
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// All returns a deep copy of the current record set.
func (s *Store) All() []Record {
	return cloneRecords(s.current.Load().Records)
}

func (s *Store) Categories() []string {
	return append([]string(nil), s.current.Load().Categories...)
}

func (s *Store) Statuses() []string {
	return append([]string(nil), s.current.Load().Statuses...)
}

func (s *Store) Status() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	st := LoadStatus{
		Loaded:    snap.Seq > 0,
		Records:   len(snap.Records),
		LastError: s.lastErr,
		InFlight:  s.begun != s.settled,
	}
	if st.Loaded {
		t := snap.LoadedAt
		st.LoadedAt = &t
	}
	if s.attempt != nil {
		t := *s.attempt
		st.LastAttemptAt = &t
	}
	return st
}

// vocabulary collects the distinct non-empty values of field in the
// collation order of the store's locale. Collators are not safe for
// concurrent use, so one is built per call under mu.
func (s *Store) vocabulary(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	collate.New(s.locale).SortStrings(values)
	return values
}
