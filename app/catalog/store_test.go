package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func TestStore_EmptyAtStartup(t *testing.T) {
	store := NewStore(language.English)

	if len(store.All()) != 0 {
		t.Errorf("Expected empty store, got %d records", len(store.All()))
	}
	if len(store.Categories()) != 0 {
		t.Errorf("Expected no categories, got %v", store.Categories())
	}
	if store.Status().Loaded {
		t.Error("Expected store to report not loaded")
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	store := NewStore(language.English)

	store.ReplaceAll([]Record{{Name: "a"}, {Name: "b"}})
	store.ReplaceAll([]Record{{Name: "c"}})

	all := store.All()
	if len(all) != 1 || all[0].Name != "c" {
		t.Errorf("Expected store to be replaced, got %v", names(all))
	}

	status := store.Status()
	if !status.Loaded || status.Records != 1 || status.LoadedAt == nil {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestStore_AllIsCopy(t *testing.T) {
	store := NewStore(language.English)
	input := []Record{{Name: "a"}}
	store.ReplaceAll(input)

	input[0].Name = "mutated"
	all := store.All()
	all[0].Name = "changed"

	if got := store.All()[0].Name; got != "a" {
		t.Errorf("Expected store contents to be isolated, got '%s'", got)
	}
}

func TestStore_AllCopiesExtra(t *testing.T) {
	store := NewStore(language.English)
	input := []Record{{Name: "a", Extra: map[string]string{"owner": "ops"}}}
	store.ReplaceAll(input)

	input[0].Extra["owner"] = "input"
	store.All()[0].Extra["owner"] = "caller"
	store.All()[0].Extra["added"] = "x"

	got := store.All()[0].Extra
	if got["owner"] != "ops" || len(got) != 1 {
		t.Errorf("Expected extra fields to be isolated, got %v", got)
	}
}

func TestStore_Vocabulary(t *testing.T) {
	store := NewStore(language.English)
	store.ReplaceAll([]Record{
		{Name: "1", Category: "cherry", Status: "live"},
		{Name: "2", Category: "Banana", Status: ""},
		{Name: "3", Category: "apple", Status: "draft"},
		{Name: "4", Category: "", Status: "live"},
		{Name: "5", Category: "Banana"},
	})

	if diff := cmp.Diff([]string{"apple", "Banana", "cherry"}, store.Categories()); diff != "" {
		t.Errorf("Categories mismatch (-expected +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"draft", "live"}, store.Statuses()); diff != "" {
		t.Errorf("Statuses mismatch (-expected +got):\n%s", diff)
	}
}

func TestStore_LoadTokenGuard(t *testing.T) {
	store := NewStore(language.English)

	older := store.BeginLoad()
	newer := store.BeginLoad()

	if !store.Status().InFlight {
		t.Error("Expected load to be in flight")
	}

	if !store.Commit(newer, []Record{{Name: "new"}}) {
		t.Fatal("Expected latest load to commit")
	}
	if store.Commit(older, []Record{{Name: "stale"}}) {
		t.Error("Expected superseded load to be rejected")
	}
	if store.Fail(older, errors.New("late failure")) {
		t.Error("Expected superseded failure to be ignored")
	}

	all := store.All()
	if len(all) != 1 || all[0].Name != "new" {
		t.Errorf("Expected newest records, got %v", names(all))
	}
	status := store.Status()
	if status.InFlight || status.LastError != "" {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestStore_FailKeepsSnapshot(t *testing.T) {
	store := NewStore(language.English)
	store.ReplaceAll([]Record{{Name: "kept"}})

	token := store.BeginLoad()
	if !store.Fail(token, errors.New("fetch failed")) {
		t.Fatal("Expected failure to be recorded")
	}

	if all := store.All(); len(all) != 1 || all[0].Name != "kept" {
		t.Errorf("Expected previous snapshot to survive, got %v", names(all))
	}
	if got := store.Status().LastError; got != "fetch failed" {
		t.Errorf("Expected last error 'fetch failed', got '%s'", got)
	}

	store.Commit(store.BeginLoad(), nil)
	if got := store.Status().LastError; got != "" {
		t.Errorf("Expected error to clear after success, got '%s'", got)
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	store := NewStore(language.English)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := store.Snapshot()
				if len(snap.Records) != 0 && len(snap.Records) != 3 {
					t.Errorf("Observed partial snapshot with %d records", len(snap.Records))
					return
				}
				Query(snap.Records, Filter{Keyword: "x"})
			}
		}()
	}

	for j := 0; j < 50; j++ {
		store.ReplaceAll([]Record{{Name: "x1"}, {Name: "x2"}, {Name: "x3"}})
	}
	wg.Wait()
}
