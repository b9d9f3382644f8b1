package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
)

const gvizBody = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","sig":"1","table":{"cols":[{"id":"A","label":"標題","type":"string"},{"id":"B","label":"分類","type":"string"},{"id":"C","label":"更新日期","type":"date","pattern":"yyyy/M/d"},{"id":"D","label":"Demo URL 連結","type":"string"},{"id":"E","label":"","type":"number"}],"rows":[{"c":[{"v":"Sheet Proxy (beta)"},{"v":"工具"},{"v":"Date(2025,6,30)","f":"2025/7/30"},{"v":"https://demo.example.com"},{"v":3.0,"f":"3"}]},{"c":[{"v":"Short"},null]}],"parsedNumHeaders":1}});`

func TestParseGviz(t *testing.T) {
	table, err := ParseGviz([]byte(gvizBody))
	if err != nil {
		t.Fatal(err)
	}

	if len(table.Columns) != 5 {
		t.Fatalf("Expected 5 columns, got %d", len(table.Columns))
	}
	if table.Columns[2].Label != "更新日期" || table.Columns[2].ID != "C" || table.Columns[2].Type != "date" {
		t.Errorf("Unexpected column: %+v", table.Columns[2])
	}

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	first := table.Rows[0].Cells
	if first[0].Kind != catalog.CellText || first[0].Text != "Sheet Proxy (beta)" {
		t.Errorf("Unexpected first cell: %+v", first[0])
	}
	if first[4].Kind != catalog.CellNumber || first[4].Number != 3 {
		t.Errorf("Unexpected number cell: %+v", first[4])
	}

	second := table.Rows[1].Cells
	if len(second) != 2 || second[1].Kind != catalog.CellEmpty {
		t.Errorf("Expected short row with null cell, got %+v", second)
	}
}

func TestParseGviz_ReconcilesToRecords(t *testing.T) {
	table, err := ParseGviz([]byte(gvizBody))
	if err != nil {
		t.Fatal(err)
	}

	result := &Result{Table: table}
	records := result.Records(catalog.Options{Coercer: catalog.NewDateCoercer(time.UTC)})
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	rec := records[0]
	if rec.Name != "Sheet Proxy (beta)" || rec.Category != "工具" || rec.DemoURL != "https://demo.example.com" {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.UpdatedAt == nil || rec.UpdatedAt.Format("2006-01-02") != "2025-07-30" {
		t.Errorf("Expected updated_at 2025-07-30, got %v", rec.UpdatedAt)
	}
	if rec.Extra["col_4"] != "3" {
		t.Errorf("Expected unlabeled column under col_4, got %v", rec.Extra)
	}

	if records[1].Name != "Short" || records[1].UpdatedAt != nil {
		t.Errorf("Unexpected short record: %+v", records[1])
	}
}

func TestParseGviz_FormattedDates(t *testing.T) {
	body := `google.visualization.Query.setResponse({"status":"ok","table":{"cols":[` +
		`{"id":"A","label":"name","type":"string"},` +
		`{"id":"B","label":"updated_at","type":"date"},` +
		`{"id":"C","label":"上線日","type":"date"},` +
		`{"id":"D","label":"score","type":"number"}],` +
		`"rows":[{"c":[{"v":"x"},{"v":"Date(2025,6,30)","f":"2025/7/30"},{"v":"Date(2024,0,15)","f":"2024/1/15"},{"v":3.5,"f":"3.50"}]}]}});`

	table, err := ParseGviz([]byte(body))
	if err != nil {
		t.Fatal(err)
	}

	records := (&Result{Table: table}).Records(catalog.Options{Coercer: catalog.NewDateCoercer(time.UTC)})
	rec := records[0]

	if rec.Extra["上線日"] != "2024/1/15" {
		t.Errorf("Expected formatted date text, got '%s'", rec.Extra["上線日"])
	}
	if rec.Extra["score"] != "3.5" {
		t.Errorf("Expected raw number text for non-date column, got '%s'", rec.Extra["score"])
	}
	if rec.UpdatedAt == nil || rec.UpdatedAt.Format("2006-01-02") != "2025-07-30" {
		t.Errorf("Expected updated_at 2025-07-30, got %v", rec.UpdatedAt)
	}
}

func TestParseGviz_PlainJSON(t *testing.T) {
	table, err := ParseGviz([]byte(`{"status":"ok","table":{"cols":[{"id":"A","label":"name"}],"rows":[]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 1 || len(table.Rows) != 0 {
		t.Errorf("Unexpected table: %+v", table)
	}
}

func TestParseGviz_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		badShape bool
	}{
		{"status error", `google.visualization.Query.setResponse({"status":"error","errors":[{"reason":"access_denied","message":"Access denied"}]});`, false},
		{"missing table", `google.visualization.Query.setResponse({"status":"ok"});`, true},
		{"no wrapper", `<html>Sign in</html>`, true},
		{"broken json", `google.visualization.Query.setResponse({"status":);`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGviz([]byte(tt.body))
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.badShape && !errors.Is(err, ErrBadResponse) {
				t.Errorf("Expected ErrBadResponse, got %v", err)
			}
		})
	}
}

func TestSheetSource_URL(t *testing.T) {
	s := NewSheetSource("abc123", "0", "", HTTPOptions{})
	expected := "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?gid=0&tqx=out%3Ajson"
	if got := s.URL(); got != expected {
		t.Errorf("Expected URL %s, got %s", expected, got)
	}

	s = NewSheetSource("abc123", "", "http://localhost/tq?key=1", HTTPOptions{})
	if got := s.URL(); got != "http://localhost/tq?key=1&tqx=out%3Ajson" {
		t.Errorf("Unexpected override URL: %s", got)
	}
}

func TestSheetSource_Fetch(t *testing.T) {
	var userAgent, tqx string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()
		tqx = r.URL.Query().Get("tqx")
		w.Header().Set("Content-Type", "application/javascript")
		w.Write([]byte(gvizBody))
	}))
	defer server.Close()

	s := NewSheetSource("id", "0", server.URL, HTTPOptions{UserAgent: "Sheet Catalog/test", Timeout: 5 * time.Second})
	result, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Table == nil || len(result.Table.Rows) != 2 {
		t.Errorf("Expected table with 2 rows, got %+v", result)
	}
	if userAgent != "Sheet Catalog/test" {
		t.Errorf("Expected user agent to be sent, got '%s'", userAgent)
	}
	if tqx != "out:json" {
		t.Errorf("Expected tqx=out:json, got '%s'", tqx)
	}
	if !strings.HasPrefix(s.Name(), "sheet:") {
		t.Errorf("Unexpected source name: %s", s.Name())
	}
}

func TestSheetSource_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSheetSource("id", "0", server.URL, HTTPOptions{})
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Error("Expected error for HTTP 500")
	}
}

func TestSheetSource_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	s := NewSheetSource("id", "0", server.URL, HTTPOptions{Timeout: 50 * time.Millisecond})
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Error("Expected timeout error")
	}
}
