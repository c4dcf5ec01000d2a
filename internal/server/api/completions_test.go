package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/signite/internal/store"
)

func TestCompletionsHandler_List(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"zero", "one", "two"} {
		c := &store.Completion{GestureID: id, SessionID: "s-1", CompletedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Completions().Record(c); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	h := NewCompletionsHandler(s)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       []string
	}{
		{"default limit", "", http.StatusOK, []string{"two", "one", "zero"}},
		{"limited", "?limit=2", http.StatusOK, []string{"two", "one"}},
		{"zero limit", "?limit=0", http.StatusBadRequest, nil},
		{"not a number", "?limit=lots", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/completions"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.want == nil {
				return
			}

			var resp listCompletionsResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Completions) != len(tt.want) {
				t.Fatalf("got %d completions, want %d", len(resp.Completions), len(tt.want))
			}
			for i, c := range resp.Completions {
				if c.Gesture != tt.want[i] {
					t.Errorf("completion %d = %s, want %s", i, c.Gesture, tt.want[i])
				}
				if c.Source != store.SourceRecognized || c.Session != "s-1" || c.Label == "" {
					t.Errorf("unexpected completion %+v", c)
				}
			}
		})
	}
}

func TestCompletionsHandler_Empty(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCompletionsHandler(newTestStore(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/completions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string][]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["completions"] == nil || len(resp["completions"]) != 0 {
		t.Errorf("expected an empty array, got %v", resp["completions"])
	}
}

func TestCompletionsHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCompletionsHandler(newTestStore(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/completions", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
