package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestNewQueryParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit values", "page=3&limit=25", 3, 25},
		{"zero page falls back", "page=0", 1, 10},
		{"negative limit falls back", "limit=-5", 1, 10},
		{"garbage falls back", "page=abc&limit=xyz", 1, 10},
		{"limit capped", "limit=500", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQueryParams(newContext(tt.query))
			if p.PageNumber != tt.wantPage || p.PageSize != tt.wantSize {
				t.Fatalf("got page=%d size=%d, want page=%d size=%d",
					p.PageNumber, p.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := QueryParams{PageNumber: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}

func TestSearchPassthrough(t *testing.T) {
	p := NewQueryParams(newContext("search=book+club"))
	if p.Search != "book club" {
		t.Fatalf("expected search term, got %q", p.Search)
	}
}
