package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func ctxWithQuery(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := Parse(ctxWithQuery(t, ""))
		if p.Page != DefaultPage || p.Limit != DefaultLimit || p.Offset() != 0 {
			t.Fatalf("unexpected params %+v", p)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		p := Parse(ctxWithQuery(t, "page=3&limit=25"))
		if p.Page != 3 || p.Limit != 25 || p.Offset() != 50 {
			t.Fatalf("unexpected params %+v", p)
		}
	})

	t.Run("limit capped", func(t *testing.T) {
		p := Parse(ctxWithQuery(t, "limit=5000"))
		if p.Limit != MaxLimit {
			t.Fatalf("expected limit %d, got %d", MaxLimit, p.Limit)
		}
	})

	t.Run("garbage falls back", func(t *testing.T) {
		p := Parse(ctxWithQuery(t, "page=-2&limit=zero"))
		if p.Page != DefaultPage || p.Limit != DefaultLimit {
			t.Fatalf("unexpected params %+v", p)
		}
	})
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		wantPage    int
		wantLimit   int
	}{
		{"zero values get defaults", 0, 0, DefaultPage, DefaultLimit},
		{"negative page", -3, 10, DefaultPage, 10},
		{"limit over cap", 2, 999, 2, MaxLimit},
		{"valid passthrough", 4, 50, 4, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(tc.page, tc.limit)
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Fatalf("got %+v, want page=%d limit=%d", p, tc.wantPage, tc.wantLimit)
			}
		})
	}
}
