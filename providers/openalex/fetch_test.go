package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-warehouse/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenAlexBaseURL: baseURL,
		OpenAlexEmail:   "ops@example.org",
		OpenAlexPerPage: 2,
		CountryCode:     "MA",
	}
}

func TestFetchWorksFollowsCursor(t *testing.T) {
	var seenCursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		seenCursors = append(seenCursors, cursor)

		assert.Equal(t, "institutions.country_code:MA", r.URL.Query().Get("filter"))
		assert.Equal(t, "2", r.URL.Query().Get("per-page"))
		assert.Equal(t, "ops@example.org", r.URL.Query().Get("mailto"))

		w.Header().Set("Content-Type", "application/json")
		switch cursor {
		case "*":
			fmt.Fprint(w, `{"meta":{"count":3,"next_cursor":"page2"},"results":[{"id":"https://openalex.org/W1"},{"id":"https://openalex.org/W2"}]}`)
		case "page2":
			fmt.Fprint(w, `{"meta":{"count":3,"next_cursor":""},"results":[{"id":"https://openalex.org/W3"}]}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	works, err := f.FetchWorks(context.Background())
	require.NoError(t, err)

	assert.Len(t, works, 3)
	assert.Equal(t, []string{"*", "page2"}, seenCursors)
	assert.Equal(t, "https://openalex.org/W3", works[2].ID)
}

func TestFetchWorksStopsAtFetchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"meta":{"count":100,"next_cursor":"more"},"results":[{"id":"https://openalex.org/W1"},{"id":"https://openalex.org/W2"}]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.FetchLimit = 1

	f := NewFetcher(cfg, zap.NewNop())
	works, err := f.FetchWorks(context.Background())
	require.NoError(t, err)
	assert.Len(t, works, 1)
}

func TestFetchWorksRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"meta":{"count":1,"next_cursor":""},"results":[{"id":"https://openalex.org/W1"}]}`)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	works, err := f.FetchWorks(context.Background())
	require.NoError(t, err)
	assert.Len(t, works, 1)
	assert.Equal(t, 2, calls)
}

func TestBuildWorksURL(t *testing.T) {
	f := NewFetcher(testConfig("https://api.openalex.org"), zap.NewNop())
	u := f.buildWorksURL("*")
	assert.Contains(t, u, "https://api.openalex.org/works?")
	assert.Contains(t, u, "filter=institutions.country_code%3AMA")
	assert.Contains(t, u, "cursor=%2A")
	assert.Contains(t, u, "mailto=ops%40example.org")
}
