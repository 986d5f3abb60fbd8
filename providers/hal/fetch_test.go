package hal

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

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Université Mohammed V de Rabat": "universit--mohammed-v-de-rabat",
		"  Jean-Pierre Dupont ":          "jean-pierre-dupont",
		"CNRS":                           "cnrs",
		"":                               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug(in), "input %q", in)
	}
}

func TestMapDoc(t *testing.T) {
	d := &Doc{
		DocID:           4025678,
		Titles:          []string{"Sur la dynamique des dunes"},
		AuthorFullNames: []string{"Amina El Fassi", "Youssef Benali"},
		StructNames:     []string{"Université Mohammed V"},
		StructCountries: []string{"ma"},
		SubmittedDate:   "2019-06-03T14:22:00Z",
		PublishedYear:   2019,
		DOI:             "10.1000/hal.4025678",
	}

	w := mapDoc(d)
	assert.Equal(t, "hal-4025678", w.ID)
	assert.Equal(t, "Sur la dynamique des dunes", w.Title)
	assert.Equal(t, 2019, w.PublicationYear)
	assert.Equal(t, "2019-06-03", w.PublicationDate)
	assert.Equal(t, "10.1000/hal.4025678", w.DOI)

	require.Len(t, w.Authorships, 2)
	first := w.Authorships[0]
	assert.Equal(t, "hal-author-amina-el-fassi", first.Author.ID)
	assert.Equal(t, "Amina El Fassi", first.Author.DisplayName)
	require.Len(t, first.Institutions, 1)
	assert.Equal(t, "hal-struct-universit--mohammed-v", first.Institutions[0].ID)
	assert.Equal(t, "MA", first.Institutions[0].CountryCode)

	// Every author shares the document-level affiliation list.
	assert.Equal(t, first.Institutions, w.Authorships[1].Institutions)
}

func TestMapDocFallsBackToLabel(t *testing.T) {
	w := mapDoc(&Doc{DocID: 1, Label: "Fallback label"})
	assert.Equal(t, "Fallback label", w.Title)
	assert.Empty(t, w.PublicationDate)
	assert.Empty(t, w.Authorships)
}

func TestFetchWorksPagesWithCursorMark(t *testing.T) {
	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		cursors = append(cursors, q.Get("cursorMark"))
		assert.Equal(t, "*:*", q.Get("q"))
		assert.Contains(t, q.Get("fq"), `structCountry_s:"ma"`)

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("cursorMark") {
		case "*":
			fmt.Fprint(w, `{"response":{"numFound":3,"docs":[{"docid":1,"title_s":["One"]},{"docid":2,"title_s":["Two"]}]},"nextCursorMark":"AoE"}`)
		case "AoE":
			fmt.Fprint(w, `{"response":{"numFound":3,"docs":[{"docid":3,"title_s":["Three"]}]},"nextCursorMark":"AoE"}`)
		default:
			t.Errorf("unexpected cursorMark %q", q.Get("cursorMark"))
		}
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{
		HALBaseURL:  srv.URL,
		HALPerPage:  2,
		CountryCode: "MA",
	}, zap.NewNop())

	works, err := f.FetchWorks(context.Background())
	require.NoError(t, err)

	assert.Len(t, works, 3)
	assert.Equal(t, []string{"*", "AoE"}, cursors)
	assert.Equal(t, "hal-1", works[0].ID)
	assert.Equal(t, "hal-3", works[2].ID)
}
