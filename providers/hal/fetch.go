// Package hal fetches publications from the HAL open archive and maps them
// onto the shared work document shape. HAL has no stable author or
// institution identifiers, so synthetic "hal-" prefixed IDs are derived from
// the display names.
package hal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"scholar-warehouse/config"
	"scholar-warehouse/providers"
)

const requestDelay = 100 * time.Millisecond

// fieldList matches the fl parameter of the original extraction queries.
var fieldList = strings.Join([]string{
	"docid", "label_s", "title_s", "abstract_s",
	"authFullName_s", "authAffiliation_s", "authOrganism_s",
	"structName_s", "structCity_s", "structCountry_s",
	"instStructName_s", "instStructCountry_s",
	"labStructName_s", "labStructCountry_s",
	"submittedDate_tdate", "publishedDateY_i", "doi_s",
}, ",")

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher retrieves HAL documents via Solr cursorMark pagination.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher creates a HAL fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name returns the provider name.
func (f *Fetcher) Name() string {
	return "hal"
}

// FetchWorks pages through the HAL search API filtered by structure country
// and maps every document onto the shared work shape.
func (f *Fetcher) FetchWorks(ctx context.Context) ([]*providers.Work, error) {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("country", f.Config.CountryCode))
	log.Info("Starting HAL works fetch")

	country := strings.ToLower(f.Config.CountryCode)
	fq := fmt.Sprintf(`(structCountry_s:"%s" OR instStructCountry_s:"%s" OR labStructCountry_s:"%s")`,
		country, country, country)

	var works []*providers.Work
	cursor := "*"
	for {
		page, err := f.fetchPage(ctx, fq, cursor)
		if err != nil {
			return works, err
		}
		if len(page.Response.Docs) == 0 {
			break
		}
		for i := range page.Response.Docs {
			works = append(works, mapDoc(&page.Response.Docs[i]))
		}
		log.Debug("HAL page retrieved", zap.Int("docs", len(page.Response.Docs)), zap.Int("total", len(works)))

		if f.Config.FetchLimit > 0 && len(works) >= f.Config.FetchLimit {
			works = works[:f.Config.FetchLimit]
			log.Info("Fetch limit reached", zap.Int("limit", f.Config.FetchLimit))
			break
		}
		if page.NextCursorMark == "" || page.NextCursorMark == cursor {
			break
		}
		cursor = page.NextCursorMark

		select {
		case <-ctx.Done():
			return works, ctx.Err()
		case <-time.After(requestDelay):
		}
	}

	log.Info("HAL fetch completed", zap.Int("works", len(works)))
	return works, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, fq, cursor string) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", "*:*")
	params.Set("fq", fq)
	params.Set("fl", fieldList)
	params.Set("wt", "json")
	params.Set("sort", "docid asc")
	params.Set("rows", fmt.Sprintf("%d", f.Config.HALPerPage))
	params.Set("cursorMark", cursor)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Config.HALBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("hal returned status %d: %s", resp.StatusCode, string(body))
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode hal response: %w", err)
	}
	return &page, nil
}

// mapDoc converts one HAL document into the shared work shape.
func mapDoc(d *Doc) *providers.Work {
	w := &providers.Work{
		ID:              fmt.Sprintf("hal-%d", d.DocID),
		DOI:             d.DOI,
		PublicationYear: d.PublishedYear,
	}
	if len(d.Titles) > 0 {
		w.Title = d.Titles[0]
		w.DisplayName = d.Titles[0]
	} else {
		w.Title = d.Label
		w.DisplayName = d.Label
	}
	if len(d.SubmittedDate) >= 10 {
		w.PublicationDate = d.SubmittedDate[:10]
	}

	// One shared affiliation list: HAL does not relate authors to
	// structures individually.
	var institutions []providers.InstitutionRef
	for i, name := range d.StructNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		inst := providers.InstitutionRef{
			ID:          "hal-struct-" + slug(name),
			DisplayName: name,
		}
		if i < len(d.StructCountries) {
			inst.CountryCode = strings.ToUpper(d.StructCountries[i])
		}
		institutions = append(institutions, inst)
	}

	for _, name := range d.AuthorFullNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		w.Authorships = append(w.Authorships, providers.Authorship{
			Author: providers.AuthorRef{
				ID:          "hal-author-" + slug(name),
				DisplayName: name,
			},
			Institutions: institutions,
		})
	}
	return w
}

// slug derives a stable identifier fragment from a display name.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
