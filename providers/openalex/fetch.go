package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"scholar-warehouse/config"
	"scholar-warehouse/providers"
)

const (
	requestDelay = 50 * time.Millisecond
	maxRetries   = 3
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher retrieves work documents from the OpenAlex REST API using cursor
// pagination.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher creates an OpenAlex fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name returns the provider name.
func (f *Fetcher) Name() string {
	return "openalex"
}

type worksPage struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []*providers.Work `json:"results"`
}

// FetchWorks pages through /works filtered by institution country code until
// the cursor is exhausted or the configured fetch limit is reached.
func (f *Fetcher) FetchWorks(ctx context.Context) ([]*providers.Work, error) {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("country", f.Config.CountryCode))
	log.Info("Starting OpenAlex works fetch")

	var works []*providers.Work
	cursor := "*"
	for cursor != "" {
		page, err := f.fetchPage(ctx, cursor)
		if err != nil {
			return works, err
		}
		works = append(works, page.Results...)
		cursor = page.Meta.NextCursor

		if len(works)%1000 < len(page.Results) {
			log.Info("Fetch progress", zap.Int("works", len(works)), zap.Int("total", page.Meta.Count))
		}
		if f.Config.FetchLimit > 0 && len(works) >= f.Config.FetchLimit {
			works = works[:f.Config.FetchLimit]
			log.Info("Fetch limit reached", zap.Int("limit", f.Config.FetchLimit))
			break
		}

		select {
		case <-ctx.Done():
			return works, ctx.Err()
		case <-time.After(requestDelay):
		}
	}

	log.Info("OpenAlex fetch completed", zap.Int("works", len(works)))
	return works, nil
}

// fetchPage requests one cursor page, retrying transient failures with
// exponential backoff.
func (f *Fetcher) fetchPage(ctx context.Context, cursor string) (*worksPage, error) {
	pageURL := f.buildWorksURL(cursor)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		page, err := f.getPage(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		f.Logger.Warn("OpenAlex page request failed",
			zap.Int("attempt", attempt), zap.Int("max_retries", maxRetries), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("openalex page fetch failed after %d retries: %w", maxRetries, lastErr)
}

func (f *Fetcher) getPage(ctx context.Context, pageURL string) (*worksPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
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
		return nil, fmt.Errorf("openalex returned status %d: %s", resp.StatusCode, string(body))
	}

	var page worksPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode works page: %w", err)
	}
	return &page, nil
}

func (f *Fetcher) buildWorksURL(cursor string) string {
	params := url.Values{}
	params.Set("filter", "institutions.country_code:"+f.Config.CountryCode)
	params.Set("per-page", fmt.Sprintf("%d", f.Config.OpenAlexPerPage))
	params.Set("cursor", cursor)
	if f.Config.OpenAlexEmail != "" {
		params.Set("mailto", f.Config.OpenAlexEmail)
	}
	return f.Config.OpenAlexBaseURL + "/works?" + params.Encode()
}
