package providers

import (
	"context"
	"strings"
)

// Provider is implemented by every bibliographic source (OpenAlex, HAL).
// Implementations return work documents in the shared, OpenAlex-shaped form;
// sources with a different native format map into it.
type Provider interface {
	// FetchWorks retrieves all work documents for the configured country
	// filter, paginating until exhaustion or the configured fetch limit.
	FetchWorks(ctx context.Context) ([]*Work, error)

	// Name returns the unique provider name (e.g. "openalex").
	Name() string
}

// ShortID strips the OpenAlex URL prefix from an entity identifier,
// e.g. "https://openalex.org/W2741809807" -> "W2741809807" and
// "https://openalex.org/keywords/etl" -> "etl". Identifiers without the
// prefix are returned unchanged.
func ShortID(raw string) string {
	s := strings.TrimPrefix(raw, "https://openalex.org/")
	return strings.TrimPrefix(s, "keywords/")
}
