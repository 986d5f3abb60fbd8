package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-warehouse/providers"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleWorks() []*providers.Work {
	score := floatPtr(0.97)
	return []*providers.Work{
		{
			ID:              "https://openalex.org/W1000",
			DOI:             "https://doi.org/10.1234/w1000",
			Title:           "Machine Learning for Crop Yields",
			PublicationYear: 2021,
			PublicationDate: "2021-03-15",
			Language:        "en",
			Type:            "article",
			CitedByCount:    42,
			OpenAccess: providers.OpenAccess{
				IsOA:     true,
				OAStatus: "gold",
				OAURL:    "https://example.org/w1000.pdf",
			},
			Authorships: []providers.Authorship{
				{
					AuthorPosition:  "first",
					IsCorresponding: true,
					Author: providers.AuthorRef{
						ID:          "https://openalex.org/A1",
						DisplayName: "Amina El Fassi",
						ORCID:       "https://orcid.org/0000-0001-0000-0001",
					},
					Institutions: []providers.InstitutionRef{
						{ID: "https://openalex.org/I1", DisplayName: "Mohammed V University", CountryCode: "MA", Type: "education"},
						{ID: "https://openalex.org/I2", DisplayName: "CNRS", CountryCode: "FR", Type: "facility"},
					},
				},
				{
					AuthorPosition: "last",
					Author: providers.AuthorRef{
						ID:          "https://openalex.org/A2",
						DisplayName: "Youssef Benali",
					},
					Institutions: []providers.InstitutionRef{
						{ID: "https://openalex.org/I1", DisplayName: "Mohammed V University", CountryCode: "MA", Type: "education"},
					},
				},
			},
			PrimaryLocation: &providers.Location{
				LandingPageURL: "https://example.org/w1000",
				PDFURL:         "https://example.org/w1000.pdf",
				Source: &providers.SourceRef{
					ID:          "https://openalex.org/S1",
					DisplayName: "Journal of Agronomy",
					Type:        "journal",
					ISSNL:       "1234-5678",
					IsOA:        true,
				},
			},
			BestOALocation: &providers.Location{
				LandingPageURL: "https://repository.example.org/w1000",
			},
			Locations: []providers.Location{
				{
					ID:             "https://openalex.org/W1000/loc/1",
					IsOA:           true,
					LandingPageURL: "https://repository.example.org/w1000",
					License:        "cc-by",
					Version:        "acceptedVersion",
					IsAccepted:     true,
					Source: &providers.SourceRef{
						ID:          "https://openalex.org/S2",
						DisplayName: "Institutional Repository",
						Type:        "repository",
					},
				},
			},
			Topics: []providers.Topic{
				{
					ID:          "https://openalex.org/T100",
					DisplayName: "Precision Agriculture",
					Score:       score,
					Subfield:    &providers.Ref{ID: "https://openalex.org/subfields/17", DisplayName: "Agronomy and Crop Science"},
					Field:       &providers.Ref{ID: "https://openalex.org/fields/11", DisplayName: "Agricultural Sciences"},
					Domain:      &providers.Ref{ID: "https://openalex.org/domains/3", DisplayName: "Physical Sciences"},
				},
			},
			Keywords: []providers.Keyword{
				{ID: "https://openalex.org/keywords/crop-yield", DisplayName: "Crop Yield", Score: floatPtr(0.61)},
			},
			Concepts: []providers.Concept{
				{ID: "https://openalex.org/C41008148", DisplayName: "Computer science", Level: intPtr(0), Score: floatPtr(0.55)},
			},
			CountsByYear: []providers.YearCount{
				{Year: 2022, CitedByCount: 10},
				{Year: 2023, CitedByCount: 32},
			},
		},
		{
			ID:              "https://openalex.org/W2000",
			DisplayName:     "Untitled Working Paper",
			PublicationYear: 2022,
			Type:            "preprint",
			Authorships: []providers.Authorship{
				{
					AuthorPosition: "first",
					Author: providers.AuthorRef{
						ID:          "https://openalex.org/A1",
						DisplayName: "Amina El Fassi",
					},
					Institutions: []providers.InstitutionRef{
						{ID: "https://openalex.org/I1", DisplayName: "Mohammed V University", CountryCode: "MA", Type: "education"},
					},
				},
			},
			Topics: []providers.Topic{
				{
					ID:          "https://openalex.org/T100",
					DisplayName: "Precision Agriculture",
					Score:       floatPtr(0.88),
					Subfield:    &providers.Ref{ID: "https://openalex.org/subfields/17", DisplayName: "Agronomy and Crop Science"},
					Field:       &providers.Ref{ID: "https://openalex.org/fields/11", DisplayName: "Agricultural Sciences"},
					Domain:      &providers.Ref{ID: "https://openalex.org/domains/3", DisplayName: "Physical Sciences"},
				},
			},
		},
	}
}

func TestExtractorDeduplicatesAcrossWorks(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	works := sampleWorks()

	authors := e.Authors(works)
	assert.Len(t, authors, 2, "A1 appears in both works and must be extracted once")

	institutions := e.Institutions(works)
	assert.Len(t, institutions, 2, "I1 is shared between works and authorships")

	topics, subfields, fields, domains := e.TopicHierarchy(works)
	assert.Len(t, topics, 1)
	assert.Len(t, subfields, 1)
	assert.Len(t, fields, 1)
	assert.Len(t, domains, 1)
}

func TestExtractorStripsEntityURLPrefixes(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	works := sampleWorks()

	for _, a := range e.Authors(works) {
		assert.NotContains(t, a.AuthorID, "openalex.org")
	}
	keywords := e.Keywords(works)
	require.Len(t, keywords, 1)
	assert.Equal(t, "crop-yield", keywords[0].KeywordID)

	facts := e.BuildWorkFacts(works)
	require.Len(t, facts.Works, 2)
	assert.Equal(t, "W1000", facts.Works[0].WorkID)
}

func TestExtractorTopicHierarchyIsConsistent(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	works := sampleWorks()

	topics, subfields, fields, domains := e.TopicHierarchy(works)
	require.Len(t, topics, 1)
	topic := topics[0]

	require.NotNil(t, topic.SubfieldID)
	require.Len(t, subfields, 1)
	assert.Equal(t, subfields[0].SubfieldID, *topic.SubfieldID)
	assert.Equal(t, subfields[0].SubfieldName, topic.SubfieldName)

	require.NotNil(t, topic.FieldID)
	require.Len(t, fields, 1)
	assert.Equal(t, fields[0].FieldID, *topic.FieldID)
	require.NotNil(t, subfields[0].FieldID)
	assert.Equal(t, fields[0].FieldID, *subfields[0].FieldID)

	require.NotNil(t, topic.DomainID)
	require.Len(t, domains, 1)
	assert.Equal(t, domains[0].DomainID, *topic.DomainID)
	require.NotNil(t, fields[0].DomainID)
	assert.Equal(t, domains[0].DomainID, *fields[0].DomainID)
}

func TestBuildWorkFactsDerivedCounts(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	facts := e.BuildWorkFacts(sampleWorks())
	require.Len(t, facts.Works, 2)

	first := facts.Works[0]
	assert.Equal(t, 2, first.AuthorCount)
	assert.Equal(t, 2, first.InstitutionsDistinctCount, "I1 counted once even though both authors carry it")
	assert.Equal(t, 2, first.CountriesDistinctCount)

	second := facts.Works[1]
	assert.Equal(t, 1, second.AuthorCount)
	assert.Equal(t, 1, second.InstitutionsDistinctCount)
	assert.Equal(t, 1, second.CountriesDistinctCount)
}

func TestBuildWorkFactsWorkFields(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	facts := e.BuildWorkFacts(sampleWorks())
	require.Len(t, facts.Works, 2)

	first := facts.Works[0]
	assert.Equal(t, "Machine Learning for Crop Yields", first.Title)
	require.NotNil(t, first.PublicationYear)
	assert.Equal(t, 2021, *first.PublicationYear)
	require.NotNil(t, first.PublicationDate)
	assert.Equal(t, "2021-03-15", first.PublicationDate.Format("2006-01-02"))
	require.NotNil(t, first.SourceID)
	assert.Equal(t, "S1", *first.SourceID)
	assert.Equal(t, "Journal of Agronomy", first.SourceName)
	assert.True(t, first.IsOA)
	assert.Equal(t, "gold", first.OAStatus)
	assert.Equal(t, "https://repository.example.org/w1000", first.BestOALocation)

	// Title falls back to display_name, missing refs stay NULL.
	second := facts.Works[1]
	assert.Equal(t, "Untitled Working Paper", second.Title)
	assert.Nil(t, second.SourceID)
	assert.Nil(t, second.PublicationDate)
}

func TestBuildWorkFactsRelationshipRows(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	facts := e.BuildWorkFacts(sampleWorks())

	assert.Len(t, facts.WorkAuthors, 3)
	assert.Len(t, facts.WorkAuthorInstitutions, 4)
	assert.Len(t, facts.WorkTopics, 2)
	assert.Len(t, facts.WorkKeywords, 1)
	assert.Len(t, facts.WorkConcepts, 1)

	wa := facts.WorkAuthors[0]
	assert.Equal(t, "W1000", wa.WorkID)
	assert.Equal(t, "A1", wa.AuthorID)
	assert.Equal(t, "first", wa.AuthorPosition)
	assert.True(t, wa.IsCorresponding)

	wt := facts.WorkTopics[0]
	assert.Equal(t, "T100", wt.TopicID)
	require.NotNil(t, wt.TopicScore)
	assert.InDelta(t, 0.97, *wt.TopicScore, 1e-9)
	require.NotNil(t, wt.DomainID)
	assert.Equal(t, "domains/3", *wt.DomainID)
}

func TestCitationYears(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	rows := e.CitationYears(sampleWorks())
	require.Len(t, rows, 2)
	assert.Equal(t, "W1000", rows[0].WorkID)
	assert.Equal(t, 2022, rows[0].Year)
	assert.Equal(t, 10, rows[0].CitedByCount)
	assert.Equal(t, 2023, rows[1].Year)
	assert.Equal(t, 32, rows[1].CitedByCount)
}

func TestLocations(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	rows := e.Locations(sampleWorks())
	require.Len(t, rows, 1)
	loc := rows[0]
	assert.Equal(t, "W1000", loc.WorkID)
	assert.True(t, loc.IsOA)
	assert.Equal(t, "cc-by", loc.LicenseID, "license falls back when license_id is absent")
	assert.Equal(t, "acceptedVersion", loc.Version)
	require.NotNil(t, loc.SourceID)
	assert.Equal(t, "S2", *loc.SourceID)
	assert.Equal(t, "repository", loc.SourceType)
}

func TestExtractorSkipsEntitiesWithoutIDs(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	works := []*providers.Work{
		{
			ID: "https://openalex.org/W3000",
			Authorships: []providers.Authorship{
				{Author: providers.AuthorRef{DisplayName: "No Identifier"}},
			},
			Keywords: []providers.Keyword{{DisplayName: "unidentified"}},
		},
	}

	assert.Empty(t, e.Authors(works))
	assert.Empty(t, e.Keywords(works))

	facts := e.BuildWorkFacts(works)
	assert.Empty(t, facts.WorkAuthors)
	require.Len(t, facts.Works, 1)
	assert.Zero(t, facts.Works[0].AuthorCount, "authorships without an ID produce no fact row and must not be counted")
}

func TestAuthorCountMatchesDistinctFactRows(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	works := []*providers.Work{
		{
			ID: "https://openalex.org/W4000",
			Authorships: []providers.Authorship{
				{Author: providers.AuthorRef{ID: "https://openalex.org/A1", DisplayName: "Amina El Fassi"}},
				{Author: providers.AuthorRef{ID: "https://openalex.org/A1", DisplayName: "Amina El Fassi"}},
				{Author: providers.AuthorRef{DisplayName: "No Identifier"}},
			},
		},
	}

	facts := e.BuildWorkFacts(works)
	require.Len(t, facts.Works, 1)

	distinct := make(map[string]struct{})
	for _, wa := range facts.WorkAuthors {
		distinct[wa.AuthorID] = struct{}{}
	}
	assert.Equal(t, len(distinct), facts.Works[0].AuthorCount)
	assert.Equal(t, 1, facts.Works[0].AuthorCount)
}
