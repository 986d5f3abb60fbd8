package services

import (
	"time"

	"go.uber.org/zap"

	"scholar-warehouse/models"
	"scholar-warehouse/providers"
)

// Extractor pulls dimension rows and relationship facts out of fetched work
// documents. All data comes from the documents themselves; no enrichment
// calls are made.
type Extractor struct {
	Logger *zap.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{Logger: logger}
}

// idPtr shortens an entity URL to its ID, returning nil for empty input so
// the column stays NULL instead of breaking a foreign key.
func idPtr(raw string) *string {
	if raw == "" {
		return nil
	}
	id := providers.ShortID(raw)
	return &id
}

func parseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func workTitle(w *providers.Work) string {
	if w.Title != "" {
		return w.Title
	}
	return w.DisplayName
}

// Institutions returns the unique institutions referenced by any authorship.
func (e *Extractor) Institutions(works []*providers.Work) []models.Institution {
	seen := make(map[string]models.Institution)
	for _, w := range works {
		for _, as := range w.Authorships {
			for _, inst := range as.Institutions {
				if inst.ID == "" || inst.DisplayName == "" {
					continue
				}
				id := providers.ShortID(inst.ID)
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = models.Institution{
					InstitutionID:   id,
					InstitutionName: inst.DisplayName,
					InstitutionType: inst.Type,
					CountryCode:     inst.CountryCode,
					RORURL:          inst.ROR,
				}
			}
		}
	}
	out := make([]models.Institution, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	e.Logger.Info("Extracted institutions", zap.Int("count", len(out)))
	return out
}

// Authors returns the unique authors referenced by any authorship.
func (e *Extractor) Authors(works []*providers.Work) []models.Author {
	seen := make(map[string]models.Author)
	for _, w := range works {
		for _, as := range w.Authorships {
			if as.Author.ID == "" {
				continue
			}
			id := providers.ShortID(as.Author.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = models.Author{
				AuthorID:   id,
				AuthorName: as.Author.DisplayName,
				ORCID:      as.Author.ORCID,
			}
		}
	}
	out := make([]models.Author, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	e.Logger.Info("Extracted authors", zap.Int("count", len(out)))
	return out
}

// TopicHierarchy returns the unique topics together with their ancestor
// levels. The denormalized names on each topic row and the normalized
// ancestor rows are taken from the same nested objects, which keeps them
// consistent by construction.
func (e *Extractor) TopicHierarchy(works []*providers.Work) (topics []models.Topic, subfields []models.Subfield, fields []models.Field, domains []models.Domain) {
	topicSeen := make(map[string]models.Topic)
	subfieldSeen := make(map[string]models.Subfield)
	fieldSeen := make(map[string]models.Field)
	domainSeen := make(map[string]models.Domain)

	for _, w := range works {
		for _, t := range w.Topics {
			if t.ID == "" {
				continue
			}
			topicID := providers.ShortID(t.ID)

			var domainID, fieldID, subfieldID *string
			var domainName, fieldName, subfieldName string

			if t.Domain != nil && t.Domain.ID != "" {
				domainID = idPtr(t.Domain.ID)
				domainName = t.Domain.DisplayName
				if _, ok := domainSeen[*domainID]; !ok {
					domainSeen[*domainID] = models.Domain{DomainID: *domainID, DomainName: domainName}
				}
			}
			if t.Field != nil && t.Field.ID != "" {
				fieldID = idPtr(t.Field.ID)
				fieldName = t.Field.DisplayName
				if _, ok := fieldSeen[*fieldID]; !ok {
					fieldSeen[*fieldID] = models.Field{FieldID: *fieldID, FieldName: fieldName, DomainID: domainID}
				}
			}
			if t.Subfield != nil && t.Subfield.ID != "" {
				subfieldID = idPtr(t.Subfield.ID)
				subfieldName = t.Subfield.DisplayName
				if _, ok := subfieldSeen[*subfieldID]; !ok {
					subfieldSeen[*subfieldID] = models.Subfield{SubfieldID: *subfieldID, SubfieldName: subfieldName, FieldID: fieldID}
				}
			}

			if _, ok := topicSeen[topicID]; !ok {
				topicSeen[topicID] = models.Topic{
					TopicID:      topicID,
					TopicName:    t.DisplayName,
					DomainID:     domainID,
					DomainName:   domainName,
					FieldID:      fieldID,
					FieldName:    fieldName,
					SubfieldID:   subfieldID,
					SubfieldName: subfieldName,
				}
			}
		}
	}

	for _, v := range topicSeen {
		topics = append(topics, v)
	}
	for _, v := range subfieldSeen {
		subfields = append(subfields, v)
	}
	for _, v := range fieldSeen {
		fields = append(fields, v)
	}
	for _, v := range domainSeen {
		domains = append(domains, v)
	}
	e.Logger.Info("Extracted topic hierarchy",
		zap.Int("topics", len(topics)), zap.Int("subfields", len(subfields)),
		zap.Int("fields", len(fields)), zap.Int("domains", len(domains)))
	return topics, subfields, fields, domains
}

// Keywords returns the unique keywords of all works.
func (e *Extractor) Keywords(works []*providers.Work) []models.Keyword {
	seen := make(map[string]models.Keyword)
	for _, w := range works {
		for _, kw := range w.Keywords {
			if kw.ID == "" {
				continue
			}
			id := providers.ShortID(kw.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = models.Keyword{KeywordID: id, KeywordName: kw.DisplayName}
		}
	}
	out := make([]models.Keyword, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	e.Logger.Info("Extracted keywords", zap.Int("count", len(out)))
	return out
}

// Sources returns the unique sources referenced by the primary location and
// every alternate location of all works.
func (e *Extractor) Sources(works []*providers.Work) []models.Source {
	seen := make(map[string]models.Source)
	add := func(s *providers.SourceRef) {
		if s == nil || s.ID == "" {
			return
		}
		id := providers.ShortID(s.ID)
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = models.Source{
			SourceID:             id,
			SourceName:           s.DisplayName,
			SourceType:           s.Type,
			ISSNL:                s.ISSNL,
			IsOA:                 s.IsOA,
			IsInDOAJ:             s.IsInDOAJ,
			IsCore:               s.IsCore,
			HostOrganizationName: s.HostOrganizationName,
		}
	}

	for _, w := range works {
		if w.PrimaryLocation != nil {
			add(w.PrimaryLocation.Source)
		}
		for i := range w.Locations {
			add(w.Locations[i].Source)
		}
	}
	out := make([]models.Source, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	e.Logger.Info("Extracted sources", zap.Int("count", len(out)))
	return out
}

// Concepts returns the unique legacy concepts of all works.
func (e *Extractor) Concepts(works []*providers.Work) []models.Concept {
	seen := make(map[string]models.Concept)
	for _, w := range works {
		for _, c := range w.Concepts {
			if c.ID == "" {
				continue
			}
			id := providers.ShortID(c.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = models.Concept{ConceptID: id, ConceptName: c.DisplayName, ConceptLevel: c.Level}
		}
	}
	out := make([]models.Concept, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	e.Logger.Info("Extracted concepts", zap.Int("count", len(out)))
	return out
}

// CitationYears returns one snapshot row per (work, year) of counts_by_year.
func (e *Extractor) CitationYears(works []*providers.Work) []models.WorkCitationYear {
	var out []models.WorkCitationYear
	for _, w := range works {
		workID := providers.ShortID(w.ID)
		for _, yc := range w.CountsByYear {
			if yc.Year == 0 {
				continue
			}
			out = append(out, models.WorkCitationYear{
				WorkID:       workID,
				Year:         yc.Year,
				CitedByCount: yc.CitedByCount,
			})
		}
	}
	e.Logger.Info("Extracted citation year records", zap.Int("count", len(out)))
	return out
}

// Locations returns one fact row per alternate hosting location of a work.
func (e *Extractor) Locations(works []*providers.Work) []models.WorkLocation {
	var out []models.WorkLocation
	for _, w := range works {
		workID := providers.ShortID(w.ID)
		for _, loc := range w.Locations {
			row := models.WorkLocation{
				WorkID:         workID,
				LocationID:     loc.ID,
				IsOA:           loc.IsOA,
				LandingPageURL: loc.LandingPageURL,
				PDFURL:         loc.PDFURL,
				LicenseID:      loc.LicenseID,
				Version:        loc.Version,
				IsAccepted:     loc.IsAccepted,
				IsPublished:    loc.IsPublished,
				RawSourceName:  loc.RawSourceName,
				RawType:        loc.RawType,
			}
			if row.LicenseID == "" {
				row.LicenseID = loc.License
			}
			if loc.Source != nil && loc.Source.ID != "" {
				row.SourceID = idPtr(loc.Source.ID)
				row.SourceName = loc.Source.DisplayName
				row.SourceType = loc.Source.Type
			}
			out = append(out, row)
		}
	}
	e.Logger.Info("Extracted work locations", zap.Int("count", len(out)))
	return out
}

// WorkFacts bundles the central work facts with all relationship facts built
// from the same documents.
type WorkFacts struct {
	Works                  []models.Work
	WorkAuthors            []models.WorkAuthor
	WorkAuthorInstitutions []models.WorkAuthorInstitution
	WorkTopics             []models.WorkTopic
	WorkKeywords           []models.WorkKeyword
	WorkConcepts           []models.WorkConcept
}

// BuildWorkFacts flattens each document into its work fact and relationship
// facts. The derived counts on the work fact (distinct authors, distinct
// institutions, distinct countries) are computed from the same authorship
// pass that emits the relationship rows, so each count equals the distinct
// values found in those rows.
func (e *Extractor) BuildWorkFacts(works []*providers.Work) *WorkFacts {
	facts := &WorkFacts{}

	for _, w := range works {
		workID := providers.ShortID(w.ID)

		distinctAuthors := make(map[string]struct{})
		distinctInstitutions := make(map[string]struct{})
		distinctCountries := make(map[string]struct{})

		for _, as := range w.Authorships {
			if as.Author.ID == "" {
				continue
			}
			authorID := providers.ShortID(as.Author.ID)
			distinctAuthors[authorID] = struct{}{}
			facts.WorkAuthors = append(facts.WorkAuthors, models.WorkAuthor{
				WorkID:          workID,
				AuthorID:        authorID,
				AuthorName:      as.Author.DisplayName,
				AuthorPosition:  as.AuthorPosition,
				IsCorresponding: as.IsCorresponding,
			})

			for _, inst := range as.Institutions {
				if inst.ID == "" {
					continue
				}
				instID := providers.ShortID(inst.ID)
				distinctInstitutions[instID] = struct{}{}
				if inst.CountryCode != "" {
					distinctCountries[inst.CountryCode] = struct{}{}
				}
				facts.WorkAuthorInstitutions = append(facts.WorkAuthorInstitutions, models.WorkAuthorInstitution{
					WorkID:             workID,
					AuthorID:           authorID,
					InstitutionID:      instID,
					InstitutionName:    inst.DisplayName,
					InstitutionCountry: inst.CountryCode,
				})
			}
		}

		for _, t := range w.Topics {
			if t.ID == "" {
				continue
			}
			row := models.WorkTopic{
				WorkID:     workID,
				TopicID:    providers.ShortID(t.ID),
				TopicName:  t.DisplayName,
				TopicScore: t.Score,
			}
			if t.Domain != nil {
				row.DomainID = idPtr(t.Domain.ID)
				row.DomainName = t.Domain.DisplayName
			}
			if t.Field != nil {
				row.FieldID = idPtr(t.Field.ID)
				row.FieldName = t.Field.DisplayName
			}
			if t.Subfield != nil {
				row.SubfieldID = idPtr(t.Subfield.ID)
				row.SubfieldName = t.Subfield.DisplayName
			}
			facts.WorkTopics = append(facts.WorkTopics, row)
		}

		for _, kw := range w.Keywords {
			if kw.ID == "" {
				continue
			}
			facts.WorkKeywords = append(facts.WorkKeywords, models.WorkKeyword{
				WorkID:       workID,
				KeywordID:    providers.ShortID(kw.ID),
				KeywordName:  kw.DisplayName,
				KeywordScore: kw.Score,
			})
		}

		for _, c := range w.Concepts {
			if c.ID == "" {
				continue
			}
			facts.WorkConcepts = append(facts.WorkConcepts, models.WorkConcept{
				WorkID:       workID,
				ConceptID:    providers.ShortID(c.ID),
				ConceptName:  c.DisplayName,
				ConceptScore: c.Score,
			})
		}

		work := models.Work{
			WorkID:                    workID,
			DOI:                       w.DOI,
			Title:                     workTitle(w),
			Language:                  w.Language,
			WorkType:                  w.Type,
			CitedByCount:              w.CitedByCount,
			IsOA:                      w.OpenAccess.IsOA,
			OAStatus:                  w.OpenAccess.OAStatus,
			OAURL:                     w.OpenAccess.OAURL,
			IsRetracted:               w.IsRetracted,
			CountriesDistinctCount:    len(distinctCountries),
			InstitutionsDistinctCount: len(distinctInstitutions),
			AuthorCount:               len(distinctAuthors),
		}
		if w.PublicationYear > 0 {
			year := w.PublicationYear
			work.PublicationYear = &year
		}
		work.PublicationDate = parseDate(w.PublicationDate)
		if w.PrimaryLocation != nil {
			work.LandingPageURL = w.PrimaryLocation.LandingPageURL
			work.PDFURL = w.PrimaryLocation.PDFURL
			if w.PrimaryLocation.Source != nil && w.PrimaryLocation.Source.ID != "" {
				work.SourceID = idPtr(w.PrimaryLocation.Source.ID)
				work.SourceName = w.PrimaryLocation.Source.DisplayName
			}
		}
		if w.BestOALocation != nil {
			work.BestOALocation = w.BestOALocation.LandingPageURL
		}
		facts.Works = append(facts.Works, work)
	}

	e.Logger.Info("Built work facts",
		zap.Int("works", len(facts.Works)),
		zap.Int("work_authors", len(facts.WorkAuthors)),
		zap.Int("work_author_institutions", len(facts.WorkAuthorInstitutions)),
		zap.Int("work_topics", len(facts.WorkTopics)),
		zap.Int("work_keywords", len(facts.WorkKeywords)),
		zap.Int("work_concepts", len(facts.WorkConcepts)))
	return facts
}
