package providers

// Work mirrors the OpenAlex work document, reduced to the fields the
// warehouse consumes. All nested entity references carry full OpenAlex URLs
// as IDs; use ShortID before storing them.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	DisplayName     string       `json:"display_name"`
	PublicationYear int          `json:"publication_year"`
	PublicationDate string       `json:"publication_date"`
	Language        string       `json:"language"`
	Type            string       `json:"type"`
	CitedByCount    int          `json:"cited_by_count"`
	IsRetracted     bool         `json:"is_retracted"`
	OpenAccess      OpenAccess   `json:"open_access"`
	Authorships     []Authorship `json:"authorships"`
	PrimaryLocation *Location    `json:"primary_location"`
	BestOALocation  *Location    `json:"best_oa_location"`
	Locations       []Location   `json:"locations"`
	Topics          []Topic      `json:"topics"`
	Keywords        []Keyword    `json:"keywords"`
	Concepts        []Concept    `json:"concepts"`
	CountsByYear    []YearCount  `json:"counts_by_year"`
}

// OpenAccess is the open-access block of a work.
type OpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

// Authorship links a work to one author and their affiliations.
type Authorship struct {
	AuthorPosition  string           `json:"author_position"`
	IsCorresponding bool             `json:"is_corresponding"`
	Author          AuthorRef        `json:"author"`
	Institutions    []InstitutionRef `json:"institutions"`
}

// AuthorRef is a dehydrated author.
type AuthorRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

// InstitutionRef is a dehydrated institution.
type InstitutionRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ROR         string `json:"ror"`
	CountryCode string `json:"country_code"`
	Type        string `json:"type"`
}

// SourceRef is a dehydrated source (journal/venue).
type SourceRef struct {
	ID                   string `json:"id"`
	DisplayName          string `json:"display_name"`
	Type                 string `json:"type"`
	ISSNL                string `json:"issn_l"`
	IsOA                 bool   `json:"is_oa"`
	IsInDOAJ             bool   `json:"is_in_doaj"`
	IsCore               bool   `json:"is_core"`
	HostOrganizationName string `json:"host_organization_name"`
}

// Location is one hosting location of a work (primary, best-OA or alternate).
type Location struct {
	ID             string     `json:"id"`
	IsOA           bool       `json:"is_oa"`
	LandingPageURL string     `json:"landing_page_url"`
	PDFURL         string     `json:"pdf_url"`
	Source         *SourceRef `json:"source"`
	License        string     `json:"license"`
	LicenseID      string     `json:"license_id"`
	Version        string     `json:"version"`
	IsAccepted     bool       `json:"is_accepted"`
	IsPublished    bool       `json:"is_published"`
	RawSourceName  string     `json:"raw_source_name"`
	RawType        string     `json:"raw_type"`
}

// Ref is a dehydrated subject-hierarchy entity (domain, field, subfield).
type Ref struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Topic is a topic assignment on a work, with its hierarchy and score.
type Topic struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Score       *float64 `json:"score"`
	Subfield    *Ref     `json:"subfield"`
	Field       *Ref     `json:"field"`
	Domain      *Ref     `json:"domain"`
}

// Keyword is a keyword assignment on a work.
type Keyword struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Score       *float64 `json:"score"`
}

// Concept is a legacy concept assignment on a work.
type Concept struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Level       *int     `json:"level"`
	Score       *float64 `json:"score"`
}

// YearCount is one entry of counts_by_year.
type YearCount struct {
	Year         int `json:"year"`
	CitedByCount int `json:"cited_by_count"`
}
