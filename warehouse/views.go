package warehouse

import (
	"time"

	"gorm.io/gorm"
)

// Row types and readers for the analytical views. The views are plain SQL
// views, so every call reflects the warehouse state as of the last ETL
// commit. A limit of 0 means no limit.

// WorkOverview is one row of vw_works_overview.
type WorkOverview struct {
	WorkID                    string     `json:"work_id"`
	DOI                       string     `json:"doi"`
	Title                     string     `json:"title"`
	PublicationYear           *int       `json:"publication_year"`
	PublicationDate           *time.Time `json:"publication_date"`
	Language                  string     `json:"language"`
	WorkType                  string     `json:"work_type"`
	SourceName                string     `json:"source_name"`
	CitedByCount              int        `json:"cited_by_count"`
	IsOA                      bool       `json:"is_oa"`
	OAStatus                  string     `json:"oa_status"`
	IsRetracted               bool       `json:"is_retracted"`
	AuthorCount               int        `json:"author_count"`
	InstitutionsDistinctCount int        `json:"institutions_distinct_count"`
	CountriesDistinctCount    int        `json:"countries_distinct_count"`
}

// WorkTopicRow is one row of vw_works_with_topics.
type WorkTopicRow struct {
	WorkID          string   `json:"work_id"`
	Title           string   `json:"title"`
	PublicationYear *int     `json:"publication_year"`
	CitedByCount    int      `json:"cited_by_count"`
	TopicName       string   `json:"topic_name"`
	TopicScore      *float64 `json:"topic_score"`
	DomainName      string   `json:"domain_name"`
	FieldName       string   `json:"field_name"`
	SubfieldName    string   `json:"subfield_name"`
}

// PublicationTrend is one row of vw_publication_trends_by_year.
type PublicationTrend struct {
	PublicationYear int     `json:"publication_year"`
	WorkCount       int     `json:"work_count"`
	OACount         int     `json:"oa_count"`
	AvgCitations    float64 `json:"avg_citations"`
	MaxCitations    int     `json:"max_citations"`
}

// OADistribution is one row of vw_publication_distribution_oa.
type OADistribution struct {
	PublicationYear int     `json:"publication_year"`
	IsOA            bool    `json:"is_oa"`
	WorkCount       int     `json:"work_count"`
	Percentage      float64 `json:"percentage"`
}

// TopAuthor is one row of vw_top_authors.
type TopAuthor struct {
	AuthorID     string  `json:"author_id"`
	AuthorName   string  `json:"author_name"`
	ORCID        string  `json:"orcid"`
	WorkCount    int     `json:"work_count"`
	AvgCitations float64 `json:"avg_citations"`
}

// TopInstitution is one row of vw_top_institutions.
type TopInstitution struct {
	InstitutionID   string  `json:"institution_id"`
	InstitutionName string  `json:"institution_name"`
	CountryCode     string  `json:"country_code"`
	WorkCount       int     `json:"work_count"`
	AvgCitations    float64 `json:"avg_citations"`
}

// TopTopic is one row of vw_top_topics.
type TopTopic struct {
	TopicID      string  `json:"topic_id"`
	TopicName    string  `json:"topic_name"`
	DomainName   string  `json:"domain_name"`
	FieldName    string  `json:"field_name"`
	WorkCount    int     `json:"work_count"`
	AvgScore     float64 `json:"avg_score"`
	AvgCitations float64 `json:"avg_citations"`
}

// CountryDistribution is one row of vw_geographic_distribution.
type CountryDistribution struct {
	CountryCode      string  `json:"country_code"`
	InstitutionCount int     `json:"institution_count"`
	WorkCount        int     `json:"work_count"`
	AvgCitations     float64 `json:"avg_citations"`
}

// SourcePerformance is one row of vw_source_performance.
type SourcePerformance struct {
	SourceID     string  `json:"source_id"`
	SourceName   string  `json:"source_name"`
	SourceType   string  `json:"source_type"`
	IsOA         bool    `json:"is_oa"`
	IsInDOAJ     bool    `json:"is_in_doaj"`
	WorkCount    int     `json:"work_count"`
	AvgCitations float64 `json:"avg_citations"`
	LatestYear   *int    `json:"latest_year"`
}

// TopKeyword is one row of vw_top_keywords.
type TopKeyword struct {
	KeywordID   string  `json:"keyword_id"`
	KeywordName string  `json:"keyword_name"`
	WorkCount   int     `json:"work_count"`
	AvgScore    float64 `json:"avg_score"`
}

func limited(db *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return db.Limit(limit)
	}
	return db
}

// WorksOverview reads vw_works_overview, newest publication years first.
func WorksOverview(db *gorm.DB, limit int) ([]WorkOverview, error) {
	var rows []WorkOverview
	err := limited(db.Table("vw_works_overview"), limit).Find(&rows).Error
	return rows, err
}

// WorksWithTopics reads vw_works_with_topics.
func WorksWithTopics(db *gorm.DB, limit int) ([]WorkTopicRow, error) {
	var rows []WorkTopicRow
	err := limited(db.Table("vw_works_with_topics"), limit).Find(&rows).Error
	return rows, err
}

// PublicationTrends reads vw_publication_trends_by_year. A year of 0 returns
// all years; otherwise only the requested year.
func PublicationTrends(db *gorm.DB, year int) ([]PublicationTrend, error) {
	q := db.Table("vw_publication_trends_by_year")
	if year > 0 {
		q = q.Where("publication_year = ?", year)
	}
	var rows []PublicationTrend
	err := q.Find(&rows).Error
	return rows, err
}

// OADistributionByYear reads vw_publication_distribution_oa, optionally
// filtered to one year (0 = all years).
func OADistributionByYear(db *gorm.DB, year int) ([]OADistribution, error) {
	q := db.Table("vw_publication_distribution_oa")
	if year > 0 {
		q = q.Where("publication_year = ?", year)
	}
	var rows []OADistribution
	err := q.Find(&rows).Error
	return rows, err
}

// TopAuthors reads vw_top_authors, most productive first.
func TopAuthors(db *gorm.DB, limit int) ([]TopAuthor, error) {
	var rows []TopAuthor
	err := limited(db.Table("vw_top_authors"), limit).Find(&rows).Error
	return rows, err
}

// TopInstitutions reads vw_top_institutions.
func TopInstitutions(db *gorm.DB, limit int) ([]TopInstitution, error) {
	var rows []TopInstitution
	err := limited(db.Table("vw_top_institutions"), limit).Find(&rows).Error
	return rows, err
}

// TopTopics reads vw_top_topics.
func TopTopics(db *gorm.DB, limit int) ([]TopTopic, error) {
	var rows []TopTopic
	err := limited(db.Table("vw_top_topics"), limit).Find(&rows).Error
	return rows, err
}

// GeographicDistribution reads vw_geographic_distribution. Rows without a
// country code are excluded by the view itself.
func GeographicDistribution(db *gorm.DB) ([]CountryDistribution, error) {
	var rows []CountryDistribution
	err := db.Table("vw_geographic_distribution").Find(&rows).Error
	return rows, err
}

// SourcePerformances reads vw_source_performance.
func SourcePerformances(db *gorm.DB, limit int) ([]SourcePerformance, error) {
	var rows []SourcePerformance
	err := limited(db.Table("vw_source_performance"), limit).Find(&rows).Error
	return rows, err
}

// TopKeywords reads vw_top_keywords.
func TopKeywords(db *gorm.DB, limit int) ([]TopKeyword, error) {
	var rows []TopKeyword
	err := limited(db.Table("vw_top_keywords"), limit).Find(&rows).Error
	return rows, err
}
