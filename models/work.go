package models

import "time"

// Work is the central fact table: one row per publication. The three derived
// counts (authors, distinct institutions, distinct countries) are recomputed
// from the authorships of the source document so they always equal the
// distinct values in the relationship fact tables.
type Work struct {
	WorkID          string     `json:"work_id" gorm:"column:work_id;primaryKey"`
	DOI             string     `json:"doi" gorm:"column:doi"`
	Title           string     `json:"title" gorm:"column:title;not null"`
	PublicationYear *int       `json:"publication_year" gorm:"column:publication_year"`
	PublicationDate *time.Time `json:"publication_date" gorm:"column:publication_date"`
	Language        string     `json:"language" gorm:"column:language"`
	WorkType        string     `json:"work_type" gorm:"column:work_type"`
	SourceID        *string    `json:"source_id" gorm:"column:source_id"`
	SourceName      string     `json:"source_name" gorm:"column:source_name"`
	CitedByCount    int        `json:"cited_by_count" gorm:"column:cited_by_count;default:0"`
	IsOA            bool       `json:"is_oa" gorm:"column:is_oa;default:false"`
	OAStatus        string     `json:"oa_status" gorm:"column:oa_status"`
	OAURL           string     `json:"oa_url" gorm:"column:oa_url"`
	LandingPageURL  string     `json:"landing_page_url" gorm:"column:landing_page_url"`
	PDFURL          string     `json:"pdf_url" gorm:"column:pdf_url"`
	BestOALocation  string     `json:"best_oa_location" gorm:"column:best_oa_location"`
	IsRetracted     bool       `json:"is_retracted" gorm:"column:is_retracted;default:false"`

	CountriesDistinctCount    int `json:"countries_distinct_count" gorm:"column:countries_distinct_count;default:0"`
	InstitutionsDistinctCount int `json:"institutions_distinct_count" gorm:"column:institutions_distinct_count;default:0"`
	AuthorCount               int `json:"author_count" gorm:"column:author_count;default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (Work) TableName() string { return "fact_works" }
