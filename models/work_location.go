package models

import "time"

// WorkLocation is an alternate hosting location or version of a work
// (e.g. preprint vs. published version), with its own OA flag and license.
type WorkLocation struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	WorkID         string    `json:"work_id" gorm:"column:work_id;not null;index"`
	LocationID     string    `json:"location_id" gorm:"column:location_id"`
	IsOA           bool      `json:"is_oa" gorm:"column:is_oa;default:false"`
	LandingPageURL string    `json:"landing_page_url" gorm:"column:landing_page_url"`
	PDFURL         string    `json:"pdf_url" gorm:"column:pdf_url"`
	SourceID       *string   `json:"source_id" gorm:"column:source_id"`
	SourceName     string    `json:"source_name" gorm:"column:source_name"`
	SourceType     string    `json:"source_type" gorm:"column:source_type"`
	LicenseID      string    `json:"license_id" gorm:"column:license_id"`
	Version        string    `json:"version" gorm:"column:version"`
	IsAccepted     bool      `json:"is_accepted" gorm:"column:is_accepted;default:false"`
	IsPublished    bool      `json:"is_published" gorm:"column:is_published;default:false"`
	RawSourceName  string    `json:"raw_source_name" gorm:"column:raw_source_name"`
	RawType        string    `json:"raw_type" gorm:"column:raw_type"`
	CreatedAt      time.Time `json:"created_at"`
}

func (WorkLocation) TableName() string { return "fact_work_locations" }
