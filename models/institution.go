package models

import "time"

// Institution is a research organization, keyed by its OpenAlex ID.
type Institution struct {
	InstitutionID   string    `json:"institution_id" gorm:"column:institution_id;primaryKey"`
	InstitutionName string    `json:"institution_name" gorm:"column:institution_name;not null"`
	InstitutionType string    `json:"institution_type" gorm:"column:institution_type"`
	CountryCode     string    `json:"country_code" gorm:"column:country_code;size:2"`
	RORURL          string    `json:"ror_url" gorm:"column:ror_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Institution) TableName() string { return "dim_institutions" }
