package models

import "time"

// Source is a journal, repository or other publication venue.
type Source struct {
	SourceID             string    `json:"source_id" gorm:"column:source_id;primaryKey"`
	SourceName           string    `json:"source_name" gorm:"column:source_name;not null"`
	SourceType           string    `json:"source_type" gorm:"column:source_type"`
	ISSNL                string    `json:"issn_l" gorm:"column:issn_l"`
	IsOA                 bool      `json:"is_oa" gorm:"column:is_oa;default:false"`
	IsInDOAJ             bool      `json:"is_in_doaj" gorm:"column:is_in_doaj;default:false"`
	IsCore               bool      `json:"is_core" gorm:"column:is_core;default:false"`
	HostOrganizationName string    `json:"host_organization_name" gorm:"column:host_organization_name"`
	CreatedAt            time.Time `json:"created_at"`
}

func (Source) TableName() string { return "dim_sources" }
