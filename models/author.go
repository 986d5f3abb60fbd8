package models

import "time"

// Author is keyed by its OpenAlex ID; ORCID is present when known.
type Author struct {
	AuthorID   string    `json:"author_id" gorm:"column:author_id;primaryKey"`
	AuthorName string    `json:"author_name" gorm:"column:author_name;not null"`
	ORCID      string    `json:"orcid" gorm:"column:orcid"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Author) TableName() string { return "dim_authors" }
