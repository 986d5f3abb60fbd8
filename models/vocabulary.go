package models

import "time"

// Keyword is a flat term vocabulary entry, independent of the topic hierarchy.
type Keyword struct {
	KeywordID   string    `json:"keyword_id" gorm:"column:keyword_id;primaryKey"`
	KeywordName string    `json:"keyword_name" gorm:"column:keyword_name;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Keyword) TableName() string { return "dim_keywords" }

// Concept is a legacy OpenAlex vocabulary entry with a hierarchy level
// (0 = most general).
type Concept struct {
	ConceptID    string    `json:"concept_id" gorm:"column:concept_id;primaryKey"`
	ConceptName  string    `json:"concept_name" gorm:"column:concept_name;not null"`
	ConceptLevel *int      `json:"concept_level" gorm:"column:concept_level"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Concept) TableName() string { return "dim_concepts" }
