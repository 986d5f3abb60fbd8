package models

import "time"

// WorkCitationYear is a per-year citation count snapshot for a work.
// Unique per (work_id, year); re-loads upsert the count.
type WorkCitationYear struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WorkID       string    `json:"work_id" gorm:"column:work_id;not null;uniqueIndex:uq_work_citation_year"`
	Year         int       `json:"year" gorm:"column:year;not null;uniqueIndex:uq_work_citation_year"`
	CitedByCount int       `json:"cited_by_count" gorm:"column:cited_by_count;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WorkCitationYear) TableName() string { return "fact_work_citation_year" }
