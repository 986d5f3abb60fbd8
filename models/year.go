package models

// Year is the time dimension: one row per calendar year with its decade bucket.
type Year struct {
	YearID int `json:"year_id" gorm:"column:year_id;primaryKey;autoIncrement:false"`
	Year   int `json:"year" gorm:"column:year;not null"`
	Decade int `json:"decade" gorm:"column:decade;not null"`
}

func (Year) TableName() string { return "dim_time" }
