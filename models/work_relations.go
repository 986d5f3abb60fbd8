package models

import "time"

// WorkAuthor links a work to one of its authors. The author name is stored
// denormalized for query convenience.
type WorkAuthor struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	WorkID          string    `json:"work_id" gorm:"column:work_id;not null;index"`
	AuthorID        string    `json:"author_id" gorm:"column:author_id;not null;index"`
	AuthorName      string    `json:"author_name" gorm:"column:author_name"`
	AuthorPosition  string    `json:"author_position" gorm:"column:author_position"`
	IsCorresponding bool      `json:"is_corresponding" gorm:"column:is_corresponding;default:false"`
	CreatedAt       time.Time `json:"created_at"`
}

func (WorkAuthor) TableName() string { return "fact_work_authors" }

// WorkAuthorInstitution records the affiliation of an author on a work.
type WorkAuthorInstitution struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	WorkID             string    `json:"work_id" gorm:"column:work_id;not null;index"`
	AuthorID           string    `json:"author_id" gorm:"column:author_id;not null"`
	InstitutionID      string    `json:"institution_id" gorm:"column:institution_id;not null;index"`
	InstitutionName    string    `json:"institution_name" gorm:"column:institution_name"`
	InstitutionCountry string    `json:"institution_country" gorm:"column:institution_country;size:2;index"`
	CreatedAt          time.Time `json:"created_at"`
}

func (WorkAuthorInstitution) TableName() string { return "fact_work_author_institutions" }

// WorkTopic links a work to a topic with its relevance score and the
// denormalized subject hierarchy of the topic as classified on this work.
type WorkTopic struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WorkID       string    `json:"work_id" gorm:"column:work_id;not null;index"`
	TopicID      string    `json:"topic_id" gorm:"column:topic_id;not null;index"`
	TopicName    string    `json:"topic_name" gorm:"column:topic_name"`
	TopicScore   *float64  `json:"topic_score" gorm:"column:topic_score"`
	DomainID     *string   `json:"domain_id" gorm:"column:domain_id"`
	DomainName   string    `json:"domain_name" gorm:"column:domain_name"`
	FieldID      *string   `json:"field_id" gorm:"column:field_id"`
	FieldName    string    `json:"field_name" gorm:"column:field_name"`
	SubfieldID   *string   `json:"subfield_id" gorm:"column:subfield_id"`
	SubfieldName string    `json:"subfield_name" gorm:"column:subfield_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WorkTopic) TableName() string { return "fact_work_topics" }

// WorkKeyword links a work to a keyword with its confidence score.
type WorkKeyword struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WorkID       string    `json:"work_id" gorm:"column:work_id;not null;index"`
	KeywordID    string    `json:"keyword_id" gorm:"column:keyword_id;not null;index"`
	KeywordName  string    `json:"keyword_name" gorm:"column:keyword_name"`
	KeywordScore *float64  `json:"keyword_score" gorm:"column:keyword_score"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WorkKeyword) TableName() string { return "fact_work_keywords" }

// WorkConcept links a work to a legacy concept with its confidence score.
type WorkConcept struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WorkID       string    `json:"work_id" gorm:"column:work_id;not null;index"`
	ConceptID    string    `json:"concept_id" gorm:"column:concept_id;not null;index"`
	ConceptName  string    `json:"concept_name" gorm:"column:concept_name"`
	ConceptScore *float64  `json:"concept_score" gorm:"column:concept_score"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WorkConcept) TableName() string { return "fact_work_concepts" }
