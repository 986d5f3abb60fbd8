package models

import "time"

// Domain is the top level of the OpenAlex subject classification hierarchy.
type Domain struct {
	DomainID   string    `json:"domain_id" gorm:"column:domain_id;primaryKey"`
	DomainName string    `json:"domain_name" gorm:"column:domain_name;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Domain) TableName() string { return "dim_domains" }

// Field sits below Domain in the subject hierarchy.
type Field struct {
	FieldID   string    `json:"field_id" gorm:"column:field_id;primaryKey"`
	FieldName string    `json:"field_name" gorm:"column:field_name;not null"`
	DomainID  *string   `json:"domain_id" gorm:"column:domain_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Field) TableName() string { return "dim_fields" }

// Subfield sits below Field in the subject hierarchy.
type Subfield struct {
	SubfieldID   string    `json:"subfield_id" gorm:"column:subfield_id;primaryKey"`
	SubfieldName string    `json:"subfield_name" gorm:"column:subfield_name;not null"`
	FieldID      *string   `json:"field_id" gorm:"column:field_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subfield) TableName() string { return "dim_subfields" }

// Topic is the leaf of the subject hierarchy. The ancestor names are stored
// denormalized next to the foreign keys; both come from the same nested
// object of the source work document, so they cannot drift apart.
type Topic struct {
	TopicID      string    `json:"topic_id" gorm:"column:topic_id;primaryKey"`
	TopicName    string    `json:"topic_name" gorm:"column:topic_name;not null"`
	DomainID     *string   `json:"domain_id" gorm:"column:domain_id"`
	DomainName   string    `json:"domain_name" gorm:"column:domain_name"`
	FieldID      *string   `json:"field_id" gorm:"column:field_id"`
	FieldName    string    `json:"field_name" gorm:"column:field_name"`
	SubfieldID   *string   `json:"subfield_id" gorm:"column:subfield_id"`
	SubfieldName string    `json:"subfield_name" gorm:"column:subfield_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Topic) TableName() string { return "dim_topics" }
