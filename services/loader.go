package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scholar-warehouse/models"
)

const (
	timeDimStart = 1950
	timeDimEnd   = 2030

	dimBatchSize = 500
)

// Loader writes dimension and fact rows into the warehouse. Dimension loads
// are idempotent; existing rows are never modified. Fact loads insert row by
// row so one bad record does not abort a whole batch.
type Loader struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewLoader creates a loader on the given database handle.
func NewLoader(db *gorm.DB, logger *zap.Logger) *Loader {
	return &Loader{DB: db, Logger: logger}
}

// PopulateTimeDimension fills dim_time with one row per year from 1950
// through 2030. Rerunning is a no-op for years already present.
func (l *Loader) PopulateTimeDimension() error {
	years := make([]models.Year, 0, timeDimEnd-timeDimStart+1)
	for y := timeDimStart; y <= timeDimEnd; y++ {
		years = append(years, models.Year{
			YearID: y,
			Year:   y,
			Decade: (y / 10) * 10,
		})
	}
	err := l.DB.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(years, dimBatchSize).Error
	if err != nil {
		return err
	}
	l.Logger.Info("Time dimension populated",
		zap.Int("from", timeDimStart), zap.Int("to", timeDimEnd))
	return nil
}

// insertDim inserts dimension rows, skipping any whose primary key already
// exists.
func (l *Loader) insertDim(name string, rows interface{}, count int) error {
	if count == 0 {
		return nil
	}
	err := l.DB.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, dimBatchSize).Error
	if err != nil {
		l.Logger.Error("Failed to load dimension", zap.String("dimension", name), zap.Error(err))
		return err
	}
	l.Logger.Info("Dimension loaded", zap.String("dimension", name), zap.Int("rows", count))
	return nil
}

func (l *Loader) LoadDomains(rows []models.Domain) error {
	return l.insertDim("dim_domains", rows, len(rows))
}

func (l *Loader) LoadFields(rows []models.Field) error {
	return l.insertDim("dim_fields", rows, len(rows))
}

func (l *Loader) LoadSubfields(rows []models.Subfield) error {
	return l.insertDim("dim_subfields", rows, len(rows))
}

func (l *Loader) LoadTopics(rows []models.Topic) error {
	return l.insertDim("dim_topics", rows, len(rows))
}

func (l *Loader) LoadKeywords(rows []models.Keyword) error {
	return l.insertDim("dim_keywords", rows, len(rows))
}

func (l *Loader) LoadSources(rows []models.Source) error {
	return l.insertDim("dim_sources", rows, len(rows))
}

func (l *Loader) LoadInstitutions(rows []models.Institution) error {
	return l.insertDim("dim_institutions", rows, len(rows))
}

func (l *Loader) LoadAuthors(rows []models.Author) error {
	return l.insertDim("dim_authors", rows, len(rows))
}

func (l *Loader) LoadConcepts(rows []models.Concept) error {
	return l.insertDim("dim_concepts", rows, len(rows))
}

// LoadWorks inserts work facts one by one. Works that already exist or that
// violate a constraint (for example a publication year outside dim_time) are
// skipped and counted, not fatal.
func (l *Loader) LoadWorks(rows []models.Work) (loaded, skipped int) {
	for i := range rows {
		err := l.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows[i]).Error
		if err != nil {
			skipped++
			l.Logger.Debug("Skipped work", zap.String("work_id", rows[i].WorkID), zap.Error(err))
			continue
		}
		loaded++
	}
	l.Logger.Info("Works loaded", zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	return loaded, skipped
}

// insertFacts inserts relationship rows one by one, skipping failures. Rows
// referencing a work that itself was skipped fail their foreign key and are
// dropped here, which keeps the association tables consistent with
// fact_works. Each insert works on a copy so the generated surrogate ID is
// not written back into the caller's slice; reloading the same slice appends
// fresh rows instead of colliding on the old IDs.
func insertFacts[T any](l *Loader, table string, rows []T) (loaded, skipped int) {
	for i := range rows {
		row := rows[i]
		if err := l.DB.Create(&row).Error; err != nil {
			skipped++
			l.Logger.Debug("Skipped fact row", zap.String("table", table), zap.Error(err))
			continue
		}
		loaded++
	}
	l.Logger.Info("Facts loaded", zap.String("table", table),
		zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	return loaded, skipped
}

func (l *Loader) LoadWorkAuthors(rows []models.WorkAuthor) (int, int) {
	return insertFacts(l, "fact_work_authors", rows)
}

func (l *Loader) LoadWorkAuthorInstitutions(rows []models.WorkAuthorInstitution) (int, int) {
	return insertFacts(l, "fact_work_author_institutions", rows)
}

func (l *Loader) LoadWorkTopics(rows []models.WorkTopic) (int, int) {
	return insertFacts(l, "fact_work_topics", rows)
}

func (l *Loader) LoadWorkKeywords(rows []models.WorkKeyword) (int, int) {
	return insertFacts(l, "fact_work_keywords", rows)
}

func (l *Loader) LoadWorkConcepts(rows []models.WorkConcept) (int, int) {
	return insertFacts(l, "fact_work_concepts", rows)
}

func (l *Loader) LoadWorkLocations(rows []models.WorkLocation) (int, int) {
	return insertFacts(l, "fact_work_locations", rows)
}

// LoadCitationYears upserts citation snapshots. A record for an existing
// (work, year) pair refreshes the count instead of duplicating the row.
func (l *Loader) LoadCitationYears(rows []models.WorkCitationYear) (loaded, skipped int) {
	for i := range rows {
		row := rows[i]
		err := l.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"cited_by_count"}),
		}).Create(&row).Error
		if err != nil {
			skipped++
			l.Logger.Debug("Skipped citation year",
				zap.String("work_id", rows[i].WorkID), zap.Int("year", rows[i].Year), zap.Error(err))
			continue
		}
		loaded++
	}
	l.Logger.Info("Citation years loaded", zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	return loaded, skipped
}

// ResetFacts truncates all fact tables, children first. Dimensions are kept.
func (l *Loader) ResetFacts() error {
	tables := []string{
		"fact_work_citation_year",
		"fact_work_locations",
		"fact_work_concepts",
		"fact_work_keywords",
		"fact_work_topics",
		"fact_work_author_institutions",
		"fact_work_authors",
		"fact_works",
	}
	for _, table := range tables {
		if err := l.DB.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	l.Logger.Warn("Fact tables reset", zap.Int("tables", len(tables)))
	return nil
}
