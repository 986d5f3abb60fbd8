package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"scholar-warehouse/config"
	"scholar-warehouse/models"
	"scholar-warehouse/providers"
	"scholar-warehouse/storage"
)

var (
	etlRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_runs_total",
		Help: "ETL pipeline runs by final status",
	}, []string{"status"})

	worksFetchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "works_fetched_total",
		Help: "Work documents fetched, per provider",
	}, []string{"provider"})

	worksLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "works_loaded_total",
		Help: "Work facts inserted into the warehouse",
	})

	etlDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "etl_run_duration_seconds",
		Help:    "Wall clock duration of ETL runs",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(etlRunsTotal)
	prometheus.MustRegister(worksFetchedTotal)
	prometheus.MustRegister(worksLoadedTotal)
	prometheus.MustRegister(etlDuration)
}

// ErrRunInProgress is returned when a run is requested while another one is
// still loading.
var ErrRunInProgress = errors.New("etl run already in progress")

// RunStats summarizes one pipeline run. Persisted as JSON on the run record.
type RunStats struct {
	WorksFetched int            `json:"works_fetched"`
	WorksLoaded  int            `json:"works_loaded"`
	WorksSkipped int            `json:"works_skipped"`
	Dimensions   map[string]int `json:"dimensions"`
	Facts        map[string]int `json:"facts"`
	SnapshotKey  string         `json:"snapshot_key,omitempty"`
	DurationSecs float64        `json:"duration_seconds"`
}

type dimLoad struct {
	name string
	rows int
	load func() error
}

// ETLService runs the full pipeline: fetch works from every enabled
// provider, archive the raw documents, extract dimensions and facts, and
// load them into the star schema.
type ETLService struct {
	DB        *gorm.DB
	Config    *config.Config
	Providers []providers.Provider
	Snapshots *storage.SnapshotStore
	Logger    *zap.Logger

	mu sync.Mutex
}

// NewETLService wires the pipeline. Snapshots may be nil when archiving is
// disabled.
func NewETLService(db *gorm.DB, cfg *config.Config, provs []providers.Provider, snapshots *storage.SnapshotStore, logger *zap.Logger) *ETLService {
	return &ETLService{
		DB:        db,
		Config:    cfg,
		Providers: provs,
		Snapshots: snapshots,
		Logger:    logger,
	}
}

// Run executes one full pipeline pass. Only one run may be active at a time;
// a second call while loading returns ErrRunInProgress.
func (s *ETLService) Run(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}
	defer s.mu.Unlock()

	start := time.Now()
	run := models.ETLRun{
		RunKey:    uuid.New().String(),
		Status:    models.RunStatusRunning,
		StartedAt: start,
	}
	if err := s.DB.Create(&run).Error; err != nil {
		return fmt.Errorf("create run record: %w", err)
	}
	s.Logger.Info("ETL run started", zap.String("run_key", run.RunKey))

	stats, err := s.execute(ctx)
	if err != nil {
		s.finalize(&run, models.RunStatusFailed, stats, err)
		etlRunsTotal.WithLabelValues(models.RunStatusFailed).Inc()
		return err
	}

	stats.DurationSecs = time.Since(start).Seconds()
	s.finalize(&run, models.RunStatusCompleted, stats, nil)
	etlRunsTotal.WithLabelValues(models.RunStatusCompleted).Inc()
	etlDuration.Observe(stats.DurationSecs)
	s.Logger.Info("ETL run completed",
		zap.String("run_key", run.RunKey),
		zap.Int("works_loaded", stats.WorksLoaded),
		zap.Float64("duration_seconds", stats.DurationSecs))
	return nil
}

func (s *ETLService) execute(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{
		Dimensions: make(map[string]int),
		Facts:      make(map[string]int),
	}

	loader := NewLoader(s.DB, s.Logger)
	if err := loader.PopulateTimeDimension(); err != nil {
		return stats, fmt.Errorf("populate time dimension: %w", err)
	}

	works, err := s.fetchAll(ctx)
	if err != nil {
		return stats, err
	}
	stats.WorksFetched = len(works)
	if len(works) == 0 {
		s.Logger.Warn("No works fetched, nothing to load")
		return stats, nil
	}

	if s.Snapshots != nil {
		key, err := s.Snapshots.UploadWorks(ctx, works)
		if err != nil {
			// The warehouse load is the point of the run; a failed
			// archive upload should not abort it.
			s.Logger.Error("Snapshot upload failed", zap.Error(err))
		} else {
			stats.SnapshotKey = key
		}
	}

	if s.Config.ResetFacts {
		if err := loader.ResetFacts(); err != nil {
			return stats, fmt.Errorf("reset facts: %w", err)
		}
	}

	extractor := NewExtractor(s.Logger)

	topics, subfields, fields, domains := extractor.TopicHierarchy(works)
	keywords := extractor.Keywords(works)
	sources := extractor.Sources(works)
	institutions := extractor.Institutions(works)
	authors := extractor.Authors(works)
	concepts := extractor.Concepts(works)

	// Referenced dimensions first, so the FKs of later loads resolve.
	dims := []dimLoad{
		{"dim_domains", len(domains), func() error { return loader.LoadDomains(domains) }},
		{"dim_fields", len(fields), func() error { return loader.LoadFields(fields) }},
		{"dim_subfields", len(subfields), func() error { return loader.LoadSubfields(subfields) }},
		{"dim_topics", len(topics), func() error { return loader.LoadTopics(topics) }},
		{"dim_keywords", len(keywords), func() error { return loader.LoadKeywords(keywords) }},
		{"dim_sources", len(sources), func() error { return loader.LoadSources(sources) }},
		{"dim_institutions", len(institutions), func() error { return loader.LoadInstitutions(institutions) }},
		{"dim_authors", len(authors), func() error { return loader.LoadAuthors(authors) }},
		{"dim_concepts", len(concepts), func() error { return loader.LoadConcepts(concepts) }},
	}
	for _, d := range dims {
		if err := d.load(); err != nil {
			return stats, fmt.Errorf("load %s: %w", d.name, err)
		}
		stats.Dimensions[d.name] = d.rows
	}

	facts := extractor.BuildWorkFacts(works)
	loaded, skipped := loader.LoadWorks(facts.Works)
	stats.WorksLoaded = loaded
	stats.WorksSkipped = skipped
	worksLoadedTotal.Add(float64(loaded))

	n, _ := loader.LoadWorkAuthors(facts.WorkAuthors)
	stats.Facts["fact_work_authors"] = n
	n, _ = loader.LoadWorkAuthorInstitutions(facts.WorkAuthorInstitutions)
	stats.Facts["fact_work_author_institutions"] = n
	n, _ = loader.LoadWorkTopics(facts.WorkTopics)
	stats.Facts["fact_work_topics"] = n
	n, _ = loader.LoadWorkKeywords(facts.WorkKeywords)
	stats.Facts["fact_work_keywords"] = n
	n, _ = loader.LoadWorkConcepts(facts.WorkConcepts)
	stats.Facts["fact_work_concepts"] = n
	n, _ = loader.LoadCitationYears(extractor.CitationYears(works))
	stats.Facts["fact_work_citation_year"] = n
	n, _ = loader.LoadWorkLocations(extractor.Locations(works))
	stats.Facts["fact_work_locations"] = n

	return stats, nil
}

// fetchAll queries every enabled provider and merges the results, keeping
// the first document seen per work ID. With FetchLimit set the merged set is
// truncated.
func (s *ETLService) fetchAll(ctx context.Context) ([]*providers.Work, error) {
	var merged []*providers.Work
	seen := make(map[string]struct{})

	for _, p := range s.Providers {
		works, err := p.FetchWorks(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch from %s: %w", p.Name(), err)
		}
		worksFetchedTotal.WithLabelValues(p.Name()).Add(float64(len(works)))

		added := 0
		for _, w := range works {
			id := providers.ShortID(w.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, w)
			added++
		}
		s.Logger.Info("Provider fetch merged",
			zap.String("provider", p.Name()),
			zap.Int("fetched", len(works)),
			zap.Int("new", added))
	}

	if s.Config.FetchLimit > 0 && len(merged) > s.Config.FetchLimit {
		merged = merged[:s.Config.FetchLimit]
	}
	return merged, nil
}

func (s *ETLService) finalize(run *models.ETLRun, status string, stats *RunStats, runErr error) {
	now := time.Now()
	run.Status = status
	run.FinishedAt = &now
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if stats != nil {
		if raw, err := json.Marshal(stats); err == nil {
			run.Stats = datatypes.JSON(raw)
		}
	}
	if err := s.DB.Save(run).Error; err != nil {
		s.Logger.Error("Failed to finalize run record",
			zap.String("run_key", run.RunKey), zap.Error(err))
	}
}

// RecentRuns returns the latest run records, newest first.
func (s *ETLService) RecentRuns(limit int) ([]models.ETLRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.ETLRun
	err := s.DB.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
