package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-warehouse/config"
	"scholar-warehouse/models"
	"scholar-warehouse/providers"
)

type stubProvider struct {
	name  string
	works []*providers.Work
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchWorks(ctx context.Context) ([]*providers.Work, error) {
	return s.works, s.err
}

func TestETLRunLoadsStarSchema(t *testing.T) {
	db := testDB(t)
	svc := NewETLService(db, &config.Config{},
		[]providers.Provider{&stubProvider{name: "openalex", works: sampleWorks()}},
		nil, zap.NewNop())

	require.NoError(t, svc.Run(context.Background()))

	assert.EqualValues(t, 81, count(t, db, &models.Year{}))
	assert.EqualValues(t, 2, count(t, db, &models.Work{}))
	assert.EqualValues(t, 2, count(t, db, &models.Author{}))
	assert.EqualValues(t, 2, count(t, db, &models.Institution{}))
	assert.EqualValues(t, 1, count(t, db, &models.Topic{}))
	assert.EqualValues(t, 3, count(t, db, &models.WorkAuthor{}))
	assert.EqualValues(t, 2, count(t, db, &models.WorkCitationYear{}))

	var run models.ETLRun
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.NotEmpty(t, run.RunKey)
	require.NotNil(t, run.FinishedAt)

	var stats RunStats
	require.NoError(t, json.Unmarshal(run.Stats, &stats))
	assert.Equal(t, 2, stats.WorksFetched)
	assert.Equal(t, 2, stats.WorksLoaded)
	assert.Equal(t, 1, stats.Dimensions["dim_topics"])
	assert.Equal(t, 3, stats.Facts["fact_work_authors"])
}

func TestETLRunRecordsFailure(t *testing.T) {
	db := testDB(t)
	svc := NewETLService(db, &config.Config{},
		[]providers.Provider{&stubProvider{name: "openalex", err: assert.AnError}},
		nil, zap.NewNop())

	err := svc.Run(context.Background())
	require.Error(t, err)

	var run models.ETLRun
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "openalex")
}

func TestFetchAllDeduplicatesAcrossProviders(t *testing.T) {
	db := testDB(t)
	shared := sampleWorks()
	svc := NewETLService(db, &config.Config{}, []providers.Provider{
		&stubProvider{name: "openalex", works: shared},
		&stubProvider{name: "hal", works: []*providers.Work{
			shared[0],
			{ID: "hal-123", Title: "HAL only"},
		}},
	}, nil, zap.NewNop())

	works, err := svc.fetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, works, 3, "W1000 arrives from both providers but is kept once")
}

func TestFetchAllHonorsFetchLimit(t *testing.T) {
	db := testDB(t)
	svc := NewETLService(db, &config.Config{FetchLimit: 1},
		[]providers.Provider{&stubProvider{name: "openalex", works: sampleWorks()}},
		nil, zap.NewNop())

	works, err := svc.fetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, works, 1)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	db := testDB(t)
	svc := NewETLService(db, &config.Config{},
		[]providers.Provider{&stubProvider{name: "openalex", works: sampleWorks()}},
		nil, zap.NewNop())

	require.NoError(t, svc.Run(context.Background()))
	require.NoError(t, svc.Run(context.Background()))

	runs, err := svc.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[0].StartedAt.Before(runs[1].StartedAt))
}
