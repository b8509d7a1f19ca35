package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBatch struct {
	name string
	runs chan time.Time
}

func (f *fakeBatch) Run(_ context.Context, runDate time.Time) (*service.BatchReport, error) {
	f.runs <- runDate
	return &service.BatchReport{Name: f.name}, nil
}

func testConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Enabled:            true,
		Timezone:           "UTC",
		PassiveIncomeCron:  "0 0 * * 1-5",
		RankAssignmentCron: "15 0 * * *",
		BatchTimeout:       time.Minute,
	}
}

func TestNewRegistersBothJobs(t *testing.T) {
	passive := &fakeBatch{name: domain.BatchPassiveIncome, runs: make(chan time.Time, 1)}
	rank := &fakeBatch{name: domain.BatchRankAssignment, runs: make(chan time.Time, 1)}

	s, err := New(testConfig(), zap.NewNop(), passive, rank)
	require.NoError(t, err)
	defer s.Stop()

	names := map[string]bool{}
	for _, j := range s.Jobs() {
		names[j.Name()] = true
	}
	assert.True(t, names[domain.BatchPassiveIncome])
	assert.True(t, names[domain.BatchRankAssignment])
}

func TestRunNowFiresBatch(t *testing.T) {
	passive := &fakeBatch{name: domain.BatchPassiveIncome, runs: make(chan time.Time, 1)}
	rank := &fakeBatch{name: domain.BatchRankAssignment, runs: make(chan time.Time, 1)}

	s, err := New(testConfig(), zap.NewNop(), passive, rank)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	for _, j := range s.Jobs() {
		if j.Name() == domain.BatchRankAssignment {
			require.NoError(t, j.RunNow())
		}
	}

	select {
	case runDate := <-rank.runs:
		assert.Equal(t, time.UTC, runDate.Location())
	case <-time.After(5 * time.Second):
		t.Fatal("rank assignment did not run")
	}
	assert.Empty(t, passive.runs)
}

func TestNewRejectsBadConfig(t *testing.T) {
	batch := &fakeBatch{runs: make(chan time.Time, 1)}

	cfg := testConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err := New(cfg, zap.NewNop(), batch, batch)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.PassiveIncomeCron = "not a cron"
	_, err = New(cfg, zap.NewNop(), batch, batch)
	assert.Error(t, err)
}
