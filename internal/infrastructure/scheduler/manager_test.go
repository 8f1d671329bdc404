package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/paygate/internal/shared/logger"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Execute(context.Context) (int, error) {
	j.runs.Add(1)
	return 3, j.err
}

func TestSchedulerManager_CatalogRefresh(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{}
	require.NoError(t, m.RegisterCatalogRefresh(job, 50*time.Millisecond))

	m.Start()
	m.Start()

	require.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	runs := job.runs.Load()
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, runs, job.runs.Load(), "no runs after stop")
	require.NoError(t, m.Stop(), "stopping twice is a no-op")
}

func TestSchedulerManager_FailingJobKeepsRunning(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{err: errors.New("gateway down")}
	require.NoError(t, m.RegisterCatalogRefresh(job, 50*time.Millisecond))
	m.Start()
	defer m.Stop()

	require.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerManager_InvalidInterval(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	assert.Error(t, m.RegisterCatalogRefresh(&countingJob{}, 0))
}
