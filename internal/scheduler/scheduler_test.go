package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 5m", &countingJob{}))
	require.NoError(t, s.AddJob("*/5 * * * *", &countingJob{}))
	require.NoError(t, s.AddJob("0 */5 * * * *", &countingJob{}))
	assert.Equal(t, 3, s.Len())
}

func TestScheduler_AddJobInvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	assert.Error(t, s.AddJob("every now and then", &countingJob{}))
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	job.err = errors.New("boom")
	assert.Error(t, s.RunNow(job))
	assert.Equal(t, 2, job.runs)
}

func TestScheduler_RunSwallowsJobErrors(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.NotPanics(t, func() { s.run(job) })
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@hourly", &countingJob{}))

	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
}
