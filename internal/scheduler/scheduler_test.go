package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int64
	err   error
}

func (r *countingRunner) Run(context.Context) (domain.RunReport, error) {
	r.calls.Add(1)
	return domain.RunReport{RunID: "run"}, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyAndRepeats(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 50*time.Millisecond, discardLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("unknown city")}
	s := New(runner, 50*time.Millisecond, discardLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_SkipsRunsAfterCancel(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.runOnce(ctx)
	assert.Zero(t, runner.calls.Load())

	s.runOnce(context.Background())
	assert.Equal(t, int64(1), runner.calls.Load())
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := New(&countingRunner{}, 0, discardLogger())
	require.Error(t, s.Start(context.Background()))
}
