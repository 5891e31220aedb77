package tasks

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunner_RunsAndLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewRunner(log, time.Second)

	var ran atomic.Int32
	r.Go("ok", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	r.Go("broken", func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("disk gone")
	})
	r.Go("panics", func(ctx context.Context) error {
		ran.Add(1)
		panic("boom")
	})
	r.Wait()

	assert.Equal(t, int32(3), ran.Load())
	assert.Contains(t, buf.String(), "task=broken")
	assert.Contains(t, buf.String(), "disk gone")
	assert.Contains(t, buf.String(), "task panicked")
}

func TestRunner_ContextHasDeadline(t *testing.T) {
	r := NewRunner(nil, 50*time.Millisecond)

	var hasDeadline atomic.Bool
	r.Go("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hasDeadline.Store(ok)
		return nil
	})
	r.Wait()

	assert.True(t, hasDeadline.Load())
}
