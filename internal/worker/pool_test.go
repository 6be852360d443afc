package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := New(2, testLogger)

	var running, peak int32
	job := func(ctx context.Context) (*types.RunSummary, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return &types.RunSummary{}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pool.Do(context.Background(), "job", job); err != nil {
				t.Errorf("do: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestPoolPropagatesResult(t *testing.T) {
	pool := New(1, testLogger)

	want := &types.RunSummary{Processed: 3}
	got, err := pool.Do(context.Background(), "job", func(ctx context.Context) (*types.RunSummary, error) {
		return want, nil
	})
	if err != nil || got != want {
		t.Errorf("result = %v, %v", got, err)
	}

	wantErr := errors.New("boom")
	_, err = pool.Do(context.Background(), "job", func(ctx context.Context) (*types.RunSummary, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestPoolRespectsCallerContext(t *testing.T) {
	pool := New(1, testLogger)

	release := make(chan struct{})
	go pool.Do(context.Background(), "blocker", func(ctx context.Context) (*types.RunSummary, error) {
		<-release
		return nil, nil
	})

	// Give the blocker time to claim the only slot.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := pool.Do(ctx, "waiter", func(ctx context.Context) (*types.RunSummary, error) {
		t.Error("waiter should never start")
		return nil, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("waiter = %v, want deadline exceeded", err)
	}

	close(release)
	pool.Wait()
}
