package parallel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestPoolRunsEveryJob(t *testing.T) {
	p := New(3)
	var n int64
	for i := 0; i < 50; i++ {
		p.Add(func(ctx context.Context) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatal(err)
	}
	if n != 50 {
		t.Errorf("ran %d jobs", n)
	}
}

func TestPoolFirstErrorCancels(t *testing.T) {
	p := New(1)
	boom := errors.New("boom")
	p.Add(func(ctx context.Context) error { return boom })
	var sawCancel int64
	p.Add(func(ctx context.Context) error {
		if ctx.Err() != nil {
			atomic.AddInt64(&sawCancel, 1)
		}
		return ctx.Err()
	})
	if err := p.Wait(); err != boom {
		t.Fatalf("err = %v", err)
	}
	if sawCancel != 1 {
		t.Error("later job did not see the cancellation")
	}
}

func TestPoolStop(t *testing.T) {
	p := New(2)
	p.Stop()
	p.Add(func(ctx context.Context) error { return ctx.Err() })
	if err := p.Wait(); errors.Cause(err) != context.Canceled {
		t.Fatalf("err = %v", err)
	}
}

func TestPoolStopReleasesIdleWorkers(t *testing.T) {
	p := New(4)
	for i := 0; i < 8; i++ {
		p.Add(func(ctx context.Context) error { return nil })
	}
	if err := p.Wait(); err != nil {
		t.Fatal(err)
	}
	p.Stop()

	workers := func() int {
		pp := p.(*pool)
		pp.workersLock.Lock()
		defer pp.workersLock.Unlock()
		return pp.workers
	}
	deadline := time.Now().Add(idleTimeout / 5)
	for workers() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d workers still idle after Stop", workers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
