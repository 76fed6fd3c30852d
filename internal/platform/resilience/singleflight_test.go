package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight[[]byte]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("fixtures?date=2026-01-15", func() ([]byte, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte(`{"response":[]}`), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if string(got) != `{"response":[]}` {
				t.Errorf("unexpected payload %q", got)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if g.InFlight() != 0 {
		t.Fatalf("expected no calls in flight after completion, got %d", g.InFlight())
	}
}

func TestSingleFlight_Do_PropagatesErrorAndForgetsKey(t *testing.T) {
	var g SingleFlight[int]
	boom := errors.New("boom")

	if _, err, shared := g.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) || shared {
		t.Fatalf("expected unshared boom error, got err=%v shared=%v", err, shared)
	}

	got, err, _ := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("expected fresh execution after failure, got=%d err=%v", got, err)
	}
}

func TestSingleFlight_DoChan_CompletesWithoutWaiter(t *testing.T) {
	var g SingleFlight[string]
	release := make(chan struct{})
	var runs int32

	first := g.DoChan("team?id=290", func() (string, error) {
		atomic.AddInt32(&runs, 1)
		<-release
		return "frontale", nil
	})
	for g.InFlight() == 0 {
		time.Sleep(time.Millisecond)
	}
	close(release)

	for g.InFlight() != 0 {
		time.Sleep(time.Millisecond)
	}
	// Nobody was reading; the buffered result is still there.
	select {
	case res := <-first:
		if res.Val != "frontale" || res.Err != nil || res.Shared {
			t.Fatalf("unexpected result: val=%q err=%v shared=%v", res.Val, res.Err, res.Shared)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for result")
	}
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("unexpected run count: got=%d want=1", got)
	}
}
