package throttle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"everywhere/internal/config"
	"everywhere/internal/domain"
)

func added(id string) domain.ResultEvent {
	return domain.ResultAdded{Item: &domain.ResultItem{UUID: id}}
}

func ids(events []domain.ResultEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		switch e := e.(type) {
		case domain.ResultAdded:
			out[i] = e.Item.UUID
		case domain.ResultEnd:
			out[i] = "end:" + e.ProviderID
		}
	}
	return out
}

func collect(t *testing.T, out <-chan domain.ThrottledBatch) []domain.ThrottledBatch {
	t.Helper()
	var batches []domain.ThrottledBatch
	timeout := time.After(5 * time.Second)
	for {
		select {
		case b, ok := <-out:
			if !ok {
				return batches
			}
			batches = append(batches, b)
		case <-timeout:
			t.Fatal("throttler did not close its output")
			return nil
		}
	}
}

func start(cfg config.ThrottleConfig, ctx context.Context) (chan domain.ResultEvent, chan domain.ThrottledBatch) {
	in := make(chan domain.ResultEvent, 100)
	out := make(chan domain.ThrottledBatch)
	go New(cfg).Run(ctx, in, out)
	return in, out
}

func TestCloseDuringWindowFlushesOneAccumulatedBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := start(config.ThrottleConfig{InitialWindowMS: 60000, IntervalMS: 10}, context.Background())
	in <- added("a")
	in <- added("b")
	in <- domain.ResultEnd{ProviderID: "files"}
	close(in)

	batches := collect(t, out)
	require.Len(t, batches, 1)
	require.IsType(t, domain.AccumulatedBatch{}, batches[0])
	assert.Equal(t, []string{"a", "b", "end:files"}, ids(batches[0].Events()))
}

func TestSingleEventDuringWindowStillAccumulated(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := start(config.ThrottleConfig{InitialWindowMS: 60000, IntervalMS: 10}, context.Background())
	in <- added("a")
	close(in)

	batches := collect(t, out)
	require.Len(t, batches, 1)
	assert.IsType(t, domain.AccumulatedBatch{}, batches[0])
}

func TestWindowEndFlushesAccumulated(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := start(config.ThrottleConfig{InitialWindowMS: 20, IntervalMS: 10}, context.Background())
	in <- added("a")
	in <- added("b")

	select {
	case b := <-out:
		require.IsType(t, domain.AccumulatedBatch{}, b)
		assert.Equal(t, []string{"a", "b"}, ids(b.Events()))
	case <-time.After(5 * time.Second):
		t.Fatal("initial window was not flushed")
	}

	close(in)
	assert.Empty(t, collect(t, out))
}

func TestPassthroughAfterWindow(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := start(config.ThrottleConfig{IntervalMS: 10}, context.Background())
	for _, id := range []string{"a", "b", "c"} {
		in <- added(id)
		select {
		case b := <-out:
			require.IsType(t, domain.SingleEvent{}, b)
			assert.Equal(t, []string{id}, ids(b.Events()))
		case <-time.After(5 * time.Second):
			t.Fatal("event was not passed through")
		}
	}
	close(in)
	assert.Empty(t, collect(t, out))
}

func TestRateLimitedEventsAreHeld(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.ThrottleConfig{IntervalMS: 3600000, RatePerSecond: 0.001, Burst: 1}
	in, out := start(cfg, context.Background())

	in <- added("a")
	select {
	case b := <-out:
		require.IsType(t, domain.SingleEvent{}, b)
	case <-time.After(5 * time.Second):
		t.Fatal("first event should use the burst")
	}

	in <- added("b")
	in <- added("c")
	close(in)

	batches := collect(t, out)
	require.Len(t, batches, 1)
	require.IsType(t, domain.AccumulatedBatch{}, batches[0])
	assert.Equal(t, []string{"b", "c"}, ids(batches[0].Events()))
}

func TestHeldSingleEventFlushedOnTick(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.ThrottleConfig{IntervalMS: 10, RatePerSecond: 0.001, Burst: 1}
	in, out := start(cfg, context.Background())

	in <- added("a")
	in <- added("b")

	var got []domain.ThrottledBatch
	for len(got) < 2 {
		select {
		case b := <-out:
			got = append(got, b)
		case <-time.After(5 * time.Second):
			t.Fatal("held event was not flushed")
		}
	}
	assert.IsType(t, domain.SingleEvent{}, got[1])
	assert.Equal(t, []string{"b"}, ids(got[1].Events()))

	close(in)
	collect(t, out)
}

func TestOrderPreserved(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.ThrottleConfig{InitialWindowMS: 5, IntervalMS: 2, RatePerSecond: 200, Burst: 3}
	in, out := start(cfg, context.Background())

	var want []string
	go func() {
		for i := 0; i < 200; i++ {
			id := fmt.Sprint(i)
			in <- added(id)
			if i%17 == 0 {
				time.Sleep(time.Millisecond)
			}
		}
		close(in)
	}()
	for i := 0; i < 200; i++ {
		want = append(want, fmt.Sprint(i))
	}

	var got []string
	for _, b := range collect(t, out) {
		got = append(got, ids(b.Events())...)
	}
	assert.Equal(t, want, got)
}

func TestCancelStopsWithoutFlush(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	in, out := start(config.ThrottleConfig{InitialWindowMS: 60000, IntervalMS: 10}, ctx)
	in <- added("a")
	cancel()

	assert.Empty(t, collect(t, out))
}
