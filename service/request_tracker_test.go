package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/loanerrors"
)

func TestRequestTracker_LatestWins(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	first := tr.Begin("s1")
	second := tr.Begin("s1")
	require.Greater(t, second, first)

	published := 0
	err := tr.Commit("s1", first, func() error { published++; return nil })
	var stale *loanerrors.StaleResultError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, first, stale.Sequence)
	assert.Equal(t, second, stale.Latest)
	assert.Equal(t, 0, published)

	require.NoError(t, tr.Commit("s1", second, func() error { published++; return nil }))
	assert.Equal(t, 1, published)
}

func TestRequestTracker_SessionsAreIndependent(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	a := tr.Begin("a")
	b := tr.Begin("b")

	assert.NoError(t, tr.Commit("a", a, func() error { return nil }))
	assert.NoError(t, tr.Commit("b", b, func() error { return nil }))
	assert.Equal(t, a, tr.Latest("a"))
	assert.Equal(t, uint64(0), tr.Latest("unknown"))
}

func TestRequestTracker_PublishErrorIsReturned(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	seq := tr.Begin("s1")
	boom := errors.New("boom")

	assert.ErrorIs(t, tr.Commit("s1", seq, func() error { return boom }), boom)
}

func TestRequestTracker_UnknownSessionIsStale(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	err := tr.Commit("ghost", 7, func() error { return nil })

	assert.ErrorIs(t, err, loanerrors.ErrStaleResult)
}

func TestRequestTracker_ConcurrentBeginsKeepOneWinner(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	const n = 20
	seqs := make([]uint64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seqs[i] = tr.Begin("s1")
		}()
	}
	wg.Wait()

	winners := 0
	for _, seq := range seqs {
		if tr.Commit("s1", seq, func() error { return nil }) == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestRequestTracker_CleanupDropsIdleSessions(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	tr.Begin("old")
	now = now.Add(trackerIdleThreshold + time.Minute)
	tr.Begin("fresh")
	tr.cleanup()

	assert.Equal(t, uint64(0), tr.Latest("old"))
	assert.NotZero(t, tr.Latest("fresh"))
}

func TestRequestTracker_SlowPublishDoesNotBlockOtherSessions(t *testing.T) {
	tr := NewRequestTracker()
	defer tr.Stop()

	seqA := tr.Begin("a")
	publishing := make(chan struct{})
	release := make(chan struct{})
	committed := make(chan error, 1)
	go func() {
		committed <- tr.Commit("a", seqA, func() error {
			close(publishing)
			<-release
			return nil
		})
	}()
	<-publishing

	done := make(chan struct{})
	go func() {
		defer close(done)
		seqB := tr.Begin("b")
		assert.NoError(t, tr.Commit("b", seqB, func() error { return nil }))
		assert.Equal(t, seqB, tr.Latest("b"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session b waited on the publish of session a")
	}

	close(release)
	require.NoError(t, <-committed)
}
