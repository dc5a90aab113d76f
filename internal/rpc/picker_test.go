package rpc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probed(url string, latency time.Duration, block uint64) Endpoint {
	return Endpoint{URL: url, Latency: latency, BlockNumber: block, Probed: true}
}

func down(url string) Endpoint {
	return Endpoint{URL: url, Probed: true, Err: errors.New("connection refused")}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"":            AlgorithmFastest,
		"fastest":     AlgorithmFastest,
		"round-robin": AlgorithmRoundRobin,
		"failover":    AlgorithmFailover,
	} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAlgorithm("random")
	assert.Error(t, err)
}

func TestPickerFastest(t *testing.T) {
	endpoints := []Endpoint{
		probed("http://slow.rpc", 200*time.Millisecond, 100),
		probed("http://fast.rpc", 30*time.Millisecond, 100),
		probed("http://medium.rpc", 80*time.Millisecond, 100),
	}
	winner, err := NewPicker(AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestPickerFastestSkipsStaleAndDown(t *testing.T) {
	endpoints := []Endpoint{
		probed("http://fresh.rpc", 50*time.Millisecond, 1000),
		probed("http://stale.rpc", 10*time.Millisecond, 990),
		down("http://dead.rpc"),
	}
	winner, err := NewPicker(AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL)
}

func TestPickerFastestWithinThreshold(t *testing.T) {
	endpoints := []Endpoint{
		probed("http://head.rpc", 100*time.Millisecond, 1000),
		probed("http://behind.rpc", 10*time.Millisecond, 997),
	}
	winner, err := NewPicker(AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://behind.rpc", winner.URL, "3 blocks behind is still eligible")
}

func TestPickerFastestCachesWinner(t *testing.T) {
	now := time.Now()
	p := NewPicker(AlgorithmFastest)
	p.now = func() time.Time { return now }

	first, err := p.Pick([]Endpoint{
		probed("http://a.rpc", 10*time.Millisecond, 100),
		probed("http://b.rpc", 50*time.Millisecond, 100),
	})
	require.NoError(t, err)
	require.Equal(t, "http://a.rpc", first.URL)

	// b is now faster, but a is still cached.
	again := []Endpoint{
		probed("http://a.rpc", 90*time.Millisecond, 100),
		probed("http://b.rpc", 5*time.Millisecond, 100),
	}
	cached, err := p.Pick(again)
	require.NoError(t, err)
	assert.Equal(t, "http://a.rpc", cached.URL)

	now = now.Add(cacheTTL + time.Second)
	fresh, err := p.Pick(again)
	require.NoError(t, err)
	assert.Equal(t, "http://b.rpc", fresh.URL)
}

func TestPickerFastestIgnoresCachedWhenDown(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	_, err := p.Pick([]Endpoint{probed("http://a.rpc", time.Millisecond, 1), probed("http://b.rpc", time.Second, 1)})
	require.NoError(t, err)

	winner, err := p.Pick([]Endpoint{down("http://a.rpc"), probed("http://b.rpc", time.Second, 1)})
	require.NoError(t, err)
	assert.Equal(t, "http://b.rpc", winner.URL)
}

func TestPickerRoundRobin(t *testing.T) {
	endpoints := []Endpoint{
		probed("http://a.rpc", 0, 0),
		down("http://x.rpc"),
		probed("http://b.rpc", 0, 0),
	}
	p := NewPicker(AlgorithmRoundRobin)

	var got []string
	for range 4 {
		e, err := p.Pick(endpoints)
		require.NoError(t, err)
		got = append(got, e.URL)
	}
	assert.Equal(t, []string{"http://a.rpc", "http://b.rpc", "http://a.rpc", "http://b.rpc"}, got)
}

func TestPickerFailover(t *testing.T) {
	p := NewPicker(AlgorithmFailover)

	e, err := p.Pick([]Endpoint{down("http://primary.rpc"), {URL: "http://backup.rpc"}})
	require.NoError(t, err)
	assert.Equal(t, "http://backup.rpc", e.URL)

	e, err = p.Pick([]Endpoint{{URL: "http://primary.rpc"}, {URL: "http://backup.rpc"}})
	require.NoError(t, err)
	assert.Equal(t, "http://primary.rpc", e.URL)
}

func TestPickerNoneUsable(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover} {
		p := NewPicker(algo)
		_, err := p.Pick(nil)
		assert.ErrorIs(t, err, ErrNoHealthyRPC, algo)
		_, err = p.Pick([]Endpoint{down("http://a.rpc")})
		assert.ErrorIs(t, err, ErrNoHealthyRPC, algo)
	}
}
