package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmitsCounters(t *testing.T) {
	sink, inmem := New("pagecache-test")
	require.NotNil(t, sink)
	require.NotNil(t, inmem)

	sink.IncrCounter([]string{"bufferpool", "hit"}, 1)
	sink.IncrCounter([]string{"bufferpool", "hit"}, 1)
	sink.SetGauge([]string{"bufferpool", "free_list_size"}, 7)

	time.Sleep(10 * time.Millisecond)

	data := inmem.Data()
	require.NotEmpty(t, data)

	found := false
	for _, interval := range data {
		interval.RLock()
		for name, counter := range interval.Counters {
			if name == "pagecache-test.bufferpool.hit" {
				found = true
				assert.Equal(t, 2, counter.Count)
			}
		}
		interval.RUnlock()
	}
	assert.True(t, found, "expected pagecache-test.bufferpool.hit counter to be recorded")
}

func TestNopDiscardsEverything(t *testing.T) {
	var s Sink = Nop{}
	s.IncrCounter([]string{"anything"}, 1)
	s.SetGauge([]string{"anything"}, 1)
}
