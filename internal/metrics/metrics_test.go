package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/0xcro3dile/versebot/internal/domain/ports"
)

var _ ports.Recorder = (*Recorder)(nil)

func TestRecorder_Counters(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ReplySelected("semantic")
	r.ReplySelected("semantic")
	r.ReplySelected("fallback")
	r.EmbeddingFailed("query")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.repliesTotal.WithLabelValues("semantic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.repliesTotal.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.embedFailures.WithLabelValues("query")))
}

func TestRecorder_Gauges(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.SessionsActive(4)
	r.SessionsActive(3)
	r.CorpusLoaded(12, false)
	r.CorpusLoaded(1, true)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.sessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.corpusVerses))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.corpusLoadsTotal.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.corpusLoadsTotal.WithLabelValues("false")))
}

func TestRecorder_WarmupHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.WarmupFinished("cached", 20*time.Millisecond)
	r.WarmupFinished("embedded", 2*time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(r.warmupSeconds.WithLabelValues("cached").(prometheus.Histogram)))
	n, err := testutil.GatherAndCount(reg, "versebot_embedding_warmup_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}
