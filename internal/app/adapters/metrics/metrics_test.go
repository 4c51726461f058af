package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueMetric(t *testing.T, name, queue string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "queue" || lp.GetValue() != queue {
					continue
				}
				if m.GetGauge() != nil {
					return m.GetGauge().GetValue()
				}
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s{queue=%q} not found", name, queue)
	return 0
}

func TestRegisterQueue_LatestQueueWins(t *testing.T) {
	RegisterQueue("test_reregister", func() int { return 1 }, func() uint64 { return 10 })
	assert.Equal(t, 1.0, queueMetric(t, "bot_queue_depth", "test_reregister"))
	assert.Equal(t, 10.0, queueMetric(t, "bot_queue_dropped_total", "test_reregister"))

	RegisterQueue("test_reregister", func() int { return 7 }, func() uint64 { return 3 })
	assert.Equal(t, 7.0, queueMetric(t, "bot_queue_depth", "test_reregister"))
	assert.Equal(t, 3.0, queueMetric(t, "bot_queue_dropped_total", "test_reregister"))
}

func TestRegisterQueue_NamesAreIndependent(t *testing.T) {
	RegisterQueue("test_a", func() int { return 2 }, func() uint64 { return 0 })
	RegisterQueue("test_b", func() int { return 5 }, func() uint64 { return 0 })

	assert.Equal(t, 2.0, queueMetric(t, "bot_queue_depth", "test_a"))
	assert.Equal(t, 5.0, queueMetric(t, "bot_queue_depth", "test_b"))
}
