package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.RecordSuccess("buy_item")
	r.RecordSuccess("buy_item")
	r.RecordRejected("buy_item", "insufficient_funds")
	r.RecordFailure("chat")
	r.RecordSaveFailure()

	require.Equal(t, 2.0, testutil.ToFloat64(r.commands.WithLabelValues("buy_item", outcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("buy_item", outcomeRejected)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("insufficient_funds")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("chat", outcomeFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.saveFailures))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}
