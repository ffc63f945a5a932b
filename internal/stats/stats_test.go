package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/stats"
	"github.com/readora/market-service/pkg/kafka"
)

func TestCollector(t *testing.T) {
	t.Parallel()
	c := stats.NewCollector()

	c.RecordOrder(kafka.OrderEvent{OrderID: 1, PurchaseType: "buy", Amount: 19.99})
	c.RecordOrder(kafka.OrderEvent{OrderID: 2, PurchaseType: "rent", Amount: 3.5})
	c.RecordOrder(kafka.OrderEvent{OrderID: 3, PurchaseType: "buy", Amount: 10})
	c.RecordReview(kafka.ReviewEvent{ReviewID: 1, Rating: 5})
	c.RecordReview(kafka.ReviewEvent{ReviewID: 2, Rating: 4})

	s := c.Snapshot()
	require.Equal(t, 3, s.Orders)
	require.InDelta(t, 33.49, s.Revenue, 1e-9)
	require.Equal(t, map[string]int{"buy": 2, "rent": 1}, s.ByType)
	require.Equal(t, 2, s.Reviews)
	require.Equal(t, 9, s.RatingsTotal)

	// Snapshot copies the map, mutations do not leak back.
	s.ByType["buy"] = 99
	require.Equal(t, 2, c.Snapshot().ByType["buy"])
}

// The group rejoin loop reuses one handler across rebalances, so Setup and
// Cleanup run once per session on the same Consumer.
func TestConsumer_SetupAcrossSessions(t *testing.T) {
	t.Parallel()
	consumer := stats.NewConsumer(stats.NewCollector(), zap.NewExample().Named("test"))

	for i := 0; i < 3; i++ {
		require.NoError(t, consumer.Setup(nil))
		require.NoError(t, consumer.Cleanup(nil))
	}
}
