package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

const (
	OrdersTopic  = "market.orders"
	ReviewsTopic = "market.reviews"

	StatsConsumerGroup = "market-stats"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

// OrderEvent is published once per order created by checkout.
type OrderEvent struct {
	EventID      string    `json:"eventId"`
	OrderID      int       `json:"orderId"`
	UserID       int       `json:"userId"`
	BookID       int       `json:"bookId"`
	PurchaseType string    `json:"purchaseType"`
	Amount       float64   `json:"amount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewEvent is published once per submitted review.
type ReviewEvent struct {
	EventID   string    `json:"eventId"`
	ReviewID  int       `json:"reviewId"`
	BookID    int       `json:"bookId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume blocks, rejoining the group after each rebalance until ctx is done.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) error {
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
