package stats

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/readora/market-service/pkg/kafka"
)

type Consumer struct {
	collector *Collector
	log       *zap.Logger
}

func NewConsumer(collector *Collector, log *zap.Logger) *Consumer {
	return &Consumer{
		collector: collector,
		log:       log.Named("consumer"),
	}
}

// Setup runs at the start of every session. The same handler is reused
// across rebalances, so it must stay safe to call repeatedly.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handle(message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handle(message *sarama.ConsumerMessage) {
	switch message.Topic {
	case kafka.OrdersTopic:
		var ev kafka.OrderEvent
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			consumer.log.Error("order event decode", zap.Error(err))
			return
		}
		consumer.collector.RecordOrder(ev)
	case kafka.ReviewsTopic:
		var ev kafka.ReviewEvent
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			consumer.log.Error("review event decode", zap.Error(err))
			return
		}
		consumer.collector.RecordReview(ev)
	default:
		consumer.log.Warn("unexpected topic", zap.String("topic", message.Topic))
	}
	consumer.log.Debug("Message claimed:",
		zap.String("value", string(message.Value)),
		zap.String("topic", message.Topic))
}
