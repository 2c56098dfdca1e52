package kafka

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeEvents decodes each message into an Event. Undecodable messages
// are logged and skipped so one bad payload does not stall the group.
func (c *Consumer) ConsumeEvents(ctx context.Context, handler func(context.Context, Event) error) error {
	err := c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		event, err := DecodeEvent(msg)
		if err != nil {
			log.Printf("skip message: %v", err)
			return nil
		}
		return handler(ctx, event)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
