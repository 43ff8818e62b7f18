package notifier

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type ConsumerHandler interface {
	HandleMessage(raw string) error
}

// Consumer membaca event notifikasi dan meneruskannya ke handler (mailer).
// Dijalankan sebagai goroutine terpisah dari request path.
type Consumer struct {
	Reader      *kafka.Reader
	Handler     ConsumerHandler
	ServiceName string
}

func NewConsumer(broker, topic, groupID, username, password string, handler ConsumerHandler) *Consumer {
	if broker == "" || topic == "" {
		return nil
	}

	cfg := kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	}

	if username != "" {
		cfg.Dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			TLS:           &tls.Config{},
			SASLMechanism: plain.Mechanism{Username: username, Password: password},
		}
	}

	return &Consumer{
		Reader:      kafka.NewReader(cfg),
		Handler:     handler,
		ServiceName: "Mail Consumer",
	}
}

func (kc *Consumer) Listen() {
	if kc == nil {
		return
	}
	for {
		msg, err := kc.Reader.ReadMessage(context.Background())
		if err != nil {
			log.Printf("[%s] read error: %v", kc.ServiceName, err)
			continue
		}

		if err := kc.Handler.HandleMessage(string(msg.Value)); err != nil {
			log.Printf("[%s] handler error: %v", kc.ServiceName, err)
		}
	}
}
