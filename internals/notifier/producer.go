package notifier

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Producer mempublish event notifikasi ke Kafka. Seluruh jalur ini best-effort:
// kegagalan dicatat lalu ditelan, tidak pernah menggagalkan mutasi utama.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic, username, password string) *Producer {
	if broker == "" || topic == "" {
		log.Println("⚠️ KAFKA_BROKER/KAFKA_TOPIC kosong — notifikasi email dimatikan")
		return nil
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}

	if username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{},
		}
	}

	return &Producer{writer: w}
}

// Publish mengirim satu event. Aman dipanggil pada producer nil.
func (p *Producer) Publish(evt Event) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := evt.Marshal()
	if err != nil {
		log.Printf("[WARN] notifier: gagal marshal event %s: %v", evt.Type, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Email),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		// sengaja ditelan — notifikasi tidak boleh menggagalkan aksi utama
		log.Printf("[WARN] notifier: publish %s gagal: %v", evt.Type, err)
	}
}
