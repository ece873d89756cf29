package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	"Hikari/pkg/kafka"
	applogger "Hikari/pkg/logger"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the wire format of published events.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

func (e Encoding) contentType() string {
	if e == EncodingMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

func (e Encoding) marshal(ev models.SyncEvent) ([]byte, error) {
	if e == EncodingMsgpack {
		return msgpack.Marshal(ev)
	}
	return json.Marshal(ev)
}

// KafkaPublisher writes sync events to a topic keyed by holding id, so every
// event about one holding lands on the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	encoding Encoding
	labels   map[string]string
	now      func() time.Time
	log      *applogger.Logger
}

var _ drepo.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher wraps producer. labels are attached to every event.
func NewKafkaPublisher(producer *kafka.Producer, encoding Encoding, labels map[string]string, l *applogger.Logger) *KafkaPublisher {
	if encoding != EncodingMsgpack {
		encoding = EncodingJSON
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &KafkaPublisher{
		producer: producer,
		encoding: encoding,
		labels:   labels,
		now:      time.Now,
		log:      l.Component("events"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev models.SyncEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = p.now().UTC()
	}
	if len(p.labels) > 0 && ev.Labels == nil {
		ev.Labels = p.labels
	}

	value, err := p.encoding.marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Kind, err)
	}

	key := string(ev.Kind)
	if ev.HoldingID != nil {
		key = strconv.FormatInt(*ev.HoldingID, 10)
	}

	err = p.producer.Publish(ctx, []byte(key), value, map[string]string{
		"content-type": p.encoding.contentType(),
		"event-kind":   string(ev.Kind),
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Kind, err)
	}
	p.log.Debug("event published", applogger.String("kind", string(ev.Kind)), applogger.String("id", ev.ID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

var _ drepo.EventPublisher = Noop{}

func (Noop) Publish(context.Context, models.SyncEvent) error { return nil }

func (Noop) Close() error { return nil }
