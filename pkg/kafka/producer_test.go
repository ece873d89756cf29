package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestNewProducerRequiresTopicAndBrokers(t *testing.T) {
	_, err := NewProducer(WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)

	_, err = NewProducer(WithTopic("hikari.sync"))
	assert.Error(t, err)
}

func TestProducerPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := &recordingWriter{}
	p, err := NewProducer(WithTopic("hikari.sync"), WithWriter(w), WithRegisterer(reg))
	require.NoError(t, err)

	err = p.Publish(context.Background(), []byte("7"), []byte(`{"kind":"x"}`), map[string]string{"content-type": "application/json"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("7"), w.msgs[0].Key)
	assert.Equal(t, "content-type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.messages.WithLabelValues("hikari.sync", "snappy", "ok")))

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), nil, []byte("{}"), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.messages.WithLabelValues("hikari.sync", "snappy", "error")))
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Compression(0), parseCompression("none"))
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression(""))
}
