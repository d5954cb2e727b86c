package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	messages []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	producer := &Producer{writer: writer, logger: discard}

	event := ActivityEvent{ID: "e1", Type: EventBookingConfirmed, User: "Asha", PNR: "ABC123", OccurredAt: time.Unix(0, 0).UTC()}
	require.NoError(t, producer.Publish(context.Background(), "flightbook.activity", "Asha", event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "flightbook.activity", msg.Topic)
	assert.Equal(t, []byte("Asha"), msg.Key)

	var decoded ActivityEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestProducer_PublishError(t *testing.T) {
	producer := &Producer{writer: &fakeWriter{err: errors.New("broker down")}, logger: discard}

	err := producer.Publish(context.Background(), "t", "k", ActivityEvent{})
	assert.ErrorContains(t, err, "broker down")
}

func TestConsumer_Consume(t *testing.T) {
	good, err := json.Marshal(ActivityEvent{ID: "e1", Type: EventTicketDownloaded, PNR: "ABC123"})
	require.NoError(t, err)

	consumer := &Consumer{
		reader: &fakeReader{messages: []kafka.Message{
			{Value: []byte("{garbage")},
			{Value: good},
		}},
		logger: discard,
	}

	var received []ActivityEvent
	err = consumer.Consume(context.Background(), func(_ context.Context, event ActivityEvent) error {
		received = append(received, event)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, received, 1)
	assert.Equal(t, "ABC123", received[0].PNR)
}

func TestConsumer_HandlerError(t *testing.T) {
	good, err := json.Marshal(ActivityEvent{ID: "e1"})
	require.NoError(t, err)

	consumer := &Consumer{reader: &fakeReader{messages: []kafka.Message{{Value: good}, {Value: good}}}, logger: discard}
	calls := 0
	stop := errors.New("stop")
	err = consumer.Consume(context.Background(), func(context.Context, ActivityEvent) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestConsumer_CloseNil(t *testing.T) {
	var consumer *Consumer
	assert.NoError(t, consumer.Close())
}
