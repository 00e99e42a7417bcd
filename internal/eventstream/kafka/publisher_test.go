package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/eventstream"
	"udyami/internal/eventstream/kafka"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishDocumentSaved(t *testing.T) {
	w := &fakeWriter{}
	p := kafka.NewPublisherWithWriter(w)

	status := "HIGH"
	doc := &domain.Document{ID: uuid.New(), Kind: domain.KindQuotation, Source: domain.SourceChat, Status: &status}
	ev := eventstream.NewDocumentSavedEvent(doc, time.Unix(1767225600, 0))

	require.NoError(t, p.PublishDocumentSaved(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, doc.ID.String(), string(msg.Key))
	assert.Equal(t, eventstream.EventTypeDocumentSaved, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, float64(eventstream.SchemaVersionV1), decoded["schema_version"])
	document := decoded["document"].(map[string]interface{})
	assert.Equal(t, "quotation", document["type"])
	assert.Equal(t, "HIGH", document["status"])
	assert.NotContains(t, document, "total")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishDocumentSaved_Errors(t *testing.T) {
	boom := errors.New("leader not available")
	p := kafka.NewPublisherWithWriter(&fakeWriter{err: boom})

	assert.ErrorIs(t, p.PublishDocumentSaved(context.Background(), nil), eventstream.ErrNilEvent)
	assert.ErrorIs(t, p.PublishDocumentSaved(context.Background(), &eventstream.DocumentSavedEvent{}), boom)
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := kafka.NewPublisher(nil, "topic")
	assert.Error(t, err)
	_, err = kafka.NewPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := kafka.NewPublisher([]string{"localhost:9092"}, "udyami.documents")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
