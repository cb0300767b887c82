package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendWelcome(to, name string) error {
	return m.Called(to, name).Error(0)
}

type MockWhatsApp struct {
	mock.Mock
}

func (m *MockWhatsApp) SendWelcome(ctx context.Context, phone, name string) error {
	return m.Called(phone, name).Error(0)
}

func migratedEvent() entity.FunnelEvent {
	return entity.FunnelEvent{
		ID:      "ev-1",
		Type:    entity.EventClientMigrated,
		EntryID: "e1",
		LeadID:  "l1",
		Client: &entity.Client{
			ID:        "c1",
			Name:      "Maria Souza",
			Email:     "maria@example.com",
			Cellphone: "11987654321",
		},
		OccurredAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestProducerPublish(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", ExchangeName, "funnel.client_migrated", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var ev entity.FunnelEvent
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			return false
		}
		return msg.MessageId == "ev-1" && msg.DeliveryMode == amqp.Persistent && ev.Client.ID == "c1"
	})).Return(nil)

	err := NewProducer(ch).Publish(context.Background(), migratedEvent())

	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestProducerPublishError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)

	err := NewProducer(ch).Publish(context.Background(), migratedEvent())

	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorkerHandle(t *testing.T) {
	body, _ := json.Marshal(migratedEvent())

	t.Run("client migrated sends email and whatsapp", func(t *testing.T) {
		email := new(MockEmail)
		wa := new(MockWhatsApp)
		email.On("SendWelcome", "maria@example.com", "Maria Souza").Return(nil)
		wa.On("SendWelcome", "11987654321", "Maria Souza").Return(nil)

		var recorded []string
		w := NewWorker(nil, email, wa, nil)
		w.Record = func(eventType string, ok bool) {
			if ok {
				recorded = append(recorded, eventType)
			}
		}

		require.NoError(t, w.Handle(context.Background(), body))
		email.AssertExpectations(t)
		wa.AssertExpectations(t)
		assert.Equal(t, []string{"funnel.client_migrated"}, recorded)
	})

	t.Run("email failure rejects message", func(t *testing.T) {
		email := new(MockEmail)
		wa := new(MockWhatsApp)
		email.On("SendWelcome", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := NewWorker(nil, email, wa, nil).Handle(context.Background(), body)

		assert.Error(t, err)
		wa.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything)
	})

	t.Run("whatsapp failure is tolerated", func(t *testing.T) {
		email := new(MockEmail)
		wa := new(MockWhatsApp)
		email.On("SendWelcome", mock.Anything, mock.Anything).Return(nil)
		wa.On("SendWelcome", mock.Anything, mock.Anything).Return(errors.New("meta 500"))

		assert.NoError(t, NewWorker(nil, email, wa, nil).Handle(context.Background(), body))
	})

	t.Run("malformed body", func(t *testing.T) {
		email := new(MockEmail)
		err := NewWorker(nil, email, nil, nil).Handle(context.Background(), []byte("{not json"))

		assert.Error(t, err)
		email.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything)
	})

	t.Run("migrated without client", func(t *testing.T) {
		ev := migratedEvent()
		ev.Client = nil
		raw, _ := json.Marshal(ev)

		assert.Error(t, NewWorker(nil, nil, nil, nil).Handle(context.Background(), raw))
	})

	t.Run("stage change is acked without side effects", func(t *testing.T) {
		email := new(MockEmail)
		raw, _ := json.Marshal(entity.FunnelEvent{
			ID:        "ev-2",
			Type:      entity.EventStageChanged,
			EntryID:   "e1",
			FromStage: entity.StageTop,
			ToStage:   entity.StageMiddle,
		})

		assert.NoError(t, NewWorker(nil, email, nil, nil).Handle(context.Background(), raw))
		email.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything)
	})
}
