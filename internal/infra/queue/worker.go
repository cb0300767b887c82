package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"go.uber.org/zap"
)

// EmailService envia o e-mail de boas-vindas ao cliente recém-migrado.
type EmailService interface {
	SendWelcome(to, name string) error
}

// MessageService envia a mensagem de boas-vindas no WhatsApp.
type MessageService interface {
	SendWelcome(ctx context.Context, phone, name string) error
}

// EventRecorder contabiliza os eventos processados.
type EventRecorder func(eventType string, ok bool)

type Worker struct {
	Channel  *amqp.Channel
	Email    EmailService
	WhatsApp MessageService
	Record   EventRecorder
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, email EmailService, whatsapp MessageService, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Email:    email,
		WhatsApp: whatsapp,
		Logger:   logger,
	}
}

// Start consome queueName até o ctx encerrar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("worker waiting for funnel events", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal do RabbitMQ fechado")
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				// Sem requeue: a mensagem vai para a DLQ
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Handle processa uma mensagem crua. Retorno nil significa que pode dar ACK.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var event entity.FunnelEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.Logger.Error("malformed funnel event", zap.Error(err))
		w.record("malformed", false)
		return err
	}

	log := w.Logger.With(zap.String("event_id", event.ID), zap.String("type", string(event.Type)))

	err := w.process(ctx, event)
	w.record(string(event.Type), err == nil)
	if err != nil {
		log.Error("funnel event failed", zap.Error(err))
		return err
	}

	log.Debug("funnel event processed")
	return nil
}

func (w *Worker) process(ctx context.Context, event entity.FunnelEvent) error {
	switch event.Type {
	case entity.EventClientMigrated:
		return w.welcome(ctx, event.Client)

	case entity.EventStageChanged:
		w.Logger.Info("stage changed",
			zap.String("entry_id", event.EntryID),
			zap.String("from", string(event.FromStage)),
			zap.String("to", string(event.ToStage)),
		)
		return nil

	case entity.EventLeadArchived:
		w.Logger.Info("lead archived",
			zap.String("lead_id", event.LeadID),
			zap.String("reason", event.Reason),
		)
		return nil

	default:
		// Tipo desconhecido: ACK para tirar da fila
		w.Logger.Warn("unknown funnel event type")
		return nil
	}
}

func (w *Worker) welcome(ctx context.Context, client *entity.Client) error {
	if client == nil {
		return errors.New("client_migrated event without client")
	}

	if w.Email != nil && client.Email != "" {
		if err := w.Email.SendWelcome(client.Email, client.Name); err != nil {
			return fmt.Errorf("welcome e-mail: %w", err)
		}
	}

	phone := client.Cellphone
	if phone == "" {
		phone = client.Phone
	}
	if w.WhatsApp != nil && phone != "" {
		// WhatsApp é best-effort: o e-mail já saiu, não reprocessar a mensagem por isso
		if err := w.WhatsApp.SendWelcome(ctx, phone, client.Name); err != nil {
			w.Logger.Warn("welcome whatsapp failed", zap.String("client_id", client.ID), zap.Error(err))
		}
	}

	return nil
}

func (w *Worker) record(eventType string, ok bool) {
	if w.Record != nil {
		w.Record(eventType, ok)
	}
}
