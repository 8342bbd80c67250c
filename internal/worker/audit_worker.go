package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/infrastructure/client"
	"github.com/St1cky1/team-dashboard/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// errMalformed - сообщение нельзя обработать никогда, в очередь не возвращаем
var errMalformed = errors.New("malformed audit message")

type AuditWorker struct {
	url       string
	auditRepo repository.ITaskAuditRepository
	logger    *zap.Logger
}

func NewAuditWorker(url string, auditRepo repository.ITaskAuditRepository, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{
		url:       url,
		auditRepo: auditRepo,
		logger:    logger.Named("audit_worker"),
	}
}

// Start блокируется до отмены ctx или закрытия канала доставки
func (w *AuditWorker) Start(ctx context.Context) error {
	// Отдельное соединение для consumer'а
	conn, err := amqp.Dial(w.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if err := client.DeclareAuditQueue(channel); err != nil {
		return err
	}

	msgs, err := channel.Consume(
		client.AuditQueue, // queue
		"audit_worker",    // consumer tag
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", client.AuditQueue, err)
	}

	w.logger.Info("audit worker started", zap.String("queue", client.AuditQueue))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("audit worker stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn("delivery channel closed")
				return nil
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	err := w.handle(ctx, msg.Body)
	switch {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, errMalformed):
		w.logger.Error("dropping audit message", zap.Error(err), zap.ByteString("body", msg.Body))
		msg.Nack(false, false)
	default:
		w.logger.Warn("audit message requeued", zap.Error(err))
		msg.Nack(false, true)
	}
}

func (w *AuditWorker) handle(ctx context.Context, body []byte) error {
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(body, &auditMsg); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if auditMsg.EntityID == "" || auditMsg.Action == "" {
		return fmt.Errorf("%w: action and entity_id are required", errMalformed)
	}

	entry, err := ConvertToAuditEntry(&auditMsg)
	if err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	if err := w.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("save audit entry: %w", err)
	}

	w.logger.Debug("audit entry saved",
		zap.String("action", string(entry.Action)),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
	)
	return nil
}

func marshalOptional(values map[string]any) (*string, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// ConvertToAuditEntry - map-значения сообщения сохраняются JSON-строками
func ConvertToAuditEntry(msg *entity.AuditMessage) (*entity.AuditEntry, error) {
	oldValues, err := marshalOptional(msg.OldValues)
	if err != nil {
		return nil, err
	}
	newValues, err := marshalOptional(msg.NewValues)
	if err != nil {
		return nil, err
	}
	changes, err := marshalOptional(msg.Changes)
	if err != nil {
		return nil, err
	}

	entityType := msg.EntityType
	if entityType == "" {
		entityType = entity.EntityTask
	}
	changedAt := msg.Timestamp
	if changedAt.IsZero() {
		changedAt = time.Now()
	}

	return &entity.AuditEntry{
		Action:     msg.Action,
		EntityType: entityType,
		EntityID:   msg.EntityID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Changes:    changes,
		ChangedAt:  changedAt,
	}, nil
}
