package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"go.uber.org/zap"
)

// AuditPublisher - очередь аудита (RabbitMQ или заглушка)
type AuditPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

// auditSender публикует сообщения асинхронно, Wait дожидается отправки
type auditSender struct {
	publisher AuditPublisher
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func (a *auditSender) send(msg *entity.AuditMessage) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.publisher.PublishAuditMessage(ctx, msg); err != nil {
			a.logger.Warn("failed to publish audit message",
				zap.Error(err),
				zap.String("action", string(msg.Action)),
				zap.String("entity_type", msg.EntityType),
				zap.String("entity_id", msg.EntityID),
			)
		}
	}()
}

func (a *auditSender) Wait() {
	a.wg.Wait()
}

// diffValues - поля, которые отличаются, в виде {"old": ..., "new": ...}
func diffValues(oldValues, newValues map[string]any) map[string]any {
	changes := make(map[string]any)
	for key, newValue := range newValues {
		if oldValue := oldValues[key]; oldValue != newValue {
			changes[key] = map[string]any{"old": oldValue, "new": newValue}
		}
	}
	return changes
}
