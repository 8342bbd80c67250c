package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/St1cky1/team-dashboard/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const AuditQueue = "task_audit_logs"

type RabbitMQClient struct {
	url     string
	conn    *amqp.Connection
	mu      sync.Mutex // amqp.Channel нельзя использовать из нескольких горутин
	channel *amqp.Channel
	logger  *zap.Logger
}

func NewRabbitMQClient(url string, logger *zap.Logger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := DeclareAuditQueue(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQClient{
		url:     url,
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// DeclareAuditQueue объявляет durable-очередь аудита
func DeclareAuditQueue(channel *amqp.Channel) error {
	_, err := channel.QueueDeclare(
		AuditQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", AuditQueue, err)
	}
	return nil
}

// URL нужен воркеру, который открывает собственное соединение
func (c *RabbitMQClient) URL() string {
	return c.url
}

func (c *RabbitMQClient) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.PublishWithContext(
		ctx,
		"",         // exchange
		AuditQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Сообщения сохраняются на диск
		},
	)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Debug("audit message published",
		zap.String("action", string(message.Action)),
		zap.String("entity_type", message.EntityType),
		zap.String("entity_id", message.EntityID),
	)
	return nil
}

func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// NoopPublisher - аудит выключен (RABBITMQ_URL не задан)
type NoopPublisher struct{}

func (NoopPublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	return nil
}
