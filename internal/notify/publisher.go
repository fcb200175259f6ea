// Package notify 把邮件消息发布到 rabbitmq，由 cmd/mail 消费并发送
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

const MailQueue = "email_queue"

// Channel 是 *amqp.Channel 中发布消息的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch      Channel
	timeout time.Duration
}

func NewPublisher(ch Channel, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		timeout: timeout,
	}
}

// DeclareQueue 声明持久化的邮件队列，生产者和消费者都需要调用
func DeclareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		MailQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

// Notify 实现 operation.Notifier
func (p *Publisher) Notify(ctx context.Context, msg domain.MailMessage) error {
	// 序列化邮件
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
