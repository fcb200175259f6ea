package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type fakeChannel struct {
	key      string
	msg      amqp.Publishing
	deadline bool
	err      error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.key = key
	c.msg = msg
	_, c.deadline = ctx.Deadline()
	return c.err
}

func TestNotifyPublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, time.Second)

	msg := domain.MailMessage{
		Type: domain.MailTypeTaskAssigned,
		To:   "lilei@example.com",
		Data: domain.TaskAssignedMailData{FullName: "Li Lei", TaskName: "Oil"},
	}
	require.NoError(t, p.Notify(context.Background(), msg))

	assert.Equal(t, MailQueue, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.True(t, ch.deadline)

	var decoded struct {
		Type string         `json:"type"`
		To   string         `json:"to"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, domain.MailTypeTaskAssigned, decoded.Type)
	assert.Equal(t, "lilei@example.com", decoded.To)
	assert.NotEmpty(t, decoded.Data)
}

func TestNotifyReturnsChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewPublisher(ch, time.Second)

	err := p.Notify(context.Background(), domain.MailMessage{Type: domain.MailTypeTaskAssigned, To: "a@b.c"})
	assert.EqualError(t, err, "channel closed")
}
