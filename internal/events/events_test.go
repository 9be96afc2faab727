package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"baniya/internal/logger"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
	err      error
}

func (r *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	_, r.deadline = ctx.Deadline()
	r.exchange, r.key, r.msg = exchange, key, msg
	return r.err
}

func TestPublishFundAdded(t *testing.T) {
	ch := &recordingChannel{}
	p := newPublisher(ch, "baniya.events", logger.NewTest(t))

	at := time.Date(2025, 2, 12, 18, 0, 0, 0, time.UTC)
	ev := FundAdded{TransactionID: "tx-1", Owner: "demo", Amount: 72.5, TotalSaved: 1323.25, Transactions: 5, OccurredAt: at}
	require.NoError(t, p.PublishFundAdded(context.Background(), ev))

	assert.Equal(t, "baniya.events", ch.exchange)
	assert.Equal(t, RoutingFundAdded, ch.key)
	assert.True(t, ch.deadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, uint8(amqp091.Persistent), ch.msg.DeliveryMode)
	assert.Equal(t, "tx-1", ch.msg.MessageId)

	var got FundAdded
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, ev, got)
}

func TestPublishFundAddedError(t *testing.T) {
	p := newPublisher(&recordingChannel{err: errors.New("channel closed")}, "x", logger.NewNop())

	err := p.PublishFundAdded(context.Background(), FundAdded{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish fund.added")
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishFundAdded(context.Background(), FundAdded{}))
	assert.NoError(t, p.Close())
}
