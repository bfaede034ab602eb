package rabbitmq

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("user.followed", map[string]interface{}{"follower_id": 1, "followed_id": 2})
	require.NoError(t, err)

	assert.Equal(t, "user.followed", event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
	assert.JSONEq(t, `{"follower_id":1,"followed_id":2}`, string(event.Payload))
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("message.created", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestDecodeEvent(t *testing.T) {
	event, err := NewEvent("message.created", map[string]interface{}{"message_id": 7})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(amqp.Delivery{Body: body})
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "message.created", decoded.Type)
	assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))
}

func TestLogEvent(t *testing.T) {
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(os.Stderr)

	event, err := NewEvent("user.signed_up", map[string]interface{}{"user_id": 1})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	assert.NoError(t, LogEvent(amqp.Delivery{Body: body}))
	assert.Error(t, LogEvent(amqp.Delivery{Body: []byte("not json")}))
	assert.Error(t, LogEvent(amqp.Delivery{Body: []byte(`{"id":"x"}`)}))
}

func TestPublishEvent_NoChannel(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.PublishEvent("user.deleted", map[string]interface{}{"user_id": 1}))
	assert.Error(t, client.ConsumeEvents(LogEvent))
}
