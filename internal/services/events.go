package services

import (
	"github.com/sirupsen/logrus"
)

// Event types published after successful writes.
const (
	EventUserSignedUp   = "user.signed_up"
	EventUserDeleted    = "user.deleted"
	EventUserFollowed   = "user.followed"
	EventUserUnfollowed = "user.unfollowed"
	EventMessageCreated = "message.created"
	EventMessageDeleted = "message.deleted"
	EventMessageLiked   = "message.liked"
)

// EventPublisher is implemented by the RabbitMQ client.
type EventPublisher interface {
	PublishEvent(eventType string, payload interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged
// and never fail the calling operation.
func publish(publisher EventPublisher, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEvent(eventType, payload); err != nil {
		logrus.WithError(err).WithField("event", eventType).Warn("Failed to publish event")
		return
	}
	logrus.WithField("event", eventType).Debug("Published event")
}
