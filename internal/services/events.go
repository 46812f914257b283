package services

import (
	"github.com/sirupsen/logrus"
)

// Activity event types published after a successful mutation.
const (
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventPostLiked      = "post.liked"
	EventPostUnliked    = "post.unliked"
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
)

// EventPublisher delivers activity events to a broker.
type EventPublisher interface {
	PublishEvent(eventType string, data map[string]interface{}) error
}

// publishEvent never fails the caller: the mutation has already been committed.
func publishEvent(pub EventPublisher, log *logrus.Logger, eventType string, data map[string]interface{}) {
	if pub == nil {
		log.WithField("event", eventType).Debug("event publisher not configured, skipping")
		return
	}
	if err := pub.PublishEvent(eventType, data); err != nil {
		log.WithError(err).WithField("event", eventType).Warn("failed to publish activity event")
	}
}
