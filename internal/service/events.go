package service

import "time"

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is pushed to live admin clients after a committed user change.
type UserEvent struct {
	Type           string    `json:"type"`
	UserID         uint      `json:"user_id"`
	Identification string    `json:"identification"`
	ActorID        *uint     `json:"actor_id,omitempty"`
	At             time.Time `json:"at"`
}

// EventPublisher must not block the caller.
type EventPublisher interface {
	Publish(event UserEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(UserEvent) {}
