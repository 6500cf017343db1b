package notifier

import (
	"github.com/mauv0809/courtside/internal/pubsub"
)

// Event types recognized by downstream notification consumers.
const (
	EventInviteAccepted = "invite.accepted"
	EventInviteDeclined = "invite.declined"
	EventMatchCompleted = "match.completed"
)

// Notifier is the fire-and-forget notification sink. A failed emit is
// logged by the caller and never rolls back domain state.
type Notifier interface {
	Emit(userID, eventType string, payload map[string]any) error
}

// Event is the wire shape published to the notifications topic.
type Event struct {
	UserID  string         `msgpack:"user_id"`
	Type    string         `msgpack:"type"`
	Payload map[string]any `msgpack:"payload"`
}

// pubsubNotifier publishes events to the shared notifications topic.
type pubsubNotifier struct {
	client pubsub.PubSubClient
}

// New creates a Pub/Sub backed Notifier.
func New(client pubsub.PubSubClient) Notifier {
	return &pubsubNotifier{client: client}
}

func (n *pubsubNotifier) Emit(userID, eventType string, payload map[string]any) error {
	return n.client.SendMessage(pubsub.TopicNotifications, Event{
		UserID:  userID,
		Type:    eventType,
		Payload: payload,
	})
}
