package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/courtside/internal/pubsub"
)

func TestEmit_PublishesToNotificationsTopic(t *testing.T) {
	client := pubsub.NewMock()
	n := New(client)

	err := n.Emit("user-1", EventMatchCompleted, map[string]any{"matchId": "m1"})
	require.NoError(t, err)

	require.Len(t, client.SendMessageCalls, 1)
	call := client.SendMessageCalls[0]
	assert.Equal(t, pubsub.TopicNotifications, call.Topic)

	event, ok := call.Data.(Event)
	require.True(t, ok)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, EventMatchCompleted, event.Type)
	assert.Equal(t, "m1", event.Payload["matchId"])
}
