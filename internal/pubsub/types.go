package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// TopicNotifications carries all user-facing notification events. Consumers
// fan out to delivery channels; this core never knows which.
const TopicNotifications = "notifications"
