// Package pubsub provides a simple publish-subscribe mechanism used by the
// display client to dispatch inbound playback events to their handlers.
package pubsub

import (
	"fmt"
	"sync"
)

// Topic represents a subscription topic. Topics mirror the event-channel
// event types.
type Topic string

const (
	TopicPlay             Topic = "play"
	TopicPause            Topic = "pause"
	TopicRestart          Topic = "restart"
	TopicRefresh          Topic = "refresh"
	TopicLoad             Topic = "load"
	TopicMute             Topic = "mute"
	TopicUnmute           Topic = "unmute"
	TopicNotifyOverlay    Topic = "notify-overlay"
	TopicNotifyFullscreen Topic = "notify-fullscreen"
	TopicStatusUpdate     Topic = "status-update"
)

// Subscriber represents a subscription channel.
type Subscriber struct {
	ID      string
	Topic   Topic
	Channel chan interface{}
}

// PubSub manages subscriptions and message distribution.
type PubSub struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*Subscriber
	nextID      int
}

// New creates a new PubSub instance.
func New() *PubSub {
	return &PubSub{
		subscribers: make(map[Topic][]*Subscriber),
	}
}

// Subscribe creates a new subscription for a topic.
func (ps *PubSub) Subscribe(topic Topic, bufferSize int) *Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.nextID++
	sub := &Subscriber{
		ID:      fmt.Sprintf("sub-%d", ps.nextID),
		Topic:   topic,
		Channel: make(chan interface{}, bufferSize),
	}

	ps.subscribers[topic] = append(ps.subscribers[topic], sub)
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.subscribers[sub.Topic]
	for i, s := range subs {
		if s.ID == sub.ID {
			close(s.Channel)
			ps.subscribers[sub.Topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends a message to all subscribers of a topic. The send is
// non-blocking; a subscriber whose buffer is full misses the message.
func (ps *PubSub) Publish(topic Topic, message interface{}) {
	ps.mu.RLock()
	subs := ps.subscribers[topic]
	ps.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.Channel <- message:
		default:
			// Channel full, skip (non-blocking)
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}

// Close unsubscribes everything. Used on display shutdown.
func (ps *PubSub) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for topic, subs := range ps.subscribers {
		for _, sub := range subs {
			close(sub.Channel)
		}
		delete(ps.subscribers, topic)
	}
}
