package event

import (
	"sync/atomic"

	"github.com/dshills/keypress/internal/event/topic"
)

// Subscription is a handle on a registered handler.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	Priority() Priority

	// IsActive reports whether the subscription still receives events.
	IsActive() bool

	// Cancel stops delivery. It does not remove the subscription from the
	// bus; use Bus.Unsubscribe for that.
	Cancel()
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the subscription priority. The default is PriorityNormal.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) {
		s.priority = p
	}
}

// WithFilter delivers only events for which f returns true.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(s *subscription) {
		s.filter = f
	}
}

type subscription struct {
	id       string
	seq      uint64
	topic    topic.Topic
	handler  Handler
	priority Priority
	filter   FilterFunc

	cancelled atomic.Bool
}

func newSubscription(id string, t topic.Topic, h Handler, opts ...SubscriptionOption) *subscription {
	s := &subscription{
		id:       id,
		topic:    t,
		handler:  h,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.topic }
func (s *subscription) Priority() Priority { return s.priority }
func (s *subscription) IsActive() bool     { return !s.cancelled.Load() }
func (s *subscription) Cancel()            { s.cancelled.Store(true) }

// accepts reports whether event should reach the handler.
func (s *subscription) accepts(event any) bool {
	if s.cancelled.Load() {
		return false
	}
	return s.filter == nil || s.filter(event)
}
