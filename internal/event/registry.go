package event

import (
	"sort"
	"sync"

	"github.com/dshills/keypress/internal/event/topic"
)

// Registry holds subscriptions ordered by priority, then by registration
// order. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs []*subscription
	byID map[string]*subscription
	seq  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*subscription),
	}
}

// Add registers a subscription.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	sub.seq = r.seq
	r.subs = append(r.subs, sub)
	sort.SliceStable(r.subs, func(i, j int) bool {
		if r.subs[i].priority != r.subs[j].priority {
			return r.subs[i].priority < r.subs[j].priority
		}
		return r.subs[i].seq < r.subs[j].seq
	})
	r.byID[sub.id] = sub
}

// Remove removes a subscription by ID and reports whether it existed.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[subID]; !ok {
		return false
	}
	delete(r.byID, subID)
	for i, s := range r.subs {
		if s.id == subID {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.byID[subID]
	if !ok {
		return nil, false
	}
	return sub, true
}

// MatchActive returns the active subscriptions whose pattern matches
// eventTopic, in delivery order. The returned slice is a copy.
func (r *Registry) MatchActive(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*subscription
	for _, s := range r.subs {
		if s.IsActive() && eventTopic.Matches(s.topic) {
			matched = append(matched, s)
		}
	}
	return matched
}

// Count returns the number of registered subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.subs {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.subs {
		s.Cancel()
	}
	r.subs = nil
	r.byID = make(map[string]*subscription)
}
