// Package events carries the process-wide session signals between the
// transport layer and whatever hosts the session (layout, CLI watch loop).
package events

import (
	"sync"
	"time"
)

// Type discriminates session events.
type Type string

const (
	// SessionInvalidated fires when the transport classifies a response as
	// unauthorized and tears the credential down. It may fire more than once
	// for rapid repeated failures; subscribers must tolerate duplicates.
	SessionInvalidated Type = "session-invalidated"
	// CredentialRotated fires when a refresh or tenant switch installs a new
	// credential.
	CredentialRotated Type = "credential-rotated"
)

// Event is a session lifecycle signal. Path carries the location the user
// was attempting when the session died, for post-login restoration.
type Event struct {
	Type Type
	Path string
	At   time.Time
}

const subscriberBuffer = 8

// Bus is an in-process publish/subscribe fan-out with at-least-once delivery
// to every active subscriber. Publish never blocks the publishing goroutine:
// when a subscriber's buffer is full the send is completed asynchronously.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release the subscription; events published after cancellation
// are not delivered.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every active subscriber.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Buffer full; finish the delivery off the publisher's goroutine.
			// The recover covers the race with cancel closing the channel;
			// a cancelled subscriber forfeits undelivered events.
			go func(ch chan Event) {
				defer func() { _ = recover() }()
				ch <- ev
			}(ch)
		}
	}
}
