package mqtt

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/fitodd-23707/adc-display/internal/logic"
)

// QueueSize is the default number of messages AsyncPublisher holds.
const QueueSize = 64

// ErrQueueFull is returned when a message is dropped because the publisher
// goroutine has fallen behind.
var ErrQueueFull = errors.New("mqtt: publish queue full, message dropped")

// ErrClosed is returned by Publish and PublishSystem after Close.
var ErrClosed = errors.New("mqtt: publisher closed")

type queued struct {
	event  *logic.Event
	system *SystemEvent
}

// AsyncPublisher hands messages to a background goroutine so callers never
// wait on the broker. Publish and PublishSystem only enqueue; when the queue
// is full the message is dropped and counted.
type AsyncPublisher struct {
	inner Publisher
	ch    chan queued
	done  chan struct{}

	mu     sync.Mutex
	closed bool

	dropped atomic.Uint64
}

// NewAsyncPublisher starts the goroutine draining into inner.
func NewAsyncPublisher(inner Publisher, size int) *AsyncPublisher {
	if size < 1 {
		size = 1
	}
	a := &AsyncPublisher{
		inner: inner,
		ch:    make(chan queued, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncPublisher) run() {
	defer close(a.done)
	failing := false
	for q := range a.ch {
		var err error
		if q.event != nil {
			err = a.inner.Publish(*q.event)
		} else {
			err = a.inner.PublishSystem(*q.system)
		}
		if err != nil {
			if !failing {
				log.Printf("mqtt: publish error: %v", err)
				failing = true
			}
			continue
		}
		if failing {
			log.Printf("mqtt: publishing recovered")
			failing = false
		}
	}
}

func (a *AsyncPublisher) enqueue(q queued) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.ch <- q:
		return nil
	default:
		a.dropped.Add(1)
		return ErrQueueFull
	}
}

// Publish queues a controller event.
func (a *AsyncPublisher) Publish(event logic.Event) error {
	return a.enqueue(queued{event: &event})
}

// PublishSystem queues a system event.
func (a *AsyncPublisher) PublishSystem(event SystemEvent) error {
	return a.enqueue(queued{system: &event})
}

// IsConnected reports the wrapped publisher's connection, or false if it
// cannot tell.
func (a *AsyncPublisher) IsConnected() bool {
	if cs, ok := a.inner.(ConnectionStatus); ok {
		return cs.IsConnected()
	}
	return false
}

// Dropped returns how many messages were discarded on a full queue.
func (a *AsyncPublisher) Dropped() uint64 {
	return a.dropped.Load()
}

// Close stops accepting messages, waits for the queued ones to be handed to
// the wrapped publisher, then closes it.
func (a *AsyncPublisher) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	<-a.done
	return a.inner.Close()
}
