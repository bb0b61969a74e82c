// Package dispatch runs handlers subscribed to named triggers. A dispatch
// processes the triggering event and every follow-up event its handlers emit
// before returning, so the outputs it hands back are complete and their
// computation order is explicit.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"exodash/internal"
	"exodash/internal/errors"
)

// Trigger names an input that can start or continue a dispatch.
type Trigger string

const (
	// TriggerApply carries a filter selection from the apply button.
	TriggerApply Trigger = "apply"
	// TriggerFilteredData announces that the session's cached subset changed.
	TriggerFilteredData Trigger = "filtered-data"
)

// DefaultMaxEvents bounds follow-up chains so a handler cycle cannot spin.
const DefaultMaxEvents = 32

// Event is one trigger firing for a session.
type Event struct {
	ID        uint64
	Trigger   Trigger
	SessionID string
	Payload   interface{}
	Timestamp time.Time
}

// Handler reacts to an event, writes named outputs and may emit follow-up
// events.
type Handler func(ctx context.Context, ev Event, out *Outputs) ([]Event, error)

// sessionLock is held by every dispatch of one session; refs counts the
// dispatches running or waiting on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher routes events to handlers. Dispatches for one session run one
// at a time; different sessions proceed in parallel.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Trigger][]subscription

	locksMu   sync.Mutex
	locks     map[string]*sessionLock
	sequence  atomic.Uint64
	maxEvents int
	logger    *internal.Logger
}

// New creates a dispatcher with no subscriptions.
func New(logger *internal.Logger) *Dispatcher {
	return &Dispatcher{
		handlers:  make(map[Trigger][]subscription),
		locks:     make(map[string]*sessionLock),
		maxEvents: DefaultMaxEvents,
		logger:    logger,
	}
}

// Subscribe registers h for trigger. Handlers of one trigger run in
// registration order.
func (d *Dispatcher) Subscribe(trigger Trigger, name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[trigger] = append(d.handlers[trigger], subscription{name: name, handler: h})
}

// Triggers lists the triggers with at least one handler.
func (d *Dispatcher) Triggers() []Trigger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Trigger, 0, len(d.handlers))
	for t := range d.handlers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dispatch runs ev and its follow-ups breadth first and returns the
// collected outputs. The first handler error aborts the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*Outputs, error) {
	if len(d.subscribers(ev.Trigger)) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("no handler for trigger %q", ev.Trigger))
	}

	unlock := d.lockSession(ev.SessionID)
	defer unlock()

	out := NewOutputs()
	queue := []Event{d.stamp(ev)}
	processed := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if processed >= d.maxEvents {
			return out, errors.New(errors.CodeInternalError,
				fmt.Sprintf("dispatch exceeded %d events, last trigger %q", d.maxEvents, queue[0].Trigger))
		}
		current := queue[0]
		queue = queue[1:]
		processed++

		for _, sub := range d.subscribers(current.Trigger) {
			start := time.Now()
			next, err := sub.handler(ctx, current, out)
			if err != nil {
				d.logger.Warn("[Dispatcher] handler %s failed on %s (session %s): %v", sub.name, current.Trigger, current.SessionID, err)
				return out, err
			}
			d.logger.Debug("[Dispatcher] %s handled %s #%d in %s, %d follow-ups", sub.name, current.Trigger, current.ID, time.Since(start), len(next))
			for _, n := range next {
				if n.SessionID == "" {
					n.SessionID = current.SessionID
				}
				queue = append(queue, d.stamp(n))
			}
		}
	}
	return out, nil
}

func (d *Dispatcher) subscribers(t Trigger) []subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[t]
}

func (d *Dispatcher) stamp(ev Event) Event {
	ev.ID = d.sequence.Add(1)
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return ev
}

// lockSession serializes dispatches of one session. The entry is removed
// once the last holder releases it.
func (d *Dispatcher) lockSession(sessionID string) func() {
	d.locksMu.Lock()
	l, ok := d.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		d.locks[sessionID] = l
	}
	l.refs++
	d.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, sessionID)
		}
		d.locksMu.Unlock()
	}
}

// activeSessions reports how many sessions hold or wait on a lock.
func (d *Dispatcher) activeSessions() int {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	return len(d.locks)
}
