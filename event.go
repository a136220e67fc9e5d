// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

// Event is an edge source. Each activation increments its counter and
// fires every registration currently waiting on it.
type Event struct {
	id      EventID
	counter uint32
	waiters []*Registration
}

// NewEvent returns a fresh event that has never been activated.
func NewEvent() *Event {
	return &Event{id: nextEventID()}
}

// ID returns the event identity.
func (e *Event) ID() EventID {
	return e.id
}

// Activate produces one edge. Waiting registrations fire once each and
// are detached; a registration that wants more edges re-arms itself.
func (e *Event) Activate() {
	e.counter++
	if len(e.waiters) == 0 {
		return
	}
	waiters := e.waiters
	e.waiters = nil
	for _, r := range waiters {
		r.fire()
	}
}

// Subscribe returns a new subscription bound to e.
// The subscription has observed no activation, so it is ready as soon as
// e has ever been activated; call Reset to discard earlier edges.
func (e *Event) Subscribe() *Subscription {
	return &Subscription{ev: e}
}

func (e *Event) attach(r *Registration) {
	e.waiters = append(e.waiters, r)
}

func (e *Event) detach(r *Registration) {
	for i, w := range e.waiters {
		if w == r {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return
		}
	}
}

// Subscription is a resettable, edge-triggered readiness token.
// It is ready once its event has been activated after the last Reset.
type Subscription struct {
	ev   *Event
	seen uint32
}

// ID returns the identity of the bound event.
func (s *Subscription) ID() EventID {
	return s.ev.id
}

// Event returns the bound event.
func (s *Subscription) Event() *Event {
	return s.ev
}

// Ready reports whether an edge fired since the last Reset.
func (s *Subscription) Ready() bool {
	return s.ev.counter != s.seen
}

// Reset clears a fired edge so that a new wait observes only later
// activations.
func (s *Subscription) Reset() {
	s.seen = s.ev.counter
}
