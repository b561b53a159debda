// Package events provides the in-process notification bus for the
// sustenance system. Delivery is synchronous and ordered: LevelChanged
// fires before SeverityChanged for the same mutation, and SeverityChanged
// fires only on bucket transitions (or when explicitly forced at startup).
//
// The bus is re-entrant-safe but not thread-safe: handlers may subscribe
// and unsubscribe from within a callback, but all delivery happens on the
// simulation goroutine.
package events

// LevelChangedHandler receives the fill fraction in [0,1] after every
// mutation that altered the resource level.
type LevelChangedHandler func(fraction float64)

// SeverityChangedHandler receives the new severity label on edge transitions.
type SeverityChangedHandler func(severity string)

// StarvationTickHandler fires once per configured interval while starving.
type StarvationTickHandler func()

type levelSub struct {
	fn     LevelChangedHandler
	active bool
}

type severitySub struct {
	fn     SeverityChangedHandler
	active bool
}

type starvationSub struct {
	fn     StarvationTickHandler
	active bool
}

// Subscription is a handle returned by the Subscribe methods.
// Cancel is idempotent and safe to call from inside any handler;
// a handler cancelled mid-delivery receives no further notifications
// of any kind from that point.
type Subscription struct {
	cancel func()
}

// Cancel removes the subscription from the bus.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Bus routes sustenance notifications to subscribers.
type Bus struct {
	level      []*levelSub
	severity   []*severitySub
	starvation []*starvationSub
	emitting   int
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeLevelChanged registers a handler for level mutations.
// A handler added during delivery does not receive the in-flight event.
func (b *Bus) SubscribeLevelChanged(fn LevelChangedHandler) *Subscription {
	sub := &levelSub{fn: fn, active: true}
	b.level = append(b.level, sub)
	return &Subscription{cancel: func() { sub.active = false }}
}

// SubscribeSeverityChanged registers a handler for severity transitions.
func (b *Bus) SubscribeSeverityChanged(fn SeverityChangedHandler) *Subscription {
	sub := &severitySub{fn: fn, active: true}
	b.severity = append(b.severity, sub)
	return &Subscription{cancel: func() { sub.active = false }}
}

// SubscribeStarvationTick registers a handler for periodic starvation ticks.
func (b *Bus) SubscribeStarvationTick(fn StarvationTickHandler) *Subscription {
	sub := &starvationSub{fn: fn, active: true}
	b.starvation = append(b.starvation, sub)
	return &Subscription{cancel: func() { sub.active = false }}
}

// EmitLevelChanged delivers a level change to all current subscribers.
func (b *Bus) EmitLevelChanged(fraction float64) {
	// Bound iteration to subscribers present at emit time; the active flag
	// is re-checked per call so a cancellation during delivery sticks.
	subs := b.level
	b.emitting++
	for i := 0; i < len(subs); i++ {
		if subs[i].active {
			subs[i].fn(fraction)
		}
	}
	b.emitting--
	b.compact()
}

// EmitSeverityChanged delivers a severity transition to all current subscribers.
func (b *Bus) EmitSeverityChanged(severity string) {
	subs := b.severity
	b.emitting++
	for i := 0; i < len(subs); i++ {
		if subs[i].active {
			subs[i].fn(severity)
		}
	}
	b.emitting--
	b.compact()
}

// EmitStarvationTick delivers one periodic starvation tick.
func (b *Bus) EmitStarvationTick() {
	subs := b.starvation
	b.emitting++
	for i := 0; i < len(subs); i++ {
		if subs[i].active {
			subs[i].fn()
		}
	}
	b.emitting--
	b.compact()
}

// compact drops cancelled subscriptions so the lists do not grow unbounded
// across subscribe/unsubscribe churn. Deferred while a (possibly nested)
// emit is in flight so delivery never iterates a rewritten list.
func (b *Bus) compact() {
	if b.emitting > 0 {
		return
	}
	kept := b.level[:0]
	for _, s := range b.level {
		if s.active {
			kept = append(kept, s)
		}
	}
	b.level = kept

	keptSev := b.severity[:0]
	for _, s := range b.severity {
		if s.active {
			keptSev = append(keptSev, s)
		}
	}
	b.severity = keptSev

	keptStv := b.starvation[:0]
	for _, s := range b.starvation {
		if s.active {
			keptStv = append(keptStv, s)
		}
	}
	b.starvation = keptStv
}
