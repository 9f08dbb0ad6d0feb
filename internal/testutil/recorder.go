package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/quorum/internal/notify"
)

// RecordingDispatcher captures dispatched events. Set Err to make every
// dispatch fail after recording.
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
	Err    error
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, e notify.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return d.Err
}

// Events returns a copy of everything dispatched so far.
func (d *RecordingDispatcher) Events() []notify.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notify.Event, len(d.events))
	copy(out, d.events)
	return out
}

// OfKind returns the dispatched events of kind k.
func (d *RecordingDispatcher) OfKind(k notify.Kind) []notify.Event {
	var out []notify.Event
	for _, e := range d.Events() {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

func (d *RecordingDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}
