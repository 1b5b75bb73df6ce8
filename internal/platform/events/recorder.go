package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory so tests can assert on them.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

type Recorded struct {
	Event string
	Data  interface{}
}

func (r *Recorder) Publish(_ context.Context, event string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Event: event, Data: data})
	return nil
}

func (r *Recorder) Close() {}

func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Event
	}
	return names
}
