// Package sse streams vault change notifications to HTTP clients as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/starford/notegraph/internal/parser"
)

// Event names written to the stream.
const (
	EventNoteCreated  = "note.created"
	EventNoteUpdated  = "note.updated"
	EventNoteDeleted  = "note.deleted"
	EventGraphUpdated = "graph.updated"
)

// Event is one message on the stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NoteChange is the payload of the note.* events.
type NoteChange struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// GraphChange is the payload of graph.updated. Clients re-query after it.
type GraphChange struct {
	Notes int `json:"notes"`
}

type change struct {
	kind  string
	path  string
	notes int
}

// Broker fans events out to subscribers. One goroutine owns the subscriber
// set and the graph throttle; every public method talks to it over channels.
type Broker struct {
	throttle time.Duration

	join    chan chan []byte
	leave   chan chan []byte
	events  chan Event
	changes chan change
	count   chan chan int

	quit   chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewBroker starts a broker that emits graph.updated at most once per
// throttle, with a trailing event for changes that arrive inside the window.
// A non-positive throttle defaults to two seconds.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	b := &Broker{
		throttle: throttle,
		join:     make(chan chan []byte),
		leave:    make(chan chan []byte),
		events:   make(chan Event, 256),
		changes:  make(chan change, 256),
		count:    make(chan chan int),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b
}

// encode renders ev in text/event-stream framing.
func encode(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", ev.Type, payload)), nil
}

// changeEvent maps a watcher kind to its note.* event name.
func changeEvent(kind string) (string, bool) {
	switch kind {
	case "created":
		return EventNoteCreated, true
	case "updated":
		return EventNoteUpdated, true
	case "deleted":
		return EventNoteDeleted, true
	}
	return "", false
}

func (b *Broker) loop() {
	defer close(b.done)

	subs := make(map[chan []byte]struct{})
	var lastGraph time.Time

	// A change inside the throttle window is held back and announced when
	// the window closes, so the final corpus size always reaches clients.
	var pending *GraphChange
	var trailing *time.Timer
	var trailingC <-chan time.Time
	defer func() {
		if trailing != nil {
			trailing.Stop()
		}
	}()

	send := func(ev Event) {
		msg, err := encode(ev)
		if err != nil {
			return
		}
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// slow subscriber, drop
			}
		}
	}

	for {
		select {
		case <-b.quit:
			for ch := range subs {
				close(ch)
			}
			return

		case ch := <-b.join:
			subs[ch] = struct{}{}

		case ch := <-b.leave:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case ev := <-b.events:
			send(ev)

		case c := <-b.changes:
			if name, ok := changeEvent(c.kind); ok {
				send(Event{Type: name, Data: NoteChange{ID: parser.IDFromPath(c.path), Path: c.path}})
			}
			now := time.Now()
			if now.Sub(lastGraph) >= b.throttle {
				lastGraph = now
				pending = nil
				send(Event{Type: EventGraphUpdated, Data: GraphChange{Notes: c.notes}})
				continue
			}
			pending = &GraphChange{Notes: c.notes}
			if trailingC == nil {
				trailing = time.NewTimer(lastGraph.Add(b.throttle).Sub(now))
				trailingC = trailing.C
			}

		case <-trailingC:
			trailingC = nil
			if pending != nil {
				lastGraph = time.Now()
				send(Event{Type: EventGraphUpdated, Data: *pending})
				pending = nil
			}

		case resp := <-b.count:
			resp <- len(subs)
		}
	}
}

// Close stops the broker and closes every subscriber channel. It is safe to
// call more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a new subscriber. The returned channel is closed when
// the subscriber leaves or the broker closes.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.join <- ch:
	case <-b.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes ch and closes it.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.done:
	}
}

// ClientCount reports the number of subscribers.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.count <- resp:
	case <-b.done:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Publish broadcasts ev to every subscriber.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

// NoteChanged announces a watcher event for the note at path, followed by a
// throttled graph.updated carrying the size of the reloaded corpus.
func (b *Broker) NoteChanged(kind, path string, notes int) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changes <- change{kind: kind, path: path, notes: notes}:
	case <-b.done:
	}
}

// ServeHTTP streams events until the client disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
