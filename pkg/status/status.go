// Package status collects operator-facing status messages: persistent named
// areas, short-lived transient messages, and auto-dismissing toasts. It holds
// no rendering; surfaces subscribe and draw the events however they like.
package status

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the semantic severity of a message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// AreaMain is the shared persistent surface; the API client reports every
// failure here regardless of which caller triggered it.
const AreaMain = "main"

// DefaultTransientDuration is how long a transient message lives unless the
// caller says otherwise.
const DefaultTransientDuration = 3 * time.Second

// Channel identifies which surface an event belongs to.
type Channel int

const (
	ChannelPersistent Channel = iota
	ChannelTransient
	ChannelToast
)

// Message is a single reported status.
type Message struct {
	Text  string
	Level Level
	HTML  bool
}

// Event is delivered to subscribers on every change. Cleared is set when a
// transient message or toast is removed.
type Event struct {
	Channel Channel
	Key     string // area name, transient key, or toast id
	Message Message
	Cleared bool
}

// Reporter fans status messages out to subscribers. The three channels are
// independent: their timers never interfere with each other.
type Reporter struct {
	mu          sync.Mutex
	areas       map[string]Message
	transients  map[string]Message
	timers      map[string]*time.Timer
	toasts      map[string]Message
	toastTimers map[string]*time.Timer
	subs        []func(Event)
}

// New creates an empty reporter.
func New() *Reporter {
	return &Reporter{
		areas:       make(map[string]Message),
		transients:  make(map[string]Message),
		timers:      make(map[string]*time.Timer),
		toasts:      make(map[string]Message),
		toastTimers: make(map[string]*time.Timer),
	}
}

// Subscribe registers a callback for every status event. Callbacks run on the
// goroutine that reported the message (or the timer goroutine for clears).
func (r *Reporter) Subscribe(fn func(Event)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *Reporter) notify(ev Event) {
	r.mu.Lock()
	subs := make([]func(Event), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Persistent overwrites the message shown in a named area. The message stays
// until the next Persistent call for the same area.
func (r *Reporter) Persistent(area, text string, level Level) {
	msg := Message{Text: text, Level: level}
	r.mu.Lock()
	r.areas[area] = msg
	r.mu.Unlock()
	r.notify(Event{Channel: ChannelPersistent, Key: area, Message: msg})
}

// PersistentMessage returns the current message for an area.
func (r *Reporter) PersistentMessage(area string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.areas[area]
	return m, ok
}

// Transient shows a message under a key and clears it after d. A second call
// for the same key resets the timer instead of stacking a new one. d <= 0
// keeps the message until ClearTransient or a later Transient call.
func (r *Reporter) Transient(key, text string, level Level, d time.Duration) {
	r.TransientHTML(key, text, level, d, false)
}

// TransientHTML is Transient with markup allowed in the message body.
func (r *Reporter) TransientHTML(key, text string, level Level, d time.Duration, html bool) {
	msg := Message{Text: text, Level: level, HTML: html}
	r.mu.Lock()
	if t, ok := r.timers[key]; ok {
		t.Stop()
		delete(r.timers, key)
	}
	r.transients[key] = msg
	if d > 0 {
		r.timers[key] = time.AfterFunc(d, func() { r.ClearTransient(key) })
	}
	r.mu.Unlock()
	r.notify(Event{Channel: ChannelTransient, Key: key, Message: msg})
}

// ClearTransient removes a transient message. Safe to call when nothing is
// shown for the key.
func (r *Reporter) ClearTransient(key string) {
	r.mu.Lock()
	if t, ok := r.timers[key]; ok {
		t.Stop()
		delete(r.timers, key)
	}
	_, had := r.transients[key]
	delete(r.transients, key)
	r.mu.Unlock()
	if had {
		r.notify(Event{Channel: ChannelTransient, Key: key, Cleared: true})
	}
}

// TransientMessage returns the current transient message for a key.
func (r *Reporter) TransientMessage(key string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.transients[key]
	return m, ok
}

// Toast shows a floating notification and returns its id. d > 0 removes it
// automatically after that long; otherwise it stays until DismissToast.
func (r *Reporter) Toast(text string, level Level, d time.Duration) string {
	id := "toast-" + uuid.NewString()
	msg := Message{Text: text, Level: level}
	r.mu.Lock()
	r.toasts[id] = msg
	if d > 0 {
		r.toastTimers[id] = time.AfterFunc(d, func() { r.DismissToast(id) })
	}
	r.mu.Unlock()
	r.notify(Event{Channel: ChannelToast, Key: id, Message: msg})
	return id
}

// DismissToast removes a toast. Idempotent.
func (r *Reporter) DismissToast(id string) {
	r.mu.Lock()
	if t, ok := r.toastTimers[id]; ok {
		t.Stop()
		delete(r.toastTimers, id)
	}
	_, had := r.toasts[id]
	delete(r.toasts, id)
	r.mu.Unlock()
	if had {
		r.notify(Event{Channel: ChannelToast, Key: id, Cleared: true})
	}
}

// ActiveToasts returns the ids of toasts not yet dismissed.
func (r *Reporter) ActiveToasts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.toasts))
	for id := range r.toasts {
		ids = append(ids, id)
	}
	return ids
}
