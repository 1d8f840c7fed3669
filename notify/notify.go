// Package notify is the user-facing notification port used by mutations.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives exactly one message per mutation invocation.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyError(msg string)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) NotifySuccess(string) {}
func (Nop) NotifyError(string)   {}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a notifier that logs successes at info and errors at error level.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) NotifySuccess(msg string) {
	n.log.Info(msg, zap.String("kind", string(KindSuccess)))
}

func (n *LogNotifier) NotifyError(msg string) {
	n.log.Error(msg, zap.String("kind", string(KindError)))
}

// Kind tells success and error notifications apart.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Event is a recorded notification.
type Event struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NotifySuccess(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) NotifyError(msg string)   { r.add(KindError, msg) }

func (r *Recorder) add(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: kind, Message: msg})
}

// Events returns a copy of every recorded notification in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Messages returns the messages recorded for kind.
func (r *Recorder) Messages(kind Kind) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Tee fans a notification out to several notifiers.
func Tee(notifiers ...Notifier) Notifier {
	return tee(notifiers)
}

type tee []Notifier

func (t tee) NotifySuccess(msg string) {
	for _, n := range t {
		n.NotifySuccess(msg)
	}
}

func (t tee) NotifyError(msg string) {
	for _, n := range t {
		n.NotifyError(msg)
	}
}
