package dispatchtest

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"

	"github.com/lattice-controllers/dispatch/pkg/dispatch"
)

// RecordedEvent captures a single call through dispatch.EventHelper.
type RecordedEvent struct {
	Type    string
	Reason  string
	Message string
}

// fakeEventHelper implements dispatch.EventHelper by recording every call
// instead of delegating to a real record.EventRecorder.
type fakeEventHelper struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (h *fakeEventHelper) Normal(reason, message string) {
	h.record(corev1.EventTypeNormal, reason, message)
}

func (h *fakeEventHelper) Normalf(reason, messageFmt string, args ...interface{}) {
	h.record(corev1.EventTypeNormal, reason, fmt.Sprintf(messageFmt, args...))
}

func (h *fakeEventHelper) Warning(reason, message string) {
	h.record(corev1.EventTypeWarning, reason, message)
}

func (h *fakeEventHelper) Warningf(reason, messageFmt string, args ...interface{}) {
	h.record(corev1.EventTypeWarning, reason, fmt.Sprintf(messageFmt, args...))
}

func (h *fakeEventHelper) record(eventType, reason, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, RecordedEvent{Type: eventType, Reason: reason, Message: message})
}

func (h *fakeEventHelper) Events() []RecordedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RecordedEvent(nil), h.events...)
}

// NewFakeContext builds a dispatch.Context backed by a discarding logger
// and an in-memory event recorder whose recorded events are inspectable
// through AssertNormalEvent/AssertWarningEvent/AssertNoEvents.
func NewFakeContext() *dispatch.Context {
	return &dispatch.Context{
		Log:   logr.Discard(),
		Event: &fakeEventHelper{},
	}
}

// EventsOf extracts the recorded events from a Context built by
// NewFakeContext. It panics if ctx was not built by NewFakeContext, which
// only ever happens from a test author's own mistake.
func EventsOf(ctx *dispatch.Context) []RecordedEvent {
	return ctx.Event.(*fakeEventHelper).Events()
}
