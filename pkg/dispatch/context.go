package dispatch

import (
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Context is handed to every Callback invocation. It bundles the
// dependencies a callback typically needs beyond the resource itself: a
// client for touching related objects, a logger pre-seeded with the
// resource's identity, and a recorder for surfacing Kubernetes events.
//
// A fresh Context is built by the dispatcher for each HandleEvent call;
// callbacks must not retain it past the call.
type Context struct {
	// Client gives read/write access to the cluster for anything beyond
	// the primary resource (owned objects, dependency lookups). The
	// dispatcher itself never uses this; it is purely for callback
	// convenience.
	Client client.Client

	// Log is a structured logger with namespace/name/uid already
	// attached.
	Log logr.Logger

	// Event records Kubernetes events against the resource being
	// reconciled.
	Event EventHelper
}

// NewContext builds a Context for a single HandleEvent call.
func NewContext(c client.Client, log logr.Logger, recorder record.EventRecorder, obj runtime.Object) *Context {
	return &Context{
		Client: c,
		Log:    log,
		Event:  &eventHelper{recorder: recorder, object: obj},
	}
}

// EventHelper records Kubernetes events without requiring the caller to
// repeat the object reference on every call.
type EventHelper interface {
	Normal(reason, message string)
	Normalf(reason, messageFmt string, args ...interface{})
	Warning(reason, message string)
	Warningf(reason, messageFmt string, args ...interface{})
}

type eventHelper struct {
	recorder record.EventRecorder
	object   runtime.Object
}

func (e *eventHelper) Normal(reason, message string) {
	e.recorder.Event(e.object, corev1.EventTypeNormal, reason, message)
}

func (e *eventHelper) Normalf(reason, messageFmt string, args ...interface{}) {
	e.recorder.Eventf(e.object, corev1.EventTypeNormal, reason, messageFmt, args...)
}

func (e *eventHelper) Warning(reason, message string) {
	e.recorder.Event(e.object, corev1.EventTypeWarning, reason, message)
}

func (e *eventHelper) Warningf(reason, messageFmt string, args ...interface{}) {
	e.recorder.Eventf(e.object, corev1.EventTypeWarning, reason, messageFmt, args...)
}
