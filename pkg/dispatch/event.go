package dispatch

import (
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Action tags the watch action that produced an Event.
type Action string

const (
	// Added is emitted for a custom resource newly observed by the watch.
	Added Action = "Added"

	// Modified is emitted for a custom resource the watch has seen change.
	// The dispatcher treats Added and Modified identically.
	Modified Action = "Modified"

	// Deleted is emitted once the resource is gone from the API server.
	// The dispatcher treats it as informational; reconciliation is not
	// meaningful for an object that no longer exists.
	Deleted Action = "Deleted"

	// Error is emitted by the watch source itself (e.g. a watch stream
	// reconnect failure). It carries no usable resource snapshot; the
	// dispatcher applies the event's retry policy without invoking the
	// callback.
	Error Action = "Error"
)

// Event is the immutable unit the dispatcher consumes: an action tag, the
// resource as observed at the moment the event was emitted, and the retry
// policy to apply if handling this event fails. Events are values — two
// events for the same underlying resource change may legitimately carry
// different retry policies when produced by different sources.
type Event[T client.Object] struct {
	Action   Action
	Resource T
	Retry    RetryPolicy
}

// NewEvent constructs an Event with the given action, resource snapshot,
// and retry policy. A nil Retry is replaced with NewGenericRetryPolicy's
// defaults so callers never need a nil check before using event.Retry.
func NewEvent[T client.Object](action Action, resource T, retry RetryPolicy) Event[T] {
	if retry == nil {
		retry = NewGenericRetryPolicy()
	}
	return Event[T]{Action: action, Resource: resource, Retry: retry}
}
