package dispatch

import (
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// verdictKind tags which of the four shapes a Verdict carries.
type verdictKind int

const (
	verdictNoUpdate verdictKind = iota
	verdictUpdateResource
	verdictUpdateStatus
	verdictUpdateResourceAndStatus
)

// Verdict is the sum type returned by Callback.CreateOrUpdate describing
// what mutation, if any, the dispatcher should persist on the caller's
// behalf. The only way to construct one is through the package-level
// constructor functions below; EventDispatcher interprets the result with
// a single switch at the dispatch site, never through type assertions on
// a deeper hierarchy.
type Verdict[T client.Object] struct {
	kind     verdictKind
	resource T
}

// UpdateResource persists r with an optimistic-lock full replace.
func UpdateResource[T client.Object](r T) Verdict[T] {
	return Verdict[T]{kind: verdictUpdateResource, resource: r}
}

// UpdateStatus persists only r.Status via the status subresource. The main
// object's resourceVersion, and therefore metadata.generation, is left
// untouched by the API server.
func UpdateStatus[T client.Object](r T) Verdict[T] {
	return Verdict[T]{kind: verdictUpdateStatus, resource: r}
}

// UpdateResourceAndStatus persists both, in that order: a full replace
// followed by a status subresource update using the resource returned by
// the replace.
func UpdateResourceAndStatus[T client.Object](r T) Verdict[T] {
	return Verdict[T]{kind: verdictUpdateResourceAndStatus, resource: r}
}

// NoUpdate persists nothing from the callback's return value. The
// dispatcher may still persist a finalizer edit it made itself before
// invoking the callback.
func NoUpdate[T client.Object]() Verdict[T] {
	var zero T
	return Verdict[T]{kind: verdictNoUpdate, resource: zero}
}

// Resource returns the resource carried by the verdict. It is the zero
// value of T for NoUpdate.
func (v Verdict[T]) Resource() T {
	return v.resource
}

// IsNoUpdate reports whether this verdict persists nothing.
func (v Verdict[T]) IsNoUpdate() bool {
	return v.kind == verdictNoUpdate
}

// wantsResourceReplace reports whether the verdict requires a
// ReplaceWithLock call.
func (v Verdict[T]) wantsResourceReplace() bool {
	return v.kind == verdictUpdateResource || v.kind == verdictUpdateResourceAndStatus
}

// wantsStatusUpdate reports whether the verdict requires an UpdateStatus
// call after any resource replace has been applied.
func (v Verdict[T]) wantsStatusUpdate() bool {
	return v.kind == verdictUpdateStatus || v.kind == verdictUpdateResourceAndStatus
}
