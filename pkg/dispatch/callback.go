package dispatch

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Callback carries the business logic for a resource T. Implement it to
// react to creates, updates, and deletes of a custom resource; the
// dispatcher owns every other part of the lifecycle (finalizer injection,
// generation dedup, persistence, retry).
type Callback[T client.Object] interface {
	// CreateOrUpdate is invoked for Added and Modified events once the
	// resource has passed the generation gate and the dispatcher's
	// finalizer has been injected. obj is never being deleted at the
	// time of this call.
	//
	// The returned Verdict tells the dispatcher what, if anything, to
	// persist; see verdict.go for the constructors. A non-nil error
	// short-circuits persistence entirely and is propagated per §7 —
	// wrap it with Permanent or Terminal to change its retry behavior.
	CreateOrUpdate(ctx context.Context, obj T, rctx *Context) (Verdict[T], error)

	// Delete is invoked for each event on a resource marked for deletion
	// that still carries the dispatcher's finalizer, before the
	// dispatcher removes it. Returning true tells the dispatcher cleanup
	// is complete and the finalizer may be removed; returning false
	// leaves the finalizer in place so the next Added or Modified event
	// for the terminating resource retries cleanup. Deleted events never
	// reach Delete.
	Delete(ctx context.Context, obj T, rctx *Context) (bool, error)
}

// PostDeleteHook is an optional callback invoked in two places: right after
// the delete path has removed the dispatcher's finalizer and persisted
// that edit, and for every Deleted event, whose object is already gone
// from the API server. Unlike Callback.Delete, it cannot block deletion;
// it returns nothing, so it can neither fail nor retry the event.
type PostDeleteHook[T client.Object] func(ctx context.Context, obj T, rctx *Context)
