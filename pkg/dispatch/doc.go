// Package dispatch implements the event-dispatch subsystem of a Kubernetes
// operator framework: the state machine that consumes custom-resource
// events, enforces finalizer discipline, invokes a user-supplied
// reconciliation callback, interprets its verdict, persists resulting
// mutations back to the cluster, and deduplicates work using a per-resource
// generation cache.
//
// # Philosophy
//
// The package encodes the non-obvious parts of the Kubernetes reconciliation
// protocol — finalizers, deletion timestamps, the status subresource,
// resourceVersion conflicts, generation tracking — once, correctly, so a
// callback implementation only has to express business logic.
//
// # Basic usage
//
// Implement Callback for your resource type:
//
//	type widgetCallback struct{}
//
//	func (c *widgetCallback) CreateOrUpdate(ctx context.Context, w *v1.Widget, rctx *dispatch.Context) (dispatch.Verdict[*v1.Widget], error) {
//	    w.Status.Phase = "Ready"
//	    return dispatch.UpdateStatus(w), nil
//	}
//
//	func (c *widgetCallback) Delete(ctx context.Context, w *v1.Widget, rctx *dispatch.Context) (bool, error) {
//	    return true, nil // cleanup complete, finalizer can be removed
//	}
//
// Wire it into a dispatcher and hand events to HandleEvent; see
// NewEventDispatcher and ReconcilerAdapter for the controller-runtime glue
// that produces those events from a watch.
package dispatch
