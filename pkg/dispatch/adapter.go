package dispatch

import (
	"context"
	"reflect"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ReconcilerAdapter turns an EventDispatcher into a controller-runtime
// reconcile.Reconciler, so the dispatcher's watch-agnostic core can be
// driven by a real controller-manager without pkg/dispatch importing
// controller-runtime's controller package itself.
//
// Every call to Reconcile fetches the current object, infers an Action
// (NotFound becomes Deleted; anything else becomes Modified — the
// dispatcher treats Added and Modified identically per §4.4, so the
// adapter never needs to distinguish them), and hands the result to
// HandleEvent. A retryable error from HandleEvent is translated into a
// requeue at the delay its RetryPolicy reports for the attempt; an
// exhausted or non-retryable error is returned to controller-runtime as
// is, which logs it and stops requeuing.
type ReconcilerAdapter[T client.Object] struct {
	dispatcher *EventDispatcher[T]
	client     client.Client
	objType    reflect.Type

	attemptsMu sync.Mutex
	attempts   map[client.ObjectKey]int
}

// NewReconcilerAdapter builds an adapter over dispatcher, using c to fetch
// the current object for each reconcile request.
func NewReconcilerAdapter[T client.Object](dispatcher *EventDispatcher[T], c client.Client) *ReconcilerAdapter[T] {
	var zero T
	return &ReconcilerAdapter[T]{
		dispatcher: dispatcher,
		client:     c,
		objType:    reflect.TypeOf(zero).Elem(),
		attempts:   make(map[client.ObjectKey]int),
	}
}

// newObject allocates a fresh zero-value T to populate via client.Get. T is
// constrained to client.Object and is conventionally a pointer type, so
// reflection is used the same way the teacher's GenericReconciler
// instantiates T.
func (a *ReconcilerAdapter[T]) newObject() T {
	return reflect.New(a.objType).Interface().(T)
}

// Reconcile implements reconcile.Reconciler.
func (a *ReconcilerAdapter[T]) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	obj := a.newObject()

	if err := a.client.Get(ctx, req.NamespacedName, obj); err != nil {
		if !apierrors.IsNotFound(err) {
			return ctrl.Result{}, err
		}
		a.forgetAttempts(req.NamespacedName)
		return ctrl.Result{}, a.dispatcher.HandleEvent(ctx, NewEvent(Deleted, obj, nil))
	}

	event := NewEvent(Modified, obj, nil)
	err := a.dispatcher.HandleEvent(ctx, event)
	if err == nil {
		a.forgetAttempts(req.NamespacedName)
		return ctrl.Result{}, nil
	}

	if !IsRetryable(err) {
		a.forgetAttempts(req.NamespacedName)
		return ctrl.Result{}, err
	}

	attempt := a.incrementAttempts(req.NamespacedName)
	a.dispatcher.metrics.RecordRetry(a.dispatcher.cfg.CRDName, attempt)

	if delay := GetRetryAfter(err); delay > 0 {
		return ctrl.Result{RequeueAfter: delay}, nil
	}

	delay, ok := event.Retry.NextDelay(attempt)
	if !ok {
		a.forgetAttempts(req.NamespacedName)
		return ctrl.Result{}, err
	}
	return ctrl.Result{RequeueAfter: delay}, nil
}

// incrementAttempts and forgetAttempts guard the per-key retry counter the
// same way generationcache.go guards its per-uid map: a single mutex over
// the whole map, since controller-runtime's workqueue calls Reconcile
// concurrently across distinct NamespacedNames.
func (a *ReconcilerAdapter[T]) incrementAttempts(key client.ObjectKey) int {
	a.attemptsMu.Lock()
	defer a.attemptsMu.Unlock()
	a.attempts[key]++
	return a.attempts[key]
}

func (a *ReconcilerAdapter[T]) forgetAttempts(key client.ObjectKey) {
	a.attemptsMu.Lock()
	defer a.attemptsMu.Unlock()
	delete(a.attempts, key)
}
