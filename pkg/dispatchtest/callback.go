package dispatchtest

import (
	"context"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/lattice-controllers/dispatch/pkg/dispatch"
)

// FakeCallback is a scriptable dispatch.Callback[T], grounded on
// streamlinetest.FakeHandler[T]'s With*/Calls idiom.
type FakeCallback[T client.Object] struct {
	mu sync.Mutex

	createOrUpdateFn func(ctx context.Context, obj T, rctx *dispatch.Context) (dispatch.Verdict[T], error)
	deleteFn         func(ctx context.Context, obj T, rctx *dispatch.Context) (bool, error)

	createOrUpdateCalls []T
	deleteCalls         []T
}

// NewFakeCallback builds a FakeCallback whose CreateOrUpdate returns
// dispatch.NoUpdate[T]() and whose Delete returns true until overridden
// with WithCreateOrUpdate/WithDelete.
func NewFakeCallback[T client.Object]() *FakeCallback[T] {
	return &FakeCallback[T]{
		createOrUpdateFn: func(ctx context.Context, obj T, rctx *dispatch.Context) (dispatch.Verdict[T], error) {
			return dispatch.NoUpdate[T](), nil
		},
		deleteFn: func(ctx context.Context, obj T, rctx *dispatch.Context) (bool, error) {
			return true, nil
		},
	}
}

// WithCreateOrUpdate overrides CreateOrUpdate's behavior.
func (f *FakeCallback[T]) WithCreateOrUpdate(fn func(ctx context.Context, obj T, rctx *dispatch.Context) (dispatch.Verdict[T], error)) *FakeCallback[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createOrUpdateFn = fn
	return f
}

// WithDelete overrides Delete's behavior.
func (f *FakeCallback[T]) WithDelete(fn func(ctx context.Context, obj T, rctx *dispatch.Context) (bool, error)) *FakeCallback[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteFn = fn
	return f
}

// CreateOrUpdate implements dispatch.Callback.
func (f *FakeCallback[T]) CreateOrUpdate(ctx context.Context, obj T, rctx *dispatch.Context) (dispatch.Verdict[T], error) {
	f.mu.Lock()
	fn := f.createOrUpdateFn
	f.createOrUpdateCalls = append(f.createOrUpdateCalls, obj.DeepCopyObject().(T))
	f.mu.Unlock()
	return fn(ctx, obj, rctx)
}

// Delete implements dispatch.Callback.
func (f *FakeCallback[T]) Delete(ctx context.Context, obj T, rctx *dispatch.Context) (bool, error) {
	f.mu.Lock()
	fn := f.deleteFn
	f.deleteCalls = append(f.deleteCalls, obj.DeepCopyObject().(T))
	f.mu.Unlock()
	return fn(ctx, obj, rctx)
}

// CreateOrUpdateCalls returns every resource passed to CreateOrUpdate, in
// call order.
func (f *FakeCallback[T]) CreateOrUpdateCalls() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.createOrUpdateCalls...)
}

// DeleteCalls returns every resource passed to Delete, in call order.
func (f *FakeCallback[T]) DeleteCalls() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.deleteCalls...)
}
