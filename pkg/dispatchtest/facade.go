package dispatchtest

import (
	"context"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// FakeFacade is an in-memory dispatch.ResourceFacade[T] with call tracking
// and error injection, grounded on streamlinetest.FakeClient's
// With*Error/*Calls idiom.
type FakeFacade[T client.Object] struct {
	mu sync.Mutex

	replaceWithLockErr error
	updateStatusErr    error

	replaceWithLockCalls []T
	updateStatusCalls    []T
}

// NewFakeFacade builds an empty FakeFacade.
func NewFakeFacade[T client.Object]() *FakeFacade[T] {
	return &FakeFacade[T]{}
}

// WithReplaceWithLockError makes every future ReplaceWithLock call fail
// with err.
func (f *FakeFacade[T]) WithReplaceWithLockError(err error) *FakeFacade[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceWithLockErr = err
	return f
}

// WithUpdateStatusError makes every future UpdateStatus call fail with err.
func (f *FakeFacade[T]) WithUpdateStatusError(err error) *FakeFacade[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateStatusErr = err
	return f
}

// ReplaceWithLock implements dispatch.ResourceFacade.
func (f *FakeFacade[T]) ReplaceWithLock(ctx context.Context, obj T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceWithLockCalls = append(f.replaceWithLockCalls, obj.DeepCopyObject().(T))
	if f.replaceWithLockErr != nil {
		return obj, f.replaceWithLockErr
	}
	return obj, nil
}

// UpdateStatus implements dispatch.ResourceFacade.
func (f *FakeFacade[T]) UpdateStatus(ctx context.Context, obj T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateStatusCalls = append(f.updateStatusCalls, obj.DeepCopyObject().(T))
	if f.updateStatusErr != nil {
		return obj, f.updateStatusErr
	}
	return obj, nil
}

// ReplaceWithLockCalls returns every resource passed to ReplaceWithLock, in
// call order.
func (f *FakeFacade[T]) ReplaceWithLockCalls() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.replaceWithLockCalls...)
}

// UpdateStatusCalls returns every resource passed to UpdateStatus, in call
// order.
func (f *FakeFacade[T]) UpdateStatusCalls() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.updateStatusCalls...)
}

// ClearCalls resets all recorded calls without touching injected errors.
func (f *FakeFacade[T]) ClearCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceWithLockCalls = nil
	f.updateStatusCalls = nil
}
