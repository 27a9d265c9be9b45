package dispatch

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// PatchingFacade is an alternative ResourceFacade that merge-patches
// instead of replacing under an optimistic lock, grounded on the
// teacher's patchStatus/MergeFrom approach in reconciler.go. Operators
// that prefer patch semantics (smaller writes, no conflict on unrelated
// concurrent edits) can pass this to NewEventDispatcher instead of the
// default NewClientFacade.
//
// ReplaceWithLock still issues a full client.Update, since the verdict
// that requests it explicitly wants optimistic-lock replace semantics;
// only UpdateStatus is patch-based here.
type PatchingFacade[T client.Object] struct {
	client client.Client
}

// NewPatchingFacade builds a PatchingFacade over c.
func NewPatchingFacade[T client.Object](c client.Client) *PatchingFacade[T] {
	return &PatchingFacade[T]{client: c}
}

func (f *PatchingFacade[T]) ReplaceWithLock(ctx context.Context, obj T) (T, error) {
	if err := f.client.Update(ctx, obj); err != nil {
		if apierrors.IsConflict(err) {
			return obj, Transient(err)
		}
		return obj, err
	}
	return obj, nil
}

// UpdateStatus fetches the stored object, computes a merge patch between
// it and obj's status, and applies only that diff. A conflict is returned
// as a Transient error, since a subsequent watch event will carry a
// fresher snapshot; any other error is returned unchanged.
func (f *PatchingFacade[T]) UpdateStatus(ctx context.Context, obj T) (T, error) {
	original, ok := obj.DeepCopyObject().(T)
	if !ok {
		return obj, Terminal(&MalformedVerdictError{Kind: "PatchingFacade.UpdateStatus"})
	}
	if err := f.client.Get(ctx, client.ObjectKeyFromObject(obj), original); err != nil {
		return obj, err
	}

	patch := client.MergeFrom(original)
	if err := f.client.Status().Patch(ctx, obj, patch); err != nil {
		if apierrors.IsConflict(err) {
			return obj, Transient(err)
		}
		return obj, err
	}
	return obj, nil
}
