package dispatch

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ObjectWithObservedGeneration is implemented by resources that surface
// status.observedGeneration. WithObservedGenerationSync uses it to mirror
// the GenerationCache's dedup decision into a visible status field,
// grounded on the teacher's updateObservedGeneration.
type ObjectWithObservedGeneration interface {
	client.Object

	GetObservedGeneration() int64
	SetObservedGeneration(generation int64)
}

// WithObservedGenerationSync makes the dispatcher set
// status.observedGeneration to metadata.generation after a successful
// reconcile path, for resources that implement
// ObjectWithObservedGeneration. This supplements, rather than replaces,
// GenerationCache: the cache is the in-memory dedup aid of §4.5, while
// this option gives operators a cluster-visible signal of the same fact,
// which the in-memory cache cannot survive a process restart to provide.
//
// When the callback's own verdict did not already request a status
// write, this issues one extra UpdateStatus call.
func WithObservedGenerationSync[T client.Object]() DispatcherOption[T] {
	return func(d *EventDispatcher[T]) {
		d.observedGenerationSync = true
	}
}

// syncObservedGeneration mirrors obj.GetGeneration() into
// status.observedGeneration if obj implements
// ObjectWithObservedGeneration and the two already differ. It returns
// true if a write is needed and was not already covered by verdictWroteStatus.
func syncObservedGeneration[T client.Object](obj T, verdictWroteStatus bool) (needsWrite bool) {
	owog, ok := any(obj).(ObjectWithObservedGeneration)
	if !ok {
		return false
	}
	if owog.GetObservedGeneration() == obj.GetGeneration() {
		return false
	}
	owog.SetObservedGeneration(obj.GetGeneration())
	return !verdictWroteStatus
}

func (d *EventDispatcher[T]) maybeSyncObservedGeneration(ctx context.Context, obj T, verdictWroteStatus bool) error {
	if !d.observedGenerationSync {
		return nil
	}
	if needsWrite := syncObservedGeneration(obj, verdictWroteStatus); needsWrite {
		_, err := d.facade.UpdateStatus(ctx, obj)
		return err
	}
	return nil
}
