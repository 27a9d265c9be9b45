package dispatchtest

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/lattice-controllers/dispatch/pkg/dispatch"
)

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

// AssertRetryable fails the test unless err classifies as retryable or
// transient.
func AssertRetryable(t *testing.T, err error) {
	t.Helper()
	if !dispatch.IsRetryable(err) {
		t.Fatalf("expected a retryable error, got %v (classification %v)", err, dispatch.ClassifyError(err))
	}
}

// AssertTerminal fails the test unless err classifies as terminal.
func AssertTerminal(t *testing.T, err error) {
	t.Helper()
	if !dispatch.IsTerminal(err) {
		t.Fatalf("expected a terminal error, got %v (classification %v)", err, dispatch.ClassifyError(err))
	}
}

// AssertNoUpdate fails the test unless verdict is a NoUpdate verdict.
func AssertNoUpdate[T client.Object](t *testing.T, verdict dispatch.Verdict[T]) {
	t.Helper()
	if !verdict.IsNoUpdate() {
		t.Fatalf("expected a NoUpdate verdict, got one carrying %v", verdict.Resource())
	}
}

// AssertVerdictApplied fails the test unless the façade recorded exactly
// wantReplace ReplaceWithLock calls and wantStatus UpdateStatus calls.
func AssertVerdictApplied[T client.Object](t *testing.T, facade *FakeFacade[T], wantReplace, wantStatus int) {
	t.Helper()
	if got := len(facade.ReplaceWithLockCalls()); got != wantReplace {
		t.Fatalf("expected %d ReplaceWithLock calls, got %d", wantReplace, got)
	}
	if got := len(facade.UpdateStatusCalls()); got != wantStatus {
		t.Fatalf("expected %d UpdateStatus calls, got %d", wantStatus, got)
	}
}

// AssertNoMutation fails the test unless the façade recorded no calls at
// all.
func AssertNoMutation[T client.Object](t *testing.T, facade *FakeFacade[T]) {
	t.Helper()
	AssertVerdictApplied(t, facade, 0, 0)
}

// AssertMarkedProcessed fails the test unless cache reports generation as
// already processed for uid (i.e. a further ShouldProcess call for the
// same generation returns false).
func AssertMarkedProcessed(t *testing.T, cache dispatch.GenerationCache, uid dispatch.UID, generation int64) {
	t.Helper()
	if cache.ShouldProcess(uid, generation) {
		t.Fatalf("expected generation %d for uid %s to already be marked processed", generation, uid)
	}
}

// AssertNormalEvent fails the test unless ctx recorded a Normal event with
// the given reason.
func AssertNormalEvent(t *testing.T, ctx *dispatch.Context, reason string) {
	t.Helper()
	assertEventRecorded(t, ctx, corev1.EventTypeNormal, reason)
}

// AssertWarningEvent fails the test unless ctx recorded a Warning event
// with the given reason.
func AssertWarningEvent(t *testing.T, ctx *dispatch.Context, reason string) {
	t.Helper()
	assertEventRecorded(t, ctx, corev1.EventTypeWarning, reason)
}

func assertEventRecorded(t *testing.T, ctx *dispatch.Context, eventType, reason string) {
	t.Helper()
	for _, e := range EventsOf(ctx) {
		if e.Type == eventType && e.Reason == reason {
			return
		}
	}
	t.Fatalf("expected a %s event with reason %q, got %+v", eventType, reason, EventsOf(ctx))
}

// AssertNoEvents fails the test unless ctx recorded no events at all.
func AssertNoEvents(t *testing.T, ctx *dispatch.Context) {
	t.Helper()
	if events := EventsOf(ctx); len(events) != 0 {
		t.Fatalf("expected no recorded events, got %+v", events)
	}
}
