package dispatch

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestClientFacadeReplaceWithLock(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
		Data:       map[string]string{"phase": "pending"},
	}
	fc := fake.NewClientBuilder().WithObjects(cm).Build()
	facade := NewClientFacade[*corev1.ConfigMap](fc)

	cm.Data["phase"] = "ready"
	updated, err := facade.ReplaceWithLock(context.Background(), cm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Data["phase"] != "ready" {
		t.Fatalf("expected persisted phase to be ready, got %q", updated.Data["phase"])
	}
}

func TestClientFacadeReplaceWithLockConflictIsTransient(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
	}
	fc := fake.NewClientBuilder().WithObjects(cm).Build()
	facade := NewClientFacade[*corev1.ConfigMap](fc)

	stale := cm.DeepCopy()
	stale.ResourceVersion = "stale"
	_, err := facade.ReplaceWithLock(context.Background(), stale)
	if err == nil {
		t.Fatal("expected a conflict error from a stale resourceVersion")
	}
	if ClassifyError(err) != ErrorTransient {
		t.Fatalf("expected conflict to classify as transient, got %v", ClassifyError(err))
	}
}

func TestClientFacadeUpdateStatus(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
	}
	fc := fake.NewClientBuilder().WithObjects(pod).Build()
	facade := NewClientFacade[*corev1.Pod](fc)

	pod.Status.Phase = corev1.PodRunning
	updated, err := facade.UpdateStatus(context.Background(), pod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status.Phase != corev1.PodRunning {
		t.Fatalf("expected persisted phase Running, got %q", updated.Status.Phase)
	}
}

func TestClientFacadeReplaceWithLockPropagatesNonConflictErrors(t *testing.T) {
	fc := fake.NewClientBuilder().Build()
	facade := NewClientFacade[*corev1.ConfigMap](fc)

	missing := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "absent", Namespace: "default"}}
	_, err := facade.ReplaceWithLock(context.Background(), missing)
	if err == nil {
		t.Fatal("expected an error updating a nonexistent object")
	}
	if !apierrors.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}
