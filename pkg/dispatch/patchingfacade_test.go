package dispatch

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
)

func TestPatchingFacadeReplaceWithLock(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
		Data:       map[string]string{"phase": "pending"},
	}
	fc := fake.NewClientBuilder().WithObjects(cm).Build()
	facade := NewPatchingFacade[*corev1.ConfigMap](fc)

	cm.Data["phase"] = "ready"
	updated, err := facade.ReplaceWithLock(context.Background(), cm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Data["phase"] != "ready" {
		t.Fatalf("expected persisted phase to be ready, got %q", updated.Data["phase"])
	}
}

func TestPatchingFacadeReplaceWithLockConflictIsTransient(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
	}
	fc := fake.NewClientBuilder().WithObjects(cm).Build()
	facade := NewPatchingFacade[*corev1.ConfigMap](fc)

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

func TestPatchingFacadeUpdateStatus(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
	}
	fc := fake.NewClientBuilder().WithObjects(pod).Build()
	facade := NewPatchingFacade[*corev1.Pod](fc)

	pod.Status.Phase = corev1.PodRunning
	updated, err := facade.UpdateStatus(context.Background(), pod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status.Phase != corev1.PodRunning {
		t.Fatalf("expected persisted phase Running, got %q", updated.Status.Phase)
	}
}

func TestPatchingFacadeUpdateStatusPropagatesNotFound(t *testing.T) {
	fc := fake.NewClientBuilder().Build()
	facade := NewPatchingFacade[*corev1.Pod](fc)

	missing := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "absent", Namespace: "default"}}
	_, err := facade.UpdateStatus(context.Background(), missing)
	if err == nil {
		t.Fatal("expected an error fetching the original of a nonexistent object")
	}
	if !apierrors.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestPatchingFacadeUpdateStatusConflictIsTransient(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "widget-1", Namespace: "default"},
	}
	fc := fake.NewClientBuilder().WithObjects(pod).WithInterceptorFuncs(interceptor.Funcs{
		SubResourcePatch: func(ctx context.Context, c client.Client, subResourceName string, obj client.Object, patch client.Patch, opts ...client.SubResourcePatchOption) error {
			return apierrors.NewConflict(schema.GroupResource{Resource: "pods"}, obj.GetName(), errors.New("stale resourceVersion"))
		},
	}).Build()
	facade := NewPatchingFacade[*corev1.Pod](fc)

	pod.Status.Phase = corev1.PodRunning
	_, err := facade.UpdateStatus(context.Background(), pod)
	if err == nil {
		t.Fatal("expected a conflict error from the status patch")
	}
	if ClassifyError(err) != ErrorTransient {
		t.Fatalf("expected conflict to classify as transient, got %v", ClassifyError(err))
	}
}
