package dispatch

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// widgetWithObservedGeneration embeds a real client.Object so it keeps
// satisfying the interface, and adds the two accessors
// ObjectWithObservedGeneration requires.
type widgetWithObservedGeneration struct {
	corev1.ConfigMap
	observedGeneration int64
}

func (w *widgetWithObservedGeneration) GetObservedGeneration() int64 { return w.observedGeneration }
func (w *widgetWithObservedGeneration) SetObservedGeneration(g int64) {
	w.observedGeneration = g
}

func TestSyncObservedGenerationUpdatesWhenBehind(t *testing.T) {
	obj := &widgetWithObservedGeneration{
		ConfigMap:          corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Generation: 5}},
		observedGeneration: 3,
	}

	needsWrite := syncObservedGeneration[*widgetWithObservedGeneration](obj, false)
	if !needsWrite {
		t.Fatal("expected a pending status write when observedGeneration trails generation")
	}
	if obj.observedGeneration != 5 {
		t.Fatalf("expected observedGeneration synced to 5, got %d", obj.observedGeneration)
	}
}

func TestSyncObservedGenerationSkipsWhenVerdictAlreadyWroteStatus(t *testing.T) {
	obj := &widgetWithObservedGeneration{
		ConfigMap:          corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Generation: 5}},
		observedGeneration: 3,
	}

	needsWrite := syncObservedGeneration[*widgetWithObservedGeneration](obj, true)
	if needsWrite {
		t.Fatal("expected no extra write when the verdict already updated status")
	}
	if obj.observedGeneration != 5 {
		t.Fatal("expected the in-memory field to still be synced even without an extra write")
	}
}

func TestSyncObservedGenerationNoopWhenAlreadyCurrent(t *testing.T) {
	obj := &widgetWithObservedGeneration{
		ConfigMap:          corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Generation: 5}},
		observedGeneration: 5,
	}

	if syncObservedGeneration[*widgetWithObservedGeneration](obj, false) {
		t.Fatal("expected no write when observedGeneration already matches generation")
	}
}

func TestSyncObservedGenerationIgnoresObjectsWithoutTheInterface(t *testing.T) {
	obj := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Generation: 5}}
	if syncObservedGeneration[*corev1.ConfigMap](obj, false) {
		t.Fatal("expected no write for an object that does not implement ObjectWithObservedGeneration")
	}
}
