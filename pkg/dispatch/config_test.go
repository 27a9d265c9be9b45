package dispatch

import "testing"

func TestNewControllerConfigDefaults(t *testing.T) {
	cfg := NewControllerConfig("widgets")

	if cfg.CRDName != "widgets" {
		t.Fatalf("expected CRDName widgets, got %q", cfg.CRDName)
	}
	if cfg.FinalizerName != "widgets" {
		t.Fatalf("expected FinalizerName to default to CRDName, got %q", cfg.FinalizerName)
	}
	if !cfg.GenerationAware {
		t.Fatal("expected GenerationAware to default to true")
	}
}

func TestNewControllerConfigWithFinalizerName(t *testing.T) {
	cfg := NewControllerConfig("widgets", WithFinalizerName("widgets.example.com/finalizer"))

	if cfg.FinalizerName != "widgets.example.com/finalizer" {
		t.Fatalf("expected overridden finalizer name, got %q", cfg.FinalizerName)
	}
}

func TestNewControllerConfigWithGenerationAwareDisabled(t *testing.T) {
	cfg := NewControllerConfig("widgets", WithGenerationAware(false))

	if cfg.GenerationAware {
		t.Fatal("expected GenerationAware to be disabled")
	}
}
