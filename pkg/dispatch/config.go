package dispatch

// ControllerConfig is the immutable declaration surface that wires a
// Callback into a dispatcher. It mirrors the three recognized options of
// the original framework's build-time controller annotation, accepted
// here as a plain record rather than through reflection or code
// generation — the core needs neither.
type ControllerConfig struct {
	// CRDName is the custom resource kind this dispatcher handles.
	CRDName string

	// FinalizerName is the finalizer added to managed resources.
	// Defaults to CRDName when left empty.
	FinalizerName string

	// GenerationAware enables the generation gate described in spec §4.5.
	// Defaults to true.
	GenerationAware bool
}

// ConfigOption customizes a ControllerConfig built by NewControllerConfig.
type ConfigOption func(*ControllerConfig)

// WithFinalizerName overrides the default finalizer name (which is
// otherwise CRDName).
func WithFinalizerName(name string) ConfigOption {
	return func(c *ControllerConfig) { c.FinalizerName = name }
}

// WithGenerationAware explicitly sets whether the generation gate is
// enabled. NewControllerConfig already defaults this to true; this option
// exists to turn it off.
func WithGenerationAware(enabled bool) ConfigOption {
	return func(c *ControllerConfig) { c.GenerationAware = enabled }
}

// NewControllerConfig builds a ControllerConfig for crdName, applying
// FinalizerName = crdName and GenerationAware = true before any options
// run.
func NewControllerConfig(crdName string, opts ...ConfigOption) ControllerConfig {
	cfg := ControllerConfig{
		CRDName:         crdName,
		FinalizerName:   crdName,
		GenerationAware: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.FinalizerName == "" {
		cfg.FinalizerName = cfg.CRDName
	}
	return cfg
}
