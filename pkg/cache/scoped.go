package cache

// ScopedKeyer wraps a Keyer with a prefix. This is useful when several
// deployments (e.g. staging and production) share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReferenceKey generates a prefixed key for cytoband reference caching.
func (k *ScopedKeyer) ReferenceKey(build string) string {
	return k.prefix + k.inner.ReferenceKey(build)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(caseHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(caseHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
