package cache

// Keyer generates cache keys for each cached value kind.
type Keyer interface {
	// ReferenceKey identifies the cytoband reference of a genome build.
	ReferenceKey(build string) string

	// LayoutKey identifies the layout of a case.
	LayoutKey(caseHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	Build         string   `json:"build"`
	ReferenceHash string   `json:"reference_hash,omitempty"`
	ViewportWidth int      `json:"viewport_width"`
	IdeogramBase  string   `json:"ideogram_base,omitempty"`
	Marks         []string `json:"marks,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	CaseID  string  `json:"case_id,omitempty"`
	Markers bool    `json:"markers,omitempty"`
	Title   string  `json:"title,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReferenceKey returns "reference:<build>".
func (DefaultKeyer) ReferenceKey(build string) string {
	return "reference:" + build
}

// LayoutKey hashes the case hash together with the options.
func (DefaultKeyer) LayoutKey(caseHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", caseHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
