package cache

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey returns the key for an artifact rendered from the document
	// whose hash is docHash.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the output.
type RenderKeyOpts struct {
	Engine string `json:"engine"`
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey hashes the document hash with the options.
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}
