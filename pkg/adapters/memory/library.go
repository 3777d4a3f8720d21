package memory

// Library implements ports.ContentLibrary from a flat map of hierarchical
// keys to text blocks. It is read-only after construction.
type Library struct {
	blocks map[string]string
}

// NewLibrary creates a content library from the given blocks.
func NewLibrary(blocks map[string]string) *Library {
	copied := make(map[string]string, len(blocks))
	for k, v := range blocks {
		copied[k] = v
	}
	return &Library{blocks: copied}
}

// Lookup returns the text block at key.
func (l *Library) Lookup(key string) (string, bool) {
	text, ok := l.blocks[key]
	return text, ok
}
