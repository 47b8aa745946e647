package clip

// Library stores clip sources by key so authored state machine definitions
// can reference clips by name.
type Library struct {
	clips map[string]Source
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{clips: make(map[string]Source)}
}

// Register adds a clip source to the library, replacing any previous entry
// with the same key. Empty keys and nil sources are ignored.
//
// Parameters:
//   - key: the clip name used by authored definitions
//   - src: the clip source
func (l *Library) Register(key string, src Source) {
	if l == nil || key == "" || src == nil {
		return
	}
	l.clips[key] = src
}

// Get returns a clip source by key.
//
// Parameters:
//   - key: the clip name
//
// Returns:
//   - Source: the registered source, or nil when absent
//   - bool: true when the key was found
func (l *Library) Get(key string) (Source, bool) {
	if l == nil || key == "" {
		return nil, false
	}
	src, ok := l.clips[key]
	return src, ok
}
