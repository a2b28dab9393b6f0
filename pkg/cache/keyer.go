package cache

// Keyer builds cache keys for board data.
type Keyer interface {
	// BoardKey is the key of a stored board snapshot.
	BoardKey(boardID string) string
	// ListKey is the key of the board summary list.
	ListKey() string
}

// DefaultKeyer produces "board:<id>" and "boards" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BoardKey implements Keyer.
func (DefaultKeyer) BoardKey(boardID string) string { return "board:" + boardID }

// ListKey implements Keyer.
func (DefaultKeyer) ListKey() string { return "boards" }

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance.
//
//	keys := cache.NewScopedKeyer(nil, "staging:")
//	keys.BoardKey("b1") // "staging:board:b1"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BoardKey implements Keyer.
func (k *ScopedKeyer) BoardKey(boardID string) string { return k.prefix + k.inner.BoardKey(boardID) }

// ListKey implements Keyer.
func (k *ScopedKeyer) ListKey() string { return k.prefix + k.inner.ListKey() }
