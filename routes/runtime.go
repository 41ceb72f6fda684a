package routes

import "sync"

// backgroundSource is the Catalog's lazily populated slot holding this
// engine's own source text, exposed at /runtime/background.js. It is
// populated on first read by calling ownSource; once set, by that read or
// by replace, it is served as-is and ownSource is not called again. Each
// Catalog built by New gets its own empty slot, so the text does not carry
// over from one Catalog to the next.
type backgroundSource struct {
	ownSource func() (string, error)

	mu   sync.Mutex
	text string
	set  bool
}

func newBackgroundSource(ownSource func() (string, error)) *backgroundSource {
	return &backgroundSource{ownSource: ownSource}
}

func (b *backgroundSource) get() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.set {
		return b.text, nil
	}
	text, err := b.ownSource()
	if err != nil {
		return "", err
	}
	b.text = text
	b.set = true
	return b.text, nil
}

// replace installs new source text directly, as the background.js route's
// setter does after an edit.
func (b *backgroundSource) replace(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.set = true
}
