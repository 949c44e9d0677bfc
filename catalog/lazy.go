package catalog

import "sync"

// Provider hands out a built catalog.
type Provider interface {
	Catalog() (*Catalog, error)
}

// Source returns the raw ground and top tile lists.
type Source func() (ground, top []Tile, err error)

// Lazy builds a catalog from its source on first use. Concurrent first
// callers wait for a single build; the result, or the error, is kept for the
// life of the Lazy.
type Lazy struct {
	src  Source
	once sync.Once
	cat  *Catalog
	err  error
}

// NewLazy returns a Lazy backed by src.
func NewLazy(src Source) *Lazy {
	return &Lazy{src: src}
}

// Catalog builds the catalog if needed and returns it.
func (l *Lazy) Catalog() (*Catalog, error) {
	l.once.Do(func() {
		ground, top, err := l.src()
		if err != nil {
			l.err = err
			return
		}
		l.cat = Build(ground, top)
	})
	return l.cat, l.err
}
