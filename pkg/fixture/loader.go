package fixture

import "fmt"

// Loader is the fixture-graph engine contract. Implementations load templated
// sources on demand, cache raw records per class, and delegate instance
// construction to the configured Factory.
//
// Loaders are single-threaded by design: the source cache is owned, mutable
// state. Use one Loader per goroutine or synchronize externally.
type Loader interface {
	Resolver

	// GetModels resolves and constructs the referenced models (all known
	// models when no refs are given) and returns them keyed for
	// attribute-style access.
	GetModels(refs ...any) (ModelSet, error)

	// CreateAll constructs the referenced models, or every model in the
	// fixtures directory when no refs are given. The Factory's Commit runs
	// exactly once, after the whole batch.
	CreateAll(refs ...any) (map[string]any, error)

	// Create constructs a single model and commits immediately. It accepts
	// either a (class name, key) pair or a single reference string, and
	// requires the backing source to already be loaded.
	Create(classOrRef string, key ...string) (any, error)

	// EnsureLoaded guarantees the sources for the given classes (all sources
	// when none are given) have been parsed into the cache exactly once.
	EnsureLoaded(classNames ...string) error

	// Known returns the identifiers of every loaded record in declaration
	// order: keys in file order, files in directory order.
	Known() []Identifier
}

// ModelSet maps fixture keys to constructed instances, the result shape of
// GetModels.
type ModelSet map[string]any

// Get returns the instance for key, or nil when absent.
func (m ModelSet) Get(key string) any {
	return m[key]
}

// Has reports whether an instance exists for key.
func (m ModelSet) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Must returns the instance for key and panics when absent. Useful in tests
// and fixtures-driven setup code where a missing key is a programming error.
func (m ModelSet) Must(key string) any {
	v, ok := m[key]
	if !ok {
		panic(fmt.Sprintf("fixture: no model for key %q", key))
	}
	return v
}
