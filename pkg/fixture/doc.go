// Package fixture exposes the public contracts of the fixtures engine: the
// Identifier value type, the reference string grammar, and the Factory,
// Resolver, and Loader interfaces. The engine implementation lives under
// internal/loader to keep yaml and template dependencies hidden from
// consumers.
package fixture
