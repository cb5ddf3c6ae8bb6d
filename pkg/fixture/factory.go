package fixture

// Factory turns raw fixture data into concrete model instances. The engine
// stays agnostic about what an instance is (database row, in-memory struct);
// implementations own object identity, persistence, and commit semantics.
type Factory interface {
	// CreateOrUpdate materializes the record named by the identifier from its
	// raw attribute mapping, upserting when the instance already exists.
	CreateOrUpdate(id Identifier, data map[string]any) (any, error)

	// MaybeConvertValues gives the factory a chance to transform raw values
	// before construction, typically resolving reference strings embedded in
	// fixture data through the engine's Resolver. Implementations with no
	// conversion return data unchanged.
	MaybeConvertValues(id Identifier, data map[string]any) (map[string]any, error)

	// Commit flushes any pending work. The engine calls it exactly once per
	// CreateAll/GetModels batch and once per Create call.
	Commit() error
}

// Resolver is the loader facet handed to factories so they can resolve
// reference strings found inside fixture data back into model instances.
type Resolver interface {
	// ConvertIdentifiers resolves a reference string, Identifier, or list of
	// either. Scalar input yields a bare instance, list input a []any.
	ConvertIdentifiers(refs any) (any, error)

	// ConvertIdentifier resolves a single reference string. It returns a bare
	// instance when the string names one record, a []any when it names
	// several.
	ConvertIdentifier(ref string) (any, error)
}

// ResolverBinder is implemented by factories that need the engine's Resolver.
// The engine binds itself during construction, before any source is loaded.
type ResolverBinder interface {
	BindResolver(r Resolver)
}
