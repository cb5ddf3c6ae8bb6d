package fixture

import "errors"

var (
	// ErrUnknownKey marks a requested key with no raw data in the cache after
	// its class's source was loaded.
	ErrUnknownKey = errors.New("fixture: unknown key")

	// ErrUnresolvedClass marks a bare key whose class cannot be inferred
	// because no loaded source declares it.
	ErrUnresolvedClass = errors.New("fixture: unresolved class")

	// ErrMissingClassName marks an identifier that reached construction with
	// no class name. Flattening guarantees a resolvable class, so hitting
	// this is a usage error.
	ErrMissingClassName = errors.New("fixture: identifier has no class name")

	// ErrDuplicateKey marks a key declared by more than one source file.
	// Surfaced under DuplicateError; downgraded to the warn hook under
	// DuplicateWarn.
	ErrDuplicateKey = errors.New("fixture: duplicate key")

	// ErrUnsupportedReference marks a reference list element that is neither
	// a string nor an Identifier.
	ErrUnsupportedReference = errors.New("fixture: unsupported reference element type")
)
