package fixture

// Identifier names one fixture record as a (class name, key) pair. A zero
// ClassName means the class is not yet known and must be inferred from
// previously loaded sources during flattening. Identifiers are plain values;
// copy them freely.
type Identifier struct {
	ClassName string
	Key       string
}

// NewIdentifier constructs an Identifier from a class name and key.
func NewIdentifier(className, key string) Identifier {
	return Identifier{ClassName: className, Key: key}
}

// LookupKey returns the cache lookup key. Keys are globally unique across
// classes, so the key alone determines the record.
func (i Identifier) LookupKey() string {
	return i.Key
}

// Known reports whether the identifier carries an explicit class name.
func (i Identifier) Known() bool {
	return i.ClassName != ""
}

// String renders the identifier in reference-grammar form: "Class(key)" when
// the class is known, the bare key otherwise.
func (i Identifier) String() string {
	if i.ClassName == "" {
		return i.Key
	}
	return i.ClassName + "(" + i.Key + ")"
}
