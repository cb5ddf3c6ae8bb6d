package fixtures

import (
	"io/fs"

	"github.com/goliatone/go-fixtures/pkg/fixture"
)

// Option constructors re-exported at the root so most callers never import
// pkg/fixture directly.

// WithTemplateEngine injects a custom template environment.
func WithTemplateEngine(env fixture.TemplateRenderer) Option {
	return fixture.WithTemplateEngine(env)
}

// WithFileSystem reads fixture sources from an fs.FS.
func WithFileSystem(files fs.FS) Option {
	return fixture.WithFileSystem(files)
}

// WithExtension overrides the fixture template extension (default ".yaml").
func WithExtension(ext string) Option {
	return fixture.WithExtension(ext)
}

// WithSeed overrides the fake-data seed of the default template environment.
func WithSeed(seed uint64) Option {
	return fixture.WithSeed(seed)
}

// WithDuplicatePolicy selects how duplicate keys across sources are handled.
func WithDuplicatePolicy(policy fixture.DuplicatePolicy) Option {
	return fixture.WithDuplicatePolicy(policy)
}

// WithWarnFunc replaces the warn hook.
func WithWarnFunc(fn func(format string, args ...any)) Option {
	return fixture.WithWarnFunc(fn)
}

// WithGlobalData seeds extra globals into the default template environment.
func WithGlobalData(data map[string]any) Option {
	return fixture.WithGlobalData(data)
}

// WithTemplateFuncs registers helper functions with the default template
// environment.
func WithTemplateFuncs(funcs map[string]any) Option {
	return fixture.WithTemplateFuncs(funcs)
}

// Duplicate-key policies, re-exported.
const (
	DuplicateError  = fixture.DuplicateError
	DuplicateWarn   = fixture.DuplicateWarn
	DuplicateIgnore = fixture.DuplicateIgnore
)
