package fixture

import (
	"io/fs"
	"log"
	"strings"
)

// DefaultSeed seeds the fake-data template global so rendered fixture data is
// reproducible across runs.
const DefaultSeed uint64 = 1234

// DefaultExtension is the template extension assumed for fixture sources.
const DefaultExtension = ".yaml"

// DuplicatePolicy decides what happens when two source files declare the same
// fixture key. The cache contract is first-load-wins: a key, once present, is
// never overwritten.
type DuplicatePolicy int

const (
	// DuplicateError fails the load, naming both declaring classes.
	DuplicateError DuplicatePolicy = iota

	// DuplicateWarn keeps the first-loaded record and reports the collision
	// through the warn hook.
	DuplicateWarn

	// DuplicateIgnore keeps the first-loaded record silently.
	DuplicateIgnore
)

// LoaderOptions configures a Loader. Collect them with NewLoaderOptions so
// implementations stay consistent about defaults.
type LoaderOptions struct {
	// TemplateEngine renders fixture sources. When nil the engine
	// auto-configures a pongo2 environment over the fixtures directory with a
	// seeded faker global.
	TemplateEngine TemplateRenderer

	// FileSystem overrides direct directory access; useful for embedded or
	// in-memory fixture sets.
	FileSystem fs.FS

	// Extension is the template extension for fixture sources.
	Extension string

	// Seed feeds the fake-data global of the default template environment.
	Seed uint64

	// Duplicates selects the duplicate-key policy.
	Duplicates DuplicatePolicy

	// Warnf receives diagnostics the engine does not treat as fatal.
	Warnf func(format string, args ...any)

	// GlobalData seeds extra globals into the default template environment.
	GlobalData map[string]any

	// TemplateFuncs registers helper functions with the default template
	// environment.
	TemplateFuncs map[string]any
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// NewLoaderOptions applies options over the defaults and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{
		Extension: DefaultExtension,
		Seed:      DefaultSeed,
		Warnf:     log.Printf,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithTemplateEngine injects a custom template environment. Custom engines
// bring their own globals; the seeded faker is only installed into the
// default environment.
func WithTemplateEngine(env TemplateRenderer) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.TemplateEngine = env
	}
}

// WithFileSystem reads fixture sources from an fs.FS instead of the
// operating system directory.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithExtension overrides the fixture template extension.
func WithExtension(ext string) LoaderOption {
	return func(opts *LoaderOptions) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		opts.Extension = trimmed
	}
}

// WithSeed overrides the fake-data seed for the default template environment.
func WithSeed(seed uint64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Seed = seed
	}
}

// WithDuplicatePolicy selects how duplicate keys across source files are
// handled.
func WithDuplicatePolicy(policy DuplicatePolicy) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Duplicates = policy
	}
}

// WithWarnFunc replaces the warn hook. Pass a no-op to silence diagnostics.
func WithWarnFunc(fn func(format string, args ...any)) LoaderOption {
	return func(opts *LoaderOptions) {
		if fn != nil {
			opts.Warnf = fn
		}
	}
}

// WithGlobalData seeds additional globals into the default template
// environment, available to every fixture source.
func WithGlobalData(data map[string]any) LoaderOption {
	return func(opts *LoaderOptions) {
		if len(data) == 0 {
			return
		}
		if opts.GlobalData == nil {
			opts.GlobalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			opts.GlobalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithTemplateFuncs registers helper functions with the default template
// environment.
func WithTemplateFuncs(funcs map[string]any) LoaderOption {
	return func(opts *LoaderOptions) {
		if len(funcs) == 0 {
			return
		}
		if opts.TemplateFuncs == nil {
			opts.TemplateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			opts.TemplateFuncs[strings.TrimSpace(name)] = fn
		}
	}
}
