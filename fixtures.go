// Package fixtures loads declarative, Jinja-templated YAML fixtures,
// resolves cross-references written in a compact string grammar
// ("User(alice, bob)"), and hands resolved records to a pluggable Factory
// that turns them into concrete model instances. Sources load lazily, one
// file per class, so test suites only materialize what they reference.
package fixtures

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/goliatone/go-fixtures/internal/gotemplate"
	internalLoader "github.com/goliatone/go-fixtures/internal/loader"
	"github.com/goliatone/go-fixtures/pkg/fixture"
)

// Identifier names one fixture record; alias exported via the root package
// for convenience.
type Identifier = fixture.Identifier

// Factory is the capability set the engine drives to construct models.
type Factory = fixture.Factory

// Resolver is the loader facet handed to factories for reference callbacks.
type Resolver = fixture.Resolver

// Loader is the fixture-graph engine contract.
type Loader = fixture.Loader

// ModelSet maps fixture keys to constructed instances.
type ModelSet = fixture.ModelSet

// Option configures the loader.
type Option = fixture.LoaderOption

// New constructs a Loader over a fixtures directory. When the caller has not
// supplied a customized template environment, a pongo2 environment is
// auto-configured over the directory with a seeded faker global so rendered
// fixture data is reproducible across runs.
func New(factory fixture.Factory, fixturesDir string, options ...Option) (Loader, error) {
	cfg := fixture.NewLoaderOptions(options...)

	if cfg.TemplateEngine == nil {
		env, err := defaultTemplateEngine(fixturesDir, cfg)
		if err != nil {
			return nil, err
		}
		cfg.TemplateEngine = env
	}

	engine, err := internalLoader.New(factory, fixturesDir, cfg)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// NewTemplateEngine builds the pongo2-backed template environment directly,
// for callers that want to customize it before passing it back through
// WithTemplateEngine.
func NewTemplateEngine(options ...gotemplate.Option) (fixture.TemplateRenderer, error) {
	env, err := gotemplate.New(options...)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// ParseReferences exposes the reference grammar at the root for callers that
// only need identifier parsing.
func ParseReferences(s string) []Identifier {
	return fixture.ParseReferences(s)
}

func defaultTemplateEngine(fixturesDir string, cfg fixture.LoaderOptions) (fixture.TemplateRenderer, error) {
	engineOpts := []gotemplate.Option{
		gotemplate.WithExtension(cfg.Extension),
	}
	switch {
	case cfg.FileSystem != nil:
		engineOpts = append(engineOpts, gotemplate.WithFS(cfg.FileSystem))
	case fixturesDir != "":
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(fixturesDir))
	default:
		return nil, fmt.Errorf("fixtures: need a fixtures directory or fs.FS")
	}

	globals := map[string]any{
		"faker": gofakeit.New(cfg.Seed),
	}
	for key, value := range cfg.GlobalData {
		globals[key] = value
	}
	engineOpts = append(engineOpts, gotemplate.WithGlobalData(globals))

	if len(cfg.TemplateFuncs) > 0 {
		engineOpts = append(engineOpts, gotemplate.WithTemplateFuncs(cfg.TemplateFuncs))
	}

	env, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("fixtures: build template environment: %w", err)
	}
	return env, nil
}
