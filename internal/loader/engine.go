// Package loader implements the fixture.Loader contract: demand-driven
// loading of templated fixture sources, the per-class source cache, and the
// materialization protocol that hands resolved records to the Factory.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fixtures/pkg/fixture"
)

// Engine owns the source cache for one fixtures directory. It is not safe
// for concurrent use; run one Engine per goroutine.
type Engine struct {
	factory    fixture.Factory
	dir        string
	fsys       fs.FS
	env        fixture.TemplateRenderer
	duplicates fixture.DuplicatePolicy
	warnf      func(format string, args ...any)

	loadedClasses map[string]struct{}
	classNames    map[string]string
	rawFixtures   map[string]map[string]any
	keyOrder      []string
}

// Ensure the implementation satisfies the public contract.
var _ fixture.Loader = (*Engine)(nil)

// New constructs an Engine from pre-resolved options. The template engine
// must already be configured; the top-level fixtures package wires the
// default environment. Factories implementing fixture.ResolverBinder receive
// the engine's Resolver facet here, before any source is loaded.
func New(factory fixture.Factory, fixturesDir string, opts fixture.LoaderOptions) (*Engine, error) {
	if factory == nil {
		return nil, fmt.Errorf("fixture: factory is required")
	}
	if opts.TemplateEngine == nil {
		return nil, fmt.Errorf("fixture: template engine is required")
	}

	fsys := opts.FileSystem
	if fsys == nil {
		if fixturesDir == "" {
			return nil, fmt.Errorf("fixture: fixtures directory is required")
		}
		fsys = os.DirFS(fixturesDir)
	}

	warnf := opts.Warnf
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	e := &Engine{
		factory:    factory,
		dir:        fixturesDir,
		fsys:       fsys,
		env:        opts.TemplateEngine,
		duplicates: opts.Duplicates,
		warnf:      warnf,

		loadedClasses: make(map[string]struct{}),
		classNames:    make(map[string]string),
		rawFixtures:   make(map[string]map[string]any),
	}

	if binder, ok := factory.(fixture.ResolverBinder); ok {
		binder.BindResolver(e)
	}
	return e, nil
}

// GetModels resolves and constructs the referenced models, all known models
// when no refs are given.
func (e *Engine) GetModels(refs ...any) (fixture.ModelSet, error) {
	models, err := e.CreateAll(refs...)
	if err != nil {
		return nil, err
	}
	return fixture.ModelSet(models), nil
}

// CreateAll constructs the referenced models, or every model found in the
// fixtures directory when no refs are given. Commit runs exactly once, after
// the whole batch; a construction error aborts the call before Commit and
// already-built instances are not undone.
func (e *Engine) CreateAll(refs ...any) (map[string]any, error) {
	refs = compactRefs(refs)

	var (
		ids []fixture.Identifier
		err error
	)
	if len(refs) > 0 {
		ids, err = e.flatten(refs)
		if err != nil {
			return nil, err
		}
	} else {
		if err := e.loadAll(nil); err != nil {
			return nil, err
		}
		ids = e.Known()
	}

	models := make(map[string]any, len(ids))
	for _, id := range ids {
		instance, err := e.create(id)
		if err != nil {
			return nil, err
		}
		models[id.Key] = instance
	}

	if err := e.factory.Commit(); err != nil {
		return nil, fmt.Errorf("fixture: commit: %w", err)
	}
	return models, nil
}

// Create constructs a single model and commits immediately. Call it either
// as Create(className, key) or as Create(referenceString). The backing
// source must already be loaded.
func (e *Engine) Create(classOrRef string, key ...string) (any, error) {
	var id fixture.Identifier
	if len(key) > 0 && key[0] != "" {
		id = fixture.NewIdentifier(classOrRef, key[0])
	} else {
		parsed := fixture.ParseReferences(classOrRef)
		if len(parsed) == 0 || parsed[0].Key == "" {
			return nil, fmt.Errorf("fixture: empty reference %q", classOrRef)
		}
		id = parsed[0]
	}

	data, ok := e.rawFixtures[id.LookupKey()]
	if !ok {
		return nil, fmt.Errorf("fixture: no data for key %q (source not loaded?): %w",
			id.Key, fixture.ErrUnknownKey)
	}

	model, err := e.factory.CreateOrUpdate(id, data)
	if err != nil {
		return nil, err
	}
	if err := e.factory.Commit(); err != nil {
		return nil, fmt.Errorf("fixture: commit: %w", err)
	}
	return model, nil
}

// ConvertIdentifiers resolves a reference string, Identifier, or list of
// either into model instances. List input yields a []any; scalar input
// yields a bare instance unless the reference expands to several records.
func (e *Engine) ConvertIdentifiers(refs any) (any, error) {
	switch refs.(type) {
	case []string, []fixture.Identifier, []any:
		ids, err := e.flatten([]any{refs})
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(ids))
		for _, id := range ids {
			instance, err := e.create(id)
			if err != nil {
				return nil, err
			}
			out = append(out, instance)
		}
		return out, nil
	default:
		return e.convertScalar(refs)
	}
}

// ConvertIdentifier resolves a single reference string.
func (e *Engine) ConvertIdentifier(ref string) (any, error) {
	return e.convertScalar(ref)
}

func (e *Engine) convertScalar(ref any) (any, error) {
	ids, err := e.flatten([]any{ref})
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		instance, err := e.create(id)
		if err != nil {
			return nil, err
		}
		out = append(out, instance)
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// EnsureLoaded guarantees the sources for the given classes have been parsed
// into the cache exactly once; with no arguments it loads the whole
// directory. Already-loaded classes are never re-rendered.
func (e *Engine) EnsureLoaded(classNames ...string) error {
	if len(classNames) == 0 {
		return e.loadAll(nil)
	}

	missing := make(map[string]struct{})
	for _, class := range classNames {
		if class == "" {
			// Load-everything sentinel.
			return e.loadAll(nil)
		}
		if _, done := e.loadedClasses[class]; !done {
			missing[class] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return e.loadAll(missing)
}

// Known returns the identifiers of every loaded record in declaration order.
func (e *Engine) Known() []fixture.Identifier {
	out := make([]fixture.Identifier, 0, len(e.keyOrder))
	for _, key := range e.keyOrder {
		out = append(out, fixture.NewIdentifier(e.classNames[key], key))
	}
	return out
}

// create materializes one identifier: guards the class name, loads the
// owning source on demand, lets the factory convert raw values, and
// delegates construction.
func (e *Engine) create(id fixture.Identifier) (any, error) {
	if !id.Known() {
		return nil, fmt.Errorf("fixture: cannot create %q: %w", id.Key, fixture.ErrMissingClassName)
	}
	if err := e.EnsureLoaded(id.ClassName); err != nil {
		return nil, err
	}

	data, ok := e.rawFixtures[id.LookupKey()]
	if !ok {
		return nil, fmt.Errorf("fixture: class %s declares no key %q: %w",
			id.ClassName, id.Key, fixture.ErrUnknownKey)
	}

	converted, err := e.factory.MaybeConvertValues(id, data)
	if err != nil {
		return nil, fmt.Errorf("fixture: convert values for %s: %w", id, err)
	}
	return e.factory.CreateOrUpdate(id, converted)
}

// loadAll scans the fixtures directory and parses every source whose class
// passes the filter (nil filter means every source). Classes already in the
// cache are skipped, so repeat calls are cheap no-ops.
func (e *Engine) loadAll(filter map[string]struct{}) error {
	entries, err := fs.ReadDir(e.fsys, ".")
	if err != nil {
		return fmt.Errorf("fixture: read fixtures dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		class := classNameFromFile(name)
		if filter != nil {
			if _, want := filter[class]; !want {
				continue
			}
		}
		if _, done := e.loadedClasses[class]; done {
			continue
		}
		if err := e.loadSource(name, class); err != nil {
			return err
		}
		// Mark loaded even when the source contributed zero keys, so the
		// file is never rendered twice.
		e.loadedClasses[class] = struct{}{}
	}
	return nil
}

// loadSource renders one fixture source and records its top-level entries
// into the cache. Decoding goes through yaml.Node to preserve declaration
// order.
func (e *Engine) loadSource(filename, class string) error {
	rendered, err := e.env.RenderTemplate(filename, nil)
	if err != nil {
		return fmt.Errorf("fixture: render source %q: %w", filename, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(rendered), &doc); err != nil {
		return fmt.Errorf("fixture: parse source %q: %w", filename, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("fixture: source %q: top-level mapping required", filename)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var data map[string]any
		if err := root.Content[i+1].Decode(&data); err != nil {
			return fmt.Errorf("fixture: source %q key %q: %w", filename, key, err)
		}

		if existing, ok := e.classNames[key]; ok {
			switch e.duplicates {
			case fixture.DuplicateError:
				return fmt.Errorf("fixture: key %q declared by both %s and %s: %w",
					key, existing, class, fixture.ErrDuplicateKey)
			case fixture.DuplicateWarn:
				e.warnf("fixture: key %q in %s shadowed by earlier load of %s", key, class, existing)
			}
			// First load wins.
			continue
		}

		e.classNames[key] = class
		e.rawFixtures[key] = data
		e.keyOrder = append(e.keyOrder, key)
	}
	return nil
}

// flatten normalizes reference inputs into a deduplicated, ordered
// identifier list: elements are grouped by class, keys are CSV-split and
// trimmed, bare keys get their class inferred from the cache, and the first
// occurrence of each key wins.
func (e *Engine) flatten(refs []any) ([]fixture.Identifier, error) {
	groups, err := groupByClass(refs)
	if err != nil {
		return nil, err
	}

	var (
		out  []fixture.Identifier
		seen = make(map[string]struct{})
	)
	for _, group := range groups {
		for _, key := range fixture.SplitKeys(group.keys...) {
			class := group.class
			if class == "" {
				resolved, ok := e.classNames[key]
				if !ok {
					return nil, fmt.Errorf("fixture: bare key %q has no loaded class: %w",
						key, fixture.ErrUnresolvedClass)
				}
				class = resolved
			}
			id := fixture.NewIdentifier(class, key)
			if _, dup := seen[id.LookupKey()]; dup {
				continue
			}
			seen[id.LookupKey()] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

type classGroup struct {
	class string
	keys  []string
}

// groupByClass buckets reference elements by class name, classes kept in
// first-appearance order. Strings go through the reference grammar;
// Identifiers contribute their own class and key; list elements are walked
// recursively. Anything else is a hard error.
func groupByClass(refs []any) ([]*classGroup, error) {
	var (
		order []*classGroup
		index = make(map[string]*classGroup)
	)
	add := func(class, key string) {
		group, ok := index[class]
		if !ok {
			group = &classGroup{class: class}
			index[class] = group
			order = append(order, group)
		}
		group.keys = append(group.keys, key)
	}

	var walk func(ref any) error
	walk = func(ref any) error {
		switch v := ref.(type) {
		case string:
			for _, id := range fixture.ParseReferences(v) {
				add(id.ClassName, id.Key)
			}
		case fixture.Identifier:
			add(v.ClassName, v.Key)
		case *fixture.Identifier:
			if v != nil {
				add(v.ClassName, v.Key)
			}
		case []string:
			for _, s := range v {
				if err := walk(s); err != nil {
					return err
				}
			}
		case []fixture.Identifier:
			for _, id := range v {
				add(id.ClassName, id.Key)
			}
		case []any:
			for _, elem := range v {
				if err := walk(elem); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("fixture: %T (%v): %w", ref, ref, fixture.ErrUnsupportedReference)
		}
		return nil
	}

	for _, ref := range refs {
		if err := walk(ref); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// classNameFromFile derives a class name from a source filename: everything
// before the final extension, the whole name when there is none.
func classNameFromFile(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// compactRefs drops nil elements so CreateAll(nil) behaves like CreateAll().
func compactRefs(refs []any) []any {
	out := refs[:0]
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		out = append(out, ref)
	}
	return out
}
