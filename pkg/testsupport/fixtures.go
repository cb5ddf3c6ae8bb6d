// Package testsupport provides scaffolding for fixture-loader tests: temp
// fixture directories, a recording factory, and diff helpers.
package testsupport

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fixtures/pkg/fixture"
)

// WriteFixtures materializes sources into a temp directory and returns its
// path. Keys are filenames ("User.yaml"), values the templated content.
func WriteFixtures(t *testing.T, sources map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range sources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}

// CreateCall records one CreateOrUpdate invocation.
type CreateCall struct {
	ID   fixture.Identifier
	Data map[string]any
}

// Instance is the model type the recording factory constructs.
type Instance struct {
	ID   fixture.Identifier
	Data map[string]any
}

// RecordingFactory implements fixture.Factory and records every call so
// tests can assert on the materialization protocol. When Convert is set it
// runs as MaybeConvertValues; otherwise data passes through unchanged.
type RecordingFactory struct {
	Calls    []CreateCall
	Commits  int
	Bound    fixture.Resolver
	Convert  func(fixture.Identifier, map[string]any) (map[string]any, error)
	FailNext error
}

var (
	_ fixture.Factory        = (*RecordingFactory)(nil)
	_ fixture.ResolverBinder = (*RecordingFactory)(nil)
)

func (f *RecordingFactory) CreateOrUpdate(id fixture.Identifier, data map[string]any) (any, error) {
	if f.FailNext != nil {
		err := f.FailNext
		f.FailNext = nil
		return nil, err
	}
	f.Calls = append(f.Calls, CreateCall{ID: id, Data: data})
	return &Instance{ID: id, Data: data}, nil
}

func (f *RecordingFactory) MaybeConvertValues(id fixture.Identifier, data map[string]any) (map[string]any, error) {
	if f.Convert != nil {
		return f.Convert(id, data)
	}
	return data, nil
}

func (f *RecordingFactory) Commit() error {
	f.Commits++
	return nil
}

func (f *RecordingFactory) BindResolver(r fixture.Resolver) {
	f.Bound = r
}

// CreatedKeys returns the keys passed to CreateOrUpdate, in call order.
func (f *RecordingFactory) CreatedKeys() []string {
	keys := make([]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		keys = append(keys, call.ID.Key)
	}
	return keys
}

// Diff returns a human-readable diff between want and got.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// MustInstance asserts the value is a *Instance and returns it.
func MustInstance(t *testing.T, v any) *Instance {
	t.Helper()

	instance, ok := v.(*Instance)
	if !ok {
		t.Fatalf("expected *testsupport.Instance, got %T", v)
	}
	return instance
}

// CountingRenderer wraps a TemplateRenderer and counts RenderTemplate calls
// per template name, for cache fast-path assertions.
type CountingRenderer struct {
	fixture.TemplateRenderer
	Renders map[string]int
}

var _ fixture.TemplateRenderer = (*CountingRenderer)(nil)

// NewCountingRenderer wraps env with render counting.
func NewCountingRenderer(env fixture.TemplateRenderer) *CountingRenderer {
	return &CountingRenderer{TemplateRenderer: env, Renders: make(map[string]int)}
}

func (c *CountingRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	c.Renders[name]++
	return c.TemplateRenderer.RenderTemplate(name, data, out...)
}

// TotalRenders sums render counts across all templates.
func (c *CountingRenderer) TotalRenders() int {
	total := 0
	for _, n := range c.Renders {
		total += n
	}
	return total
}
