package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

type stubFaker struct{}

func (stubFaker) Name() string  { return "Ada Lovelace" }
func (stubFaker) Email() string { return "ada@example.com" }

func TestNewRequiresTemplateSource(t *testing.T) {
	t.Parallel()

	if _, err := New(); err == nil {
		t.Fatal("expected error when neither base dir nor fs.FS is set")
	}
}

func TestRenderTemplateAppendsExtension(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"User.yaml": &fstest.MapFile{Data: []byte("alice:\n  name: {{ name }}\n")},
	}
	engine, err := New(
		WithFS(fsys),
		WithExtension("yaml"),
		WithGlobalData(map[string]any{"name": "Alice"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// Same output whether or not the caller includes the extension.
	withExt, err := engine.RenderTemplate("User.yaml", nil)
	if err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	withoutExt, err := engine.RenderTemplate("User", nil)
	if err != nil {
		t.Fatalf("render without extension: %v", err)
	}
	if withExt != withoutExt {
		t.Errorf("renders differ: %q vs %q", withExt, withoutExt)
	}
	if !strings.Contains(withExt, "name: Alice") {
		t.Errorf("global not substituted: %q", withExt)
	}
}

func TestGlobalMethodCallsRenderLikeFaker(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"User.yaml": &fstest.MapFile{
			Data: []byte("ada:\n  name: {{ faker.Name() }}\n  email: {{ faker.Email() }}\n"),
		},
	}
	engine, err := New(WithFS(fsys), WithGlobalData(map[string]any{"faker": stubFaker{}}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rendered, err := engine.RenderTemplate("User.yaml", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "Ada Lovelace") || !strings.Contains(rendered, "ada@example.com") {
		t.Errorf("faker methods not invoked: %q", rendered)
	}
}

func TestRenderDispatchesInlineContent(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(fstest.MapFS{}), WithGlobalData(map[string]any{"who": "world"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("hello {{ who }}", nil)
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if out != "hello world" {
		t.Errorf("inline render = %q", out)
	}
}

func TestRenderStringUsesCallContext(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString("{{ greeting }}, {{ name }}", map[string]any{
		"greeting": "hi",
		"name":     "bob",
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "hi, bob" {
		t.Errorf("render = %q", out)
	}
}

func TestTemplateFuncsAreCallable(t *testing.T) {
	t.Parallel()

	engine, err := New(
		WithFS(fstest.MapFS{}),
		WithTemplateFuncs(map[string]any{
			"shout": func(s string) string { return strings.ToUpper(s) },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString(`{{ shout("quiet") }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "QUIET" {
		t.Errorf("render = %q, want QUIET", out)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	reverse := func(input any, _ any) (any, error) {
		s, _ := input.(string)
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	}

	// Filters live in pongo2's process-wide registry; use a name no other
	// test claims.
	if err := engine.RegisterFilter("fixtures_test_reverse", reverse); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("fixtures_test_reverse", reverse); err == nil {
		t.Fatal("expected error registering duplicate filter name")
	}

	out, err := engine.RenderString(`{{ "abc"|fixtures_test_reverse }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "cba" {
		t.Errorf("render = %q, want cba", out)
	}
}

func TestGlobalContextRejectsNonMappings(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.GlobalContext(42); err == nil {
		t.Fatal("expected error for non-mapping global context")
	}
}
