package fixtures_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"

	fixtures "github.com/goliatone/go-fixtures"
	"github.com/goliatone/go-fixtures/internal/gotemplate"
	"github.com/goliatone/go-fixtures/pkg/fixture"
	"github.com/goliatone/go-fixtures/pkg/testsupport"
)

func TestGetModelsEndToEnd(t *testing.T) {
	dir := testsupport.WriteFixtures(t, map[string]string{
		"User.yaml": "alice:\n  name: Alice\nbob:\n  name: Bob\n",
		"Post.yaml": "p1:\n  title: First\n  author: alice\n",
	})

	factory := &testsupport.RecordingFactory{}
	loader, err := fixtures.New(factory, dir)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	models, err := loader.GetModels("User(alice), Post(p1)")
	if err != nil {
		t.Fatalf("get models: %v", err)
	}

	if !models.Has("alice") || !models.Has("p1") {
		t.Fatalf("missing expected keys, got %v", models)
	}
	if models.Has("bob") {
		t.Error("bob was never referenced but got materialized")
	}
	if len(factory.Calls) != 2 {
		t.Errorf("CreateOrUpdate called %d times, want 2", len(factory.Calls))
	}
	if factory.Commits != 1 {
		t.Errorf("Commit called %d times, want 1", factory.Commits)
	}

	alice := testsupport.MustInstance(t, models.Must("alice"))
	if diff := cmp.Diff(map[string]any{"name": "Alice"}, alice.Data); diff != "" {
		t.Errorf("alice data mismatch (-want +got):\n%s", diff)
	}
}

func TestFakerGlobalIsDeterministicAcrossLoaders(t *testing.T) {
	sources := map[string]string{
		"User.yaml": "alice:\n  name: \"{{ faker.Name() }}\"\n  email: \"{{ faker.Email() }}\"\n",
	}

	load := func(t *testing.T, dir string) map[string]any {
		t.Helper()
		factory := &testsupport.RecordingFactory{}
		loader, err := fixtures.New(factory, dir)
		if err != nil {
			t.Fatalf("new loader: %v", err)
		}
		models, err := loader.GetModels("User(alice)")
		if err != nil {
			t.Fatalf("get models: %v", err)
		}
		return testsupport.MustInstance(t, models.Must("alice")).Data
	}

	first := load(t, testsupport.WriteFixtures(t, sources))
	second := load(t, testsupport.WriteFixtures(t, sources))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different data (-first +second):\n%s", diff)
	}
	if name, _ := first["name"].(string); name == "" || name == "{{ faker.Name() }}" {
		t.Errorf("faker global did not render, name = %q", name)
	}
}

func TestTemplateControlFlowGeneratesKeys(t *testing.T) {
	dir := testsupport.WriteFixtures(t, map[string]string{
		"Tag.yaml": "{% for color in colors %}\n{{ color }}_tag:\n  name: {{ color }}\n{% endfor %}\n",
	})

	factory := &testsupport.RecordingFactory{}
	loader, err := fixtures.New(factory, dir,
		fixtures.WithGlobalData(map[string]any{
			"colors": []string{"red", "green"},
		}),
	)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	models, err := loader.GetModels()
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	want := []string{"red_tag", "green_tag"}
	got := factory.CreatedKeys()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated keys mismatch (-want +got):\n%s", diff)
	}
	if len(models) != 2 {
		t.Errorf("models = %d, want 2", len(models))
	}
}

func TestSecondFullLoadDoesNotReRender(t *testing.T) {
	dir := testsupport.WriteFixtures(t, map[string]string{
		"User.yaml": "alice:\n  name: Alice\n",
		"Post.yaml": "p1:\n  title: First\n",
	})

	env, err := fixtures.NewTemplateEngine(
		gotemplate.WithBaseDir(dir),
		gotemplate.WithGlobalData(map[string]any{"faker": gofakeit.New(fixture.DefaultSeed)}),
	)
	if err != nil {
		t.Fatalf("new template engine: %v", err)
	}
	counting := testsupport.NewCountingRenderer(env)

	factory := &testsupport.RecordingFactory{}
	loader, err := fixtures.New(factory, dir, fixtures.WithTemplateEngine(counting))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	if _, err := loader.CreateAll(); err != nil {
		t.Fatalf("first create all: %v", err)
	}
	if _, err := loader.CreateAll(); err != nil {
		t.Fatalf("second create all: %v", err)
	}

	if got := counting.TotalRenders(); got != 2 {
		t.Errorf("total renders = %d, want 2 (one per source)", got)
	}
	if factory.Commits != 2 {
		t.Errorf("commits = %d, want one per CreateAll", factory.Commits)
	}
}

func TestFactoryResolverCallback(t *testing.T) {
	dir := testsupport.WriteFixtures(t, map[string]string{
		"User.yaml": "alice:\n  name: Alice\n",
		"Post.yaml": "p1:\n  title: First\n  author: User(alice)\n",
	})

	factory := &testsupport.RecordingFactory{}
	factory.Convert = func(_ fixtures.Identifier, data map[string]any) (map[string]any, error) {
		out := make(map[string]any, len(data))
		for field, value := range data {
			if s, ok := value.(string); ok {
				if refs := fixtures.ParseReferences(s); len(refs) > 0 && refs[0].Known() {
					resolved, err := factory.Bound.ConvertIdentifier(s)
					if err != nil {
						return nil, err
					}
					out[field] = resolved
					continue
				}
			}
			out[field] = value
		}
		return out, nil
	}

	loader, err := fixtures.New(factory, dir)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	models, err := loader.GetModels("Post(p1)")
	if err != nil {
		t.Fatalf("get models: %v", err)
	}

	post := testsupport.MustInstance(t, models.Must("p1"))
	author := testsupport.MustInstance(t, post.Data["author"])
	if author.ID.Key != "alice" || author.ID.ClassName != "User" {
		t.Errorf("author = %v, want User(alice)", author.ID)
	}
}
