// fixtures-cli inspects and materializes fixture directories: list known
// classes and keys, print rendered sources, or run fixtures through a
// printing factory to check the object graph before wiring a real one.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	fixtures "github.com/goliatone/go-fixtures"
	"github.com/goliatone/go-fixtures/internal/gotemplate"
	"github.com/goliatone/go-fixtures/pkg/fixture"
)

type rootFlags struct {
	dir         string
	seed        uint64
	onDuplicate string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fixtures-cli",
		Short:         "Inspect and materialize templated YAML fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.dir, "dir", "fixtures", "fixtures directory")
	cmd.PersistentFlags().Uint64Var(&flags.seed, "seed", fixture.DefaultSeed, "faker seed")
	cmd.PersistentFlags().StringVar(&flags.onDuplicate, "on-duplicate", "error",
		"duplicate key policy: error, warn, or ignore")

	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newCreateCmd(flags))
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List classes and keys declared in the fixtures directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, _, err := buildLoader(flags)
			if err != nil {
				return err
			}
			if err := loader.EnsureLoaded(); err != nil {
				return err
			}

			byClass := make(map[string][]string)
			for _, id := range loader.Known() {
				byClass[id.ClassName] = append(byClass[id.ClassName], id.Key)
			}
			classes := make([]string, 0, len(byClass))
			for class := range byClass {
				classes = append(classes, class)
			}
			sort.Strings(classes)

			out := cmd.OutOrStdout()
			for _, class := range classes {
				fmt.Fprintf(out, "%s: %s\n", class, strings.Join(byClass[class], ", "))
			}
			return nil
		},
	}
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render [class...]",
		Short: "Print rendered fixture sources without materializing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildTemplateEngine(flags)
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(flags.dir)
			if err != nil {
				return fmt.Errorf("read fixtures dir: %w", err)
			}

			want := make(map[string]bool, len(args))
			for _, class := range args {
				want[class] = true
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				name := entry.Name()
				class := strings.TrimSuffix(name, extensionOf(name))
				if len(want) > 0 && !want[class] {
					continue
				}
				rendered, err := env.RenderTemplate(name, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "--- %s\n%s\n", name, strings.TrimRight(rendered, "\n"))
			}
			return nil
		},
	}
}

func newCreateCmd(flags *rootFlags) *cobra.Command {
	interactive := false

	cmd := &cobra.Command{
		Use:   "create [refs...]",
		Short: "Materialize fixtures through a printing factory",
		Long: "Materialize the referenced fixtures (reference grammar: bare keys or " +
			"Class(key, ...) groups). With no refs, every fixture is created; with " +
			"--interactive, pick keys from a prompt instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, factory, err := buildLoader(flags)
			if err != nil {
				return err
			}

			refs := make([]any, 0, len(args))
			for _, arg := range args {
				refs = append(refs, arg)
			}

			if len(refs) == 0 && interactive {
				selected, err := pickIdentifiers(loader)
				if err != nil {
					return err
				}
				if len(selected) == 0 {
					return nil
				}
				refs = append(refs, selected)
			}

			models, err := loader.CreateAll(refs...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d model(s), committed %d time(s)\n",
				len(models), factory.commits)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick fixtures from a prompt")
	return cmd
}

// pickIdentifiers loads the whole directory and asks which keys to create.
func pickIdentifiers(loader fixtures.Loader) ([]fixture.Identifier, error) {
	if err := loader.EnsureLoaded(); err != nil {
		return nil, err
	}
	known := loader.Known()
	if len(known) == 0 {
		return nil, fmt.Errorf("no fixtures found")
	}

	options := make([]string, 0, len(known))
	byLabel := make(map[string]fixture.Identifier, len(known))
	for _, id := range known {
		label := id.String()
		options = append(options, label)
		byLabel[label] = id
	}

	var picked []string
	prompt := &survey.MultiSelect{
		Message:  "Fixtures to create:",
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return nil, err
	}

	selected := make([]fixture.Identifier, 0, len(picked))
	for _, label := range picked {
		selected = append(selected, byLabel[label])
	}
	return selected, nil
}

func buildLoader(flags *rootFlags) (fixtures.Loader, *printFactory, error) {
	policy, err := duplicatePolicy(flags.onDuplicate)
	if err != nil {
		return nil, nil, err
	}

	factory := &printFactory{out: os.Stdout}
	loader, err := fixtures.New(factory, flags.dir,
		fixtures.WithSeed(flags.seed),
		fixtures.WithDuplicatePolicy(policy),
	)
	if err != nil {
		return nil, nil, err
	}
	return loader, factory, nil
}

func buildTemplateEngine(flags *rootFlags) (fixture.TemplateRenderer, error) {
	return fixtures.NewTemplateEngine(
		gotemplate.WithBaseDir(flags.dir),
		gotemplate.WithGlobalData(map[string]any{
			"faker": gofakeit.New(flags.seed),
		}),
	)
}

func duplicatePolicy(name string) (fixture.DuplicatePolicy, error) {
	switch name {
	case "error":
		return fixture.DuplicateError, nil
	case "warn":
		return fixture.DuplicateWarn, nil
	case "ignore":
		return fixture.DuplicateIgnore, nil
	default:
		return 0, fmt.Errorf("unknown duplicate policy %q (want error, warn, or ignore)", name)
	}
}

func extensionOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
