package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-scaffold/pkg/generator"
	"github.com/goliatone/go-scaffold/pkg/hooks"
	"github.com/goliatone/go-scaffold/pkg/materialize"
	"github.com/goliatone/go-scaffold/pkg/prompt"
	"github.com/goliatone/go-scaffold/pkg/render"
	"github.com/goliatone/go-scaffold/pkg/values"
)

type newOptions struct {
	output      string
	sets        []string
	answersFile string
	noInput     bool
	overwrite   bool
}

func init() {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <template-dir>",
		Short: "Materialize a project from a template directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "Directory the project is generated under")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Set a context key (key=value, repeatable)")
	cmd.Flags().StringVar(&opts.answersFile, "answers", "", "Seed answers from a recorded answers file")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Never prompt; use defaults and supplied values only")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Allow writing into an existing destination")

	rootCmd.AddCommand(cmd)
}

func runNew(cmd *cobra.Command, templateDir string, opts *newOptions) error {
	direct, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	gen := generator.New(
		generator.WithPromptDriver(prompt.NewSurveyDriver()),
	)

	result, err := gen.Generate(cmd.Context(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   opts.output,
		Values:      direct,
		AnswersFile: opts.answersFile,
		NoInput:     opts.noInput,
		Overwrite:   opts.overwrite,
	})
	if result != nil {
		for _, hookErr := range result.HookErrors {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", hookErr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.OutputRoot)
	return nil
}

func parseSets(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("cli: --set expects key=value, got %q", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// printError reports the error kind and the offending path where the
// taxonomy provides one.
func printError(err error) {
	var (
		templateErr *render.TemplateError
		destErr     *materialize.DestinationExistsError
		missingErr  *values.MissingKeyError
		choiceErr   *values.InvalidChoiceError
		hookErr     *hooks.HookError
	)

	switch {
	case errors.As(err, &templateErr):
		fmt.Fprintf(os.Stderr, "template error: %v\n", err)
	case errors.As(err, &destErr):
		fmt.Fprintf(os.Stderr, "destination exists: %s\n", destErr.Path)
	case errors.As(err, &missingErr), errors.As(err, &choiceErr):
		fmt.Fprintf(os.Stderr, "invalid context: %v\n", err)
	case errors.As(err, &hookErr):
		fmt.Fprintf(os.Stderr, "hook failure: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
