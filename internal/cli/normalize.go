package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/charnfa"
	"github.com/coregx/charnfa/internal/logging"
)

type normalizeFlags struct {
	text        string
	noPrefilter bool
	loopLimit   int
	maxDepth    int
}

func newNormalizeCommand(global *globalFlags) *cobra.Command {
	flags := &normalizeFlags{}
	defaults := charnfa.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "normalize [file...]",
		Short: "Rewrite files or standard input",
		Long: `Rewrite the named files, or standard input when none are given, and
write the result to standard output. Input is read as UTF-8; invalid bytes
are replaced by U+FFFD.`,
		Example: `  charnfa normalize --rules fold.yaml notes.txt
  echo "Straße" | charnfa normalize
  charnfa normalize -t "ÆSIR"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			config := charnfa.DefaultConfig()
			config.EnablePrefilter = !flags.noPrefilter
			config.LoopLimit = flags.loopLimit
			config.MaxDepth = flags.maxDepth

			n, _, err := compile(ctx, global, config)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("text") {
				s, err := n.NormalizeString(flags.text)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, s)
				return err
			}

			if len(args) == 0 {
				return copyNormalized(out, n, cmd.InOrStdin())
			}
			for _, name := range args {
				logging.FromContext(ctx).Debug("normalizing", logging.FieldInput, name)
				if err := normalizeFile(out, n, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.text, "text", "t", "", "normalize this text instead of reading input")
	cmd.Flags().BoolVar(&flags.noPrefilter, "no-prefilter", false, "run the matcher at every position")
	cmd.Flags().IntVar(&flags.loopLimit, "loop-limit", defaults.LoopLimit, "epsilon step budget between consumed characters")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", defaults.MaxDepth, "maximum match recursion depth")

	return cmd
}

func normalizeFile(out io.Writer, n *charnfa.Normalizer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if err := copyNormalized(out, n, f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func copyNormalized(out io.Writer, n *charnfa.Normalizer, in io.Reader) error {
	if _, err := io.Copy(out, n.Reader(in)); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	return nil
}
