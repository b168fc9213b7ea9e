// Package cli provides the Cobra command structure for charnfa.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/charnfa"
	"github.com/coregx/charnfa/internal/logging"
	"github.com/coregx/charnfa/rules"
)

// EnvRules names the environment variable consulted when --rules is not given.
const EnvRules = "CHARNFA_RULES"

// DefaultBuiltin is the rule set used when no rule file is configured.
const DefaultBuiltin = "latin-fold"

// ErrCheckFailed signals that check found problems; they are already reported.
var ErrCheckFailed = errors.New("rule set check failed")

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug     bool
	rulesPath string
	builtin   string
	color     string
}

// NewRootCommand creates the root charnfa command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "charnfa",
		Short: "Normalize text with character-range rewrite rules",
		Long: `charnfa rewrites text with a set of character rules compiled into a
nondeterministic automaton. At every position the longest matching rule
wins; text no rule matches is copied unchanged.

Rules are read from the YAML file given by --rules, or the file named by
the ` + EnvRules + ` environment variable, or else a builtin rule set.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.rulesPath, "rules", "",
		"path to a YAML rule file (default $"+EnvRules+")")
	rootCmd.PersistentFlags().StringVar(&flags.builtin, "builtin", DefaultBuiltin,
		"builtin rule set used when no rule file is given")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newNormalizeCommand(flags))
	rootCmd.AddCommand(newDumpCommand(flags))
	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// commandContext returns the command's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// loadRuleSet resolves the rule source: --rules, then $CHARNFA_RULES,
// then the builtin set.
func loadRuleSet(ctx context.Context, flags *globalFlags) (*rules.RuleSet, error) {
	path := flags.rulesPath
	if path == "" {
		path = os.Getenv(EnvRules)
	}
	if path != "" {
		return rules.Load(ctx, path)
	}
	logging.FromContext(ctx).Debug("using builtin rules", logging.FieldRules, flags.builtin)
	return rules.Builtin(flags.builtin)
}

// compile loads the configured rule set and builds a Normalizer.
func compile(ctx context.Context, flags *globalFlags, config charnfa.Config) (*charnfa.Normalizer, *rules.RuleSet, error) {
	rs, err := loadRuleSet(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	n, err := charnfa.CompileContext(ctx, rs, config)
	if err != nil {
		return nil, nil, err
	}
	return n, rs, nil
}
