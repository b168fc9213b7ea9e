package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/charnfa"
	"github.com/coregx/charnfa/internal/logging"
)

func newCheckCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a rule set",
		Long: `Compile the configured rule set and report its size, the prefilter
that will be used, and any epsilon cycle. A cycle of epsilon transitions
makes matching fail once the loop limit is reached, so check exits
non-zero when it finds one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, rs, err := compile(commandContext(cmd), global, charnfa.DefaultConfig())
			if err != nil {
				return err
			}
			a := n.Automaton()
			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")

			logger.Info("compiled",
				logging.FieldRules, rs.Name,
				logging.FieldStates, a.States(),
				logging.FieldBackrefs, a.Backrefs(),
				logging.FieldReachable, a.Reachable(),
				logging.FieldPrefilter, prefilterSummary(n),
			)
			if cycle := a.FindEpsilonCycle(); cycle != nil {
				logger.Error("epsilon cycle", logging.FieldCycle, cycle)
				return ErrCheckFailed
			}
			if unreachable := a.States() - a.Reachable(); unreachable > 0 {
				logger.Warn("unreachable states", logging.FieldStates, unreachable)
			}
			return nil
		},
	}
}

func prefilterSummary(n *charnfa.Normalizer) string {
	pf := n.Prefilter()
	if pf == nil {
		return "none"
	}
	return fmt.Sprint(pf)
}
