package cli

import (
	"github.com/spf13/cobra"

	"github.com/coregx/charnfa/internal/logging"
	"github.com/coregx/charnfa/rules"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin rule sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
			for _, name := range rules.BuiltinNames() {
				rs, err := rules.Builtin(name)
				if err != nil {
					return err
				}
				logger.Info(name, logging.FieldCount, len(rs.Rules))
			}
			return nil
		},
	}
}
