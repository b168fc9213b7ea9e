package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/charnfa"
	"github.com/coregx/charnfa/nfa"
)

func newDumpCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the compiled automaton",
		Long: `Compile the configured rule set and print every state with its
transitions, backref markers and rule output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, _, err := compile(commandContext(cmd), global, charnfa.DefaultConfig())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return writeDump(out, n.Automaton(), newDumpStyles(isColorEnabled(global.color, out)))
		},
	}
}

// writeDump renders a's dump through styles, one line at a time.
func writeDump(w io.Writer, a *nfa.Automaton, styles *dumpStyles) error {
	var buf bytes.Buffer
	if err := a.Dump(&buf, describeResult); err != nil {
		return err
	}

	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		var styled string
		switch {
		case strings.HasPrefix(line, "NFA "):
			styled = styles.Header.Render(line)
		case strings.HasPrefix(trimmed, "state ") && strings.Contains(line, "(final)"):
			styled = styles.Final.Render(line)
		case strings.HasPrefix(trimmed, "state "):
			styled = styles.State.Render(line)
		case trimmed == "(no transitions)":
			styled = styles.Dim.Render(line)
		default:
			styled = styles.Transition.Render(line)
		}
		if _, err := fmt.Fprintln(w, styled); err != nil {
			return err
		}
	}
	return sc.Err()
}

func describeResult(v any) string {
	if c, ok := v.(*nfa.Converter); ok {
		return c.String()
	}
	return fmt.Sprint(v)
}
