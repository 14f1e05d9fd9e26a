package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/mutlog/mutlog/replay"
	"github.com/mutlog/mutlog/value"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <log-a> <log-b>",
		Short: "Diff the states two logs replay to",
		Long: `Replay both logs and print a line diff of their states.

Both states are rendered in the canonical multi-line form, so the diff shows
slot-level changes regardless of how the two histories reached them.

Exit codes:
  0 - states are equal
  1 - states differ
  2 - command error`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1])
		},
	}
	return cmd
}

func runDiff(cmd *cobra.Command, pathA, pathB string) error {
	treeA, err := replay.LoadFile(pathA, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load "+pathA, err)
	}
	treeB, err := replay.LoadFile(pathB, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load "+pathB, err)
	}

	out := cmd.OutOrStdout()
	if value.Equal(treeA, treeB) {
		fmt.Fprintln(out, "states are equal")
		return nil
	}

	renderedA := renderPretty(treeA)
	renderedB := renderPretty(treeB)

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(renderedA, renderedB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added.Fprintf(out, "+%s\n", line)
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(out, "-%s\n", line)
			default:
				fmt.Fprintf(out, " %s\n", line)
			}
		}
	}

	return NewExitError(ExitFailure, "states differ")
}

func splitDiffLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
