package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mutlog/mutlog/replay"
)

// NewCompactCommand creates the compact command.
func NewCompactCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact <src> <dst>",
		Short: "Collapse a log's history into a single snapshot",
		Long: `Replay the source log and write its state to the destination as one
snapshot statement. Compacting an already-compacted log is a no-op in
content, so compaction can run on any schedule.

Examples:
  mutlog compact results.mutlog results-compact.mutlog`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := replay.Compact(args[0], args[1], nil); err != nil {
				return WrapExitError(ExitCommandError, "compaction failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compacted %s -> %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}
