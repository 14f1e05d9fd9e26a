package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mutlog/mutlog/replay"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Pretty bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <log>",
		Short: "Replay a log and print the state it encodes",
		Long: `Replay a log and print the resulting state.

The default text output is the canonical snapshot literal, identical to the
line a compacted log would carry. --pretty renders one slot per line.

Examples:
  mutlog show results.mutlog
  mutlog show results.mutlog --pretty
  mutlog show results.mutlog --format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "multi-line indented text output")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command, path string) error {
	tree, err := replay.LoadFile(path, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load log", err)
	}

	out := cmd.OutOrStdout()
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(renderable(tree)); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode state", err)
		}
		return nil
	case "yaml":
		data, err := yaml.Marshal(renderable(tree))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode state", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	default:
		if opts.Pretty {
			fmt.Fprint(out, renderPretty(tree))
			return nil
		}
		snapshot, err := snapshotText(tree)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render snapshot", err)
		}
		fmt.Fprintln(out, snapshot)
		return nil
	}
}
