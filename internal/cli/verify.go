package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mutlog/mutlog/replay"
	"github.com/mutlog/mutlog/value"
)

// VerifyResult holds the verification outcome for JSON output.
type VerifyResult struct {
	Log           string `json:"log"`
	Statements    bool   `json:"replayable"`
	RoundTrip     bool   `json:"round_trip"`
	Deterministic bool   `json:"deterministic"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <log>",
		Short: "Verify a log replays and round-trips deterministically",
		Long: `Verify a log end to end.

The log is replayed, the resulting state is re-serialized to a fresh
snapshot, the snapshot is replayed again, and the two states are compared.
The snapshot text itself is rendered twice and compared byte for byte.

Exit codes:
  0 - log is replayable and the round trip is deterministic
  1 - round trip produced a different state or snapshot
  2 - command error (missing or corrupt log)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command, path string) error {
	tree, err := replay.LoadFile(path, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load log", err)
	}

	snapshot, err := snapshotText(tree)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render snapshot", err)
	}
	reloaded, err := replay.LoadString("store = "+snapshot+"\n", nil)
	if err != nil {
		return WrapExitError(ExitFailure, "snapshot does not replay", err)
	}

	roundTrip := value.Equal(tree, reloaded)

	again, err := snapshotText(reloaded)
	if err != nil {
		return WrapExitError(ExitFailure, "reloaded state does not render", err)
	}
	deterministic := snapshot == again

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		result := VerifyResult{
			Log:           path,
			Statements:    true,
			RoundTrip:     roundTrip,
			Deterministic: deterministic,
		}
		if err := json.NewEncoder(out).Encode(result); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode result", err)
		}
		if !roundTrip || !deterministic {
			return NewExitError(ExitFailure, "verification failed")
		}
		return nil
	}

	if !roundTrip || !deterministic {
		fmt.Fprintf(out, "FAIL %s (round_trip=%v deterministic=%v)\n", path, roundTrip, deterministic)
		return NewExitError(ExitFailure, "verification failed")
	}

	fmt.Fprintf(out, "OK %s\n", path)
	if opts.Verbose {
		fmt.Fprintf(out, "snapshot: %s\n", snapshot)
	}
	return nil
}
