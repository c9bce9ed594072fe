package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/xpubkit/internal/xpub"
)

// inspectCmd validates an extended public key and reports what it is.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var inspectCmd = &cobra.Command{
	Use:   "inspect <extended-key>",
	Short: "Validate an extended public key",
	Long: `Check whether an extended public key is well formed and report its
declared address type and network.

A malformed key is reported in the output, not as a command failure: the
command exits zero whenever the inspection itself could run.

Examples:
  xpubkit inspect xpub661...
  xpubkit inspect zpub6r... -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	key := args[0]
	logKeyUse("inspect", key)

	inspection := xpub.Inspect(key)

	if formatter.IsJSON() {
		return formatter.Print(inspection)
	}

	w := cmd.OutOrStdout()
	if inspection.Valid {
		outln(w, "Valid extended public key")
		out(w, "  Address type: %s\n", inspection.AddressType)
		out(w, "  Network:      %s\n", inspection.Network)
		return nil
	}

	outln(w, "Invalid extended public key")
	out(w, "  Error:   %s\n", inspection.Error)
	out(w, "  Message: %s\n", inspection.Message)
	return nil
}
