package cli

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// rangeStart is the first index to derive.
	rangeStart uint32
	// rangeCount is how many consecutive addresses to derive.
	rangeCount uint32
	// rangeChange selects the change branch instead of receive.
	rangeChange bool
)

// rangeCmd derives a batch of consecutive addresses.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rangeCmd = &cobra.Command{
	Use:   "range <extended-key>",
	Short: "Derive a batch of consecutive addresses",
	Long: `Derive a contiguous run of addresses from an extended public key.

The key is parsed once for the whole batch, so deriving twenty addresses
costs one parse and twenty child derivations. Results are always in index
order.

Examples:
  xpubkit range zpub6r... --start 0 --count 20
  xpubkit range xpub661... --count 10 --change
  xpubkit range xpub661... --start 100 --count 50 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runRange,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(rangeCmd)

	rangeCmd.Flags().Uint32VarP(&rangeStart, "start", "s", 0, "first address index")
	rangeCmd.Flags().Uint32Var(&rangeCount, "count", 0, "number of addresses (default from config)")
	rangeCmd.Flags().BoolVarP(&rangeChange, "change", "c", false, "derive on the change branch")
}

func runRange(_ *cobra.Command, args []string) error {
	key := args[0]
	branch := branchFromFlags(rangeChange)
	logKeyUse("range", key)

	count := rangeCount
	if count == 0 && cfg.Derivation.DefaultCount > 0 {
		count = uint32(cfg.Derivation.DefaultCount) //nolint:gosec // G115: config default is small and positive
	}

	session, err := newSessionFromFlags(key)
	if err != nil {
		return err
	}

	addresses, err := session.DeriveRange(branch, rangeStart, count)
	if err != nil {
		return err
	}

	return formatter.PrintAddresses(addresses)
}
