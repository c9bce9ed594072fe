package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/xpubkit/internal/xpub"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// deriveIndex is the address index to derive.
	deriveIndex uint32
	// deriveChange selects the change branch instead of receive.
	deriveChange bool
	// deriveNative forces native segwit encoding regardless of key prefix.
	deriveNative bool
)

// deriveCmd derives a single address from an extended public key.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var deriveCmd = &cobra.Command{
	Use:   "derive <extended-key>",
	Short: "Derive a single address",
	Long: `Derive one address from an extended public key.

The address format follows the key's prefix: xpub keys produce legacy (1...)
addresses, ypub keys produce wrapped segwit (3...) addresses, and zpub keys
produce native segwit (bc1q...) addresses. Testnet prefixes (tpub, upub,
vpub) produce the corresponding testnet formats.

Examples:
  xpubkit derive zpub6r... --index 0
  xpubkit derive xpub661... --index 5 --change
  xpubkit derive xpub661... --index 0 --native`,
	Args: cobra.ExactArgs(1),
	RunE: runDerive,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(deriveCmd)

	deriveCmd.Flags().Uint32VarP(&deriveIndex, "index", "i", 0, "address index within the branch")
	deriveCmd.Flags().BoolVarP(&deriveChange, "change", "c", false, "derive on the change branch")
	deriveCmd.Flags().BoolVar(&deriveNative, "native", false, "force native segwit encoding regardless of key prefix")
}

func runDerive(cmd *cobra.Command, args []string) error {
	key := args[0]
	branch := branchFromFlags(deriveChange)
	logKeyUse("derive", key)

	session, err := newSessionFromFlags(key)
	if err != nil {
		return err
	}

	var addr *xpub.DerivedAddress
	if deriveNative {
		addr, err = session.DeriveNativeSegwit(branch, deriveIndex)
	} else {
		addr, err = session.Derive(branch, deriveIndex)
	}
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(addr)
	}

	w := cmd.OutOrStdout()
	out(w, "%s  %s\n", addr.Path, addr.Address)
	return nil
}
