// Package cli implements the passguard command line interface: offline
// password generation and strength checks, plus PIN management against the
// local encrypted store.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "passguard",
		Short:         "Password generation, strength scoring and device PIN management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(),
		newStrengthCmd(),
		newPinCmd(),
	)
	return root
}
