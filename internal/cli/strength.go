package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passguard/passguard-go/internal/strength"
)

func newStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength <password>",
		Short: "Score a password's strength",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := args[0]
			result := strength.Calculate(password)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score:      %d/100 (%s)\n", result.Score, result.Level)
			fmt.Fprintf(out, "entropy:    %.1f bits\n", result.Entropy)
			fmt.Fprintf(out, "crack time: %s\n", strength.EstimateCrackTime(password))
			if len(result.Feedback) > 0 {
				fmt.Fprintf(out, "feedback:   %s\n", strings.Join(result.Feedback, "; "))
			}
			return nil
		},
	}
}
