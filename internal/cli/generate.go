package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/generator"
)

func newGenerateCmd() *cobra.Command {
	var (
		length         int
		noUpper        bool
		noLower        bool
		noDigits       bool
		noSymbols      bool
		excludeSimilar bool
		noRepeat       bool
		readable       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(crypto.NewRandomSource())
			result, err := gen.Generate(generator.Options{
				Length:           length,
				Uppercase:        !noUpper,
				Lowercase:        !noLower,
				Digits:           !noDigits,
				Symbols:          !noSymbols,
				ExcludeSimilar:   excludeSimilar,
				PreventRepeating: noRepeat,
				ReadableFormat:   readable,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if readable {
				fmt.Fprintln(out, result.Formatted)
			} else {
				fmt.Fprintln(out, result.Password)
			}
			fmt.Fprintf(out, "entropy: %.1f bits, strength: %s (%d/100)\n",
				result.Entropy, result.Strength.Level, result.Strength.Score)
			if result.RelaxedNoRepeat {
				fmt.Fprintln(out, "note: the no-repeat constraint was relaxed to complete generation")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", generator.DefaultOptions().Length, "password length")
	cmd.Flags().BoolVar(&noUpper, "no-upper", false, "exclude uppercase letters")
	cmd.Flags().BoolVar(&noLower, "no-lower", false, "exclude lowercase letters")
	cmd.Flags().BoolVar(&noDigits, "no-digits", false, "exclude digits")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "exclude symbols")
	cmd.Flags().BoolVar(&excludeSimilar, "exclude-similar", false, "exclude similar-looking characters (0O1lI|)")
	cmd.Flags().BoolVar(&noRepeat, "no-repeat", false, "prevent adjacent repeated characters")
	cmd.Flags().BoolVar(&readable, "readable", false, "print in readable 4-character groups")

	return cmd
}
