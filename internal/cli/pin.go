package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/passguard/passguard-go/internal/config"
	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/pin"
	"github.com/passguard/passguard-go/internal/storage/bolt"
)

func newPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the device PIN",
	}
	cmd.AddCommand(
		newPinSetupCmd(),
		newPinVerifyCmd(),
		newPinChangeCmd(),
		newPinRemoveCmd(),
	)
	return cmd
}

// withAuthenticator opens the local store, builds the PIN authenticator and
// hands it to fn, closing the store afterwards.
func withAuthenticator(fn func(a *pin.Authenticator) error) error {
	cfg := config.Load()
	src := crypto.NewRandomSource()

	store, err := bolt.Open(cfg.StorePath, cfg.StorePassphrase, src)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	return fn(pin.New(store, src, crypto.SHA256Digest{}))
}

// promptPin reads a PIN from the terminal without echoing it.
func promptPin(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading pin: %w", err)
	}
	return string(raw), nil
}

func newPinSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure a new device PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthenticator(func(a *pin.Authenticator) error {
				entered, err := promptPin("New PIN (4-6 digits): ")
				if err != nil {
					return err
				}
				confirm, err := promptPin("Confirm PIN: ")
				if err != nil {
					return err
				}
				if entered != confirm {
					return errors.New("pins do not match")
				}

				if err := a.Setup(cmd.Context(), entered); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "PIN configured")
				return nil
			})
		},
	}
}

func newPinVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the device PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthenticator(func(a *pin.Authenticator) error {
				entered, err := promptPin("PIN: ")
				if err != nil {
					return err
				}

				result, err := a.Verify(cmd.Context(), entered)
				if err != nil {
					return err
				}
				if !result.Valid {
					return fmt.Errorf("incorrect pin, %d attempts remaining", result.AttemptsRemaining)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "PIN verified")
				return nil
			})
		},
	}
}

func newPinChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change",
		Short: "Change the device PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthenticator(func(a *pin.Authenticator) error {
				current, err := promptPin("Current PIN: ")
				if err != nil {
					return err
				}
				next, err := promptPin("New PIN (4-6 digits): ")
				if err != nil {
					return err
				}

				if err := a.Change(cmd.Context(), current, next); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "PIN changed")
				return nil
			})
		},
	}
}

func newPinRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the device PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthenticator(func(a *pin.Authenticator) error {
				current, err := promptPin("Current PIN: ")
				if err != nil {
					return err
				}

				if err := a.Remove(cmd.Context(), current); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "PIN removed")
				return nil
			})
		},
	}
}
