package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errSecretMismatch signals a failed verification without printing a second
// error line; the outcome message was already written to stdout.
var errSecretMismatch = errors.New("secret mismatch")

// readSecret is swapped in tests to avoid requiring a TTY.
var readSecret = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Prompt for the shared secret and run the verification pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command) error {
	fmt.Fprint(os.Stderr, "Secret: ")
	secret, err := readSecret()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	eng, cleanup := newEngine()
	defer cleanup()

	res := eng.Evaluate(cmd.Context(), secret)
	fmt.Println(res.Message())

	if !res.SecretOK {
		return errSecretMismatch
	}
	return nil
}
