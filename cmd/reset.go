package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resetEvents bool
	resetPhotos bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset system state (access-event log, captured photos)",
	Long:  "Clears recorded data. By default, it resets everything. Use flags to clear specific components.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no flags are set, default to clearing everything
		if !resetEvents && !resetPhotos {
			resetEvents = true
			resetPhotos = true
		}

		reader := bufio.NewReader(os.Stdin)

		if resetEvents {
			if DB == nil {
				fmt.Fprintln(os.Stderr, "No database configured, skipping event log.")
			} else if confirm(reader, "Are you sure you want to DROP the access-event table?") {
				fmt.Println("Clearing access-event log...")
				if err := DB.Reset(cmd.Context()); err != nil {
					return fmt.Errorf("resetting database: %w", err)
				}
			}
		}

		if resetPhotos {
			if confirm(reader, fmt.Sprintf("Are you sure you want to delete all captured photos in %s?", Cfg.PhotoDir)) {
				fmt.Println("Clearing captured photos...")
				removeDir(Cfg.PhotoDir)
			}
		}

		fmt.Println("Reset complete.")
		return nil
	},
}

func init() {
	// The root command already owns --db for the connection string, so the
	// event-log toggle gets its own name.
	resetCmd.Flags().BoolVar(&resetEvents, "events", false, "Clear the access-event log")
	resetCmd.Flags().BoolVar(&resetPhotos, "photos", false, "Delete captured intruder photos")
	rootCmd.AddCommand(resetCmd)
}

func confirm(r *bufio.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}

func removeDir(path string) {
	if err := os.RemoveAll(path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove %s: %v\n", path, err)
	}
}
