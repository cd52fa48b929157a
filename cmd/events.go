package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent access events from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvents(cmd)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum number of events to show")
}

func runEvents(cmd *cobra.Command) error {
	if DB == nil {
		return fmt.Errorf("no database configured: set FACEGATE_DATABASE_URL or pass --db")
	}

	events, err := DB.ListEvents(cmd.Context(), eventsLimit)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No access events recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TIME\tOUTCOME\tLABEL\tPHOTO\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-----\t-----\t------")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.OccurredAt.Local().Format("2006-01-02 15:04:05"),
			ev.Kind, ev.Label, ev.PhotoPath, ev.Detail)
	}
	return w.Flush()
}
