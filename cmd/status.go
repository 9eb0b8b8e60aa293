package cmd

import (
	"fmt"
	"os"

	"github.com/carhythm/carhythm/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saved assessment progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		progressStore, err := resolveProgressStore(cmd)
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}

		summary := progressStore.Summary()
		if summary == nil {
			fmt.Println("No assessment in progress.")
			return nil
		}

		fmt.Println("Session:", summary.SessionID)
		fmt.Printf("Progress: %d%% complete\n", int(summary.Percentage))
		fmt.Printf("XP earned: %d\n", summary.TotalXP)
		fmt.Printf("Questions answered: %d\n", summary.QuestionsAnswered)
		if !summary.LastActivity.IsZero() {
			fmt.Println("Last activity:", summary.LastActivity.Local().Format("Jan 2, 2006 15:04"))
		}

		printLocalTotals(cmd, summary.SessionID)
		return nil
	},
}

// printLocalTotals adds the event mirror's view of the session when the
// mirror is available. Failures are reported but never fatal.
func printLocalTotals(cmd *cobra.Command, sessionID string) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return
	}
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return
	}
	defer st.Close()

	events, err := st.EventRepo()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return
	}

	totals, err := events.SessionTotals(cmd.Context(), sessionID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Read local events:", err)
		return
	}
	fmt.Printf("Locally mirrored: %d answers, %d XP\n", totals.Answers, totals.XP)
}
