package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/carhythm/carhythm/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Abandon the current assessment and clear saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		progressStore, err := resolveProgressStore(cmd)
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}

		rec := progressStore.Load()
		if rec == nil {
			fmt.Println("No assessment in progress.")
			return nil
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Printf("Abandon session %s and clear saved progress? [y/N] ", rec.SessionID)
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			answer := strings.ToLower(strings.TrimSpace(line))
			if answer != "y" && answer != "yes" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		// Tell the server first; local state is cleared regardless so a
		// dead backend cannot pin the client to a stale session.
		client, err := resolveClient(cmd)
		if err == nil {
			if err := client.AbandonSession(cmd.Context(), rec.SessionID); err != nil {
				fmt.Fprintln(os.Stderr, "Could not abandon server session:", err)
			}
		}

		recordAbandon(cmd, rec.SessionID)
		progressStore.Clear()
		fmt.Println("Progress cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}

// recordAbandon mirrors the abandonment into the local event log.
func recordAbandon(cmd *cobra.Command, sessionID string) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return
	}
	defer st.Close()

	events, err := st.EventRepo()
	if err != nil {
		return
	}
	if err := events.AppendSession(cmd.Context(), store.SessionEventData{
		SessionID: sessionID,
		Action:    "abandon",
	}); err != nil {
		fmt.Fprintln(os.Stderr, "Record abandon event:", err)
	}
}
