package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Fetch the results profile for a completed assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := resolveSessionID(cmd)
		if err != nil {
			return err
		}

		client, err := resolveClient(cmd)
		if err != nil {
			return fmt.Errorf("configure API client: %w", err)
		}

		scores, err := client.Scores(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("fetch results: %w", err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, scores.Profile, "", "  "); err != nil {
			fmt.Println(string(scores.Profile))
			return nil
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	resultsCmd.Flags().String("session", "", "Session ID (defaults to the saved session)")
}

// resolveSessionID prefers the --session flag over the saved record.
func resolveSessionID(cmd *cobra.Command) (string, error) {
	if id, _ := cmd.Flags().GetString("session"); id != "" {
		return id, nil
	}
	progressStore, err := resolveProgressStore(cmd)
	if err != nil {
		return "", fmt.Errorf("open progress store: %w", err)
	}
	if id := progressStore.SessionID(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no saved session; pass --session")
}
