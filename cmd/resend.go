package cmd

import (
	"fmt"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/spf13/cobra"
)

var resendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Re-send the results report email",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := resolveSessionID(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		client, err := resolveClient(cmd)
		if err != nil {
			return fmt.Errorf("configure API client: %w", err)
		}

		if err := client.ResendResults(cmd.Context(), api.ResendRequest{
			SessionID: sessionID,
			Email:     email,
		}); err != nil {
			return fmt.Errorf("resend results: %w", err)
		}

		fmt.Println("Report sent to", email)
		return nil
	},
}

func init() {
	resendCmd.Flags().String("session", "", "Session ID (defaults to the saved session)")
	resendCmd.Flags().String("email", "", "Address to send the report to (required)")
	_ = resendCmd.MarkFlagRequired("email")
}
