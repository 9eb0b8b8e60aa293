package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List assessment modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient(cmd)
		if err != nil {
			return fmt.Errorf("configure API client: %w", err)
		}

		modules, err := client.Modules(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch modules: %w", err)
		}

		for _, m := range modules {
			fmt.Printf("%s %s — %d questions, ~%d min\n",
				m.Emoji, m.Title, m.TotalQuestions, m.EstimatedMinutes)
			if m.Description != "" {
				fmt.Println("   " + m.Description)
			}
		}
		return nil
	},
}
