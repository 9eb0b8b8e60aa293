package cmd

import (
	"fmt"
	"os"

	"github.com/carhythm/carhythm/internal/app"
	"github.com/carhythm/carhythm/internal/store"
	"github.com/spf13/cobra"
)

// runApp builds the shared services and launches the TUI.
func runApp(cmd *cobra.Command) error {
	client, err := resolveClient(cmd)
	if err != nil {
		return fmt.Errorf("configure API client: %w", err)
	}

	progressStore, err := resolveProgressStore(cmd)
	if err != nil {
		return fmt.Errorf("open progress store: %w", err)
	}

	deps := app.Deps{
		Client:   client,
		Progress: progressStore,
	}

	// The event mirror is best-effort: the assessment works without it,
	// it only improves offline resume and the status command.
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return app.Run(deps)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return app.Run(deps)
	}
	defer st.Close()

	events, err := st.EventRepo()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local event mirror unavailable:", err)
		return app.Run(deps)
	}
	deps.Events = events

	return app.Run(deps)
}
