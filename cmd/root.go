package cmd

import (
	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carhythm",
	Short: "Career assessment in your terminal",
	Long:  "CaRhythm — terminal client for the CaRhythm career and personality assessment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides CARHYTHM_API_URL env var)")
	rootCmd.PersistentFlags().String("state", "", "Path to progress state file (overrides CARHYTHM_STATE env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event mirror (overrides CARHYTHM_DB env var)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(resendCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveClient builds the API client using the --api-url flag (highest
// priority), then CARHYTHM_* env vars, then defaults.
func resolveClient(cmd *cobra.Command) (*api.Client, error) {
	cfg := api.ConfigFromEnv()
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.BaseURL = u
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return api.New(cfg), nil
}

// resolveProgressStore returns the two-backend progress store, honoring
// the --state flag over CARHYTHM_STATE and the XDG default.
func resolveProgressStore(cmd *cobra.Command) (*progress.Store, error) {
	if p, _ := cmd.Flags().GetString("state"); p != "" {
		cookiePath, err := progress.DefaultCookiePath()
		if err != nil {
			return nil, err
		}
		return progress.NewStore(progress.NewFileBackend(p), progress.NewCookieBackend(cookiePath)), nil
	}
	return progress.DefaultStore()
}

// resolveDBPath returns the event mirror path using the --db flag
// (highest priority), then CARHYTHM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
