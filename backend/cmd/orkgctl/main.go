// Command orkgctl runs maintenance tasks against the graph: schema migration,
// vocabulary seeding, bulk export and benchmark summaries.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/pkg/config"
	"orkg-backend/backend/pkg/logger"
)

var (
	cfg *config.Config
	m   = metrics.NewMetrics()

	// openRuntime connects the stores; tests swap it for in-memory stores
	openRuntime = func(ctx context.Context, migrate bool) (*app.Runtime, error) {
		return app.Open(ctx, cfg, m, migrate)
	}
)

var rootCmd = &cobra.Command{
	Use:           "orkgctl",
	Short:         "Maintenance tasks for the ORKG graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Init(cfg.Env, cfg.LogLevel)
	},
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withRuntime opens the stores for the duration of fn
func withRuntime(ctx context.Context, migrate bool, fn func(*app.Runtime) error) error {
	rt, err := openRuntime(ctx, migrate)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())
	return fn(rt)
}
