package main

import (
	"github.com/spf13/cobra"

	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/graph"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the graph and community schemas",
	Long: `Rewrites legacy graph data, creates the Neo4j constraints and indexes and,
when POSTGRES_URL is set, the community tables. Every step is idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), true, func(*app.Runtime) error {
			cmd.Println("Schemas are up to date.")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the vocabulary classes and predicates that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), false, func(rt *app.Runtime) error {
			created, err := graph.SeedVocabulary(cmd.Context(), rt.Stores.Classes, rt.Stores.Predicates)
			if err != nil {
				return err
			}
			cmd.Printf("Created %d vocabulary entries.\n", created)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
