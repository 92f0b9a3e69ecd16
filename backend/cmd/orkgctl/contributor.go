package main

import (
	"github.com/spf13/cobra"

	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/ids"
)

var (
	contributorName  string
	contributorEmail string
	contributorID    string
)

var contributorCmd = &cobra.Command{
	Use:   "contributor",
	Short: "Manage contributors",
}

var contributorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a contributor so it can join observatories",
	Example: `  orkgctl contributor add --name "Jane Doe" --email jane@example.org
  orkgctl contributor add --id 6f1c52a4-7e4b-4b1e-9d2e-1c1a3c0f4b11 --name "Jane Doe"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var id ids.ContributorID
		if contributorID != "" {
			parsed, err := ids.ParseContributorID(contributorID)
			if err != nil {
				return err
			}
			id = parsed
		}

		return withRuntime(cmd.Context(), false, func(rt *app.Runtime) error {
			created, err := community.NewContributorService(rt.Stores.Contributors).Create(cmd.Context(), community.CreateContributorCommand{
				ID:    id,
				Name:  contributorName,
				Email: contributorEmail,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Created contributor %s.\n", created)
			return nil
		})
	},
}

func init() {
	contributorAddCmd.Flags().StringVar(&contributorName, "name", "", "display name")
	contributorAddCmd.Flags().StringVar(&contributorEmail, "email", "", "email address, used for the avatar")
	contributorAddCmd.Flags().StringVar(&contributorID, "id", "", "contributor id; a random one is assigned when empty")
	_ = contributorAddCmd.MarkFlagRequired("name")

	contributorCmd.AddCommand(contributorAddCmd)
	rootCmd.AddCommand(contributorCmd)
}
