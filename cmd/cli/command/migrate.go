package command

import (
	"locallibrary/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeEnv, err := openEnv()
		if err != nil {
			return err
		}
		defer closeEnv()

		if err := database.Migrate(e.db); err != nil {
			return err
		}
		success.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
