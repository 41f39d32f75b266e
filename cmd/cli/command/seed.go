package command

import (
	"fmt"

	"locallibrary/database"
	"locallibrary/database/seed"

	"github.com/spf13/cobra"
)

var seedMigrate bool

var seedCmd = &cobra.Command{
	Use:   "seed [file.json]",
	Short: "Load genres, authors, books and copies from a JSON file",
	Long: `Load a catalog fixture in a single transaction. Genres, authors and books
that already exist are reused, so running the same file twice is harmless.
See database/seed/testdata/catalog.json for the format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := seed.ReadFile(args[0])
		if err != nil {
			return err
		}

		e, closeEnv, err := openEnv()
		if err != nil {
			return err
		}
		defer closeEnv()

		if seedMigrate {
			if err := database.Migrate(e.db); err != nil {
				return err
			}
		}

		sum, err := seed.Load(cmd.Context(), e.db, data, e.log)
		if err != nil {
			return fmt.Errorf("seed failed, nothing was written: %w", err)
		}

		out := cmd.OutOrStdout()
		success.Fprintln(out, "✓ Catalog loaded.")
		fmt.Fprintf(out, "Genres: %d | Authors: %d | Books: %d | Copies: %d\n", sum.Genres, sum.Authors, sum.Books, sum.Copies)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "apply the schema before loading")
	rootCmd.AddCommand(seedCmd)
}
