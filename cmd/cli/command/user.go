package command

import (
	"fmt"

	"locallibrary/internal/http-api/models"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User account commands",
	Long: fmt.Sprintf(`Create accounts and manage their capabilities.

Known capabilities:
  %s  renew, check out and return copies; see all loans
  %s   create, update and delete catalog records`, models.CanMarkReturned, models.CanEditCatalog),
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		grants, _ := cmd.Flags().GetStringSlice("grant")

		for _, c := range grants {
			if !models.IsKnownCapability(c) {
				return fmt.Errorf("unknown capability %q", c)
			}
		}

		e, closeEnv, err := openEnv()
		if err != nil {
			return err
		}
		defer closeEnv()

		auth := e.authService()
		user, err := auth.Register(cmd.Context(), username, password, email)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		for _, c := range grants {
			if err := auth.GrantCapability(cmd.Context(), username, c); err != nil {
				return fmt.Errorf("user created but grant failed: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		success.Fprintln(out, "✓ User created.")
		fmt.Fprintf(out, "UserID: %s\n", user.ID)
		for _, c := range grants {
			fmt.Fprintf(out, "Granted: %s\n", c)
		}
		return nil
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant [username] [capability]",
	Short: "Grant a capability to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeEnv, err := openEnv()
		if err != nil {
			return err
		}
		defer closeEnv()

		if err := e.authService().GrantCapability(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to grant capability: %w", err)
		}
		success.Fprintf(cmd.OutOrStdout(), "✓ Granted %s to %s. It applies from their next login.\n", args[1], args[0])
		return nil
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [username] [capability]",
	Short: "Revoke a capability from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeEnv, err := openEnv()
		if err != nil {
			return err
		}
		defer closeEnv()

		if err := e.authService().RevokeCapability(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to revoke capability: %w", err)
		}
		success.Fprintf(cmd.OutOrStdout(), "✓ Revoked %s from %s.\n", args[1], args[0])
		return nil
	},
}

func init() {
	createUserCmd.Flags().String("username", "", "username")
	createUserCmd.Flags().String("email", "", "email address")
	createUserCmd.Flags().String("password", "", "password")
	createUserCmd.Flags().StringSlice("grant", nil, "capabilities to grant right away")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("email")
	createUserCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createUserCmd, grantCmd, revokeCmd)
	rootCmd.AddCommand(userCmd)
}
