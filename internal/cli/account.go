package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register the account (replaces any existing one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"userHandle": user,
				"password":   pass,
			}
			var result MessageResult

			if err := client.Post(cmd.Context(), "/signup", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User handle, at least 6 characters (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password, at least 6 characters (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"userHandle": user,
				"password":   pass,
			}
			var result LoginResult

			if err := client.Post(cmd.Context(), "/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.JSONWebToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User handle (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
