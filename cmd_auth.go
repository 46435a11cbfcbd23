package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/tripshare/domain"
	"github.com/CrestNiraj12/tripshare/infra/auth"
	"github.com/CrestNiraj12/tripshare/infra/config"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := auth.EnsureLogin(cmd.Context(), cfg.BaseURL, cfg.AppID, cfg.TokenPath, cfg.CallbackPort); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in to %s.\n", domain.AppTitle)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := auth.Logout(cfg.TokenPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
