package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sumpro/internal/api"
	internalauth "sumpro/internal/auth"
	"sumpro/internal/config"
)

func newAdminUserCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin users for browser authentication",
	}
	cmd.AddCommand(newAdminUserAddCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminUserListCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminUserSetDisabledCmd(cfg, jsonOutput, "disable", "Disable one admin user", true))
	cmd.AddCommand(newAdminUserSetDisabledCmd(cfg, jsonOutput, "enable", "Enable one admin user", false))
	return cmd
}

func newAdminUserAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create one admin user",
		Args:  requireExactlyArgs(1, "email is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			email, err := internalauth.NormalizeEmail(args[0])
			if err != nil {
				return err
			}

			passwordBytes, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			password := strings.TrimSpace(string(passwordBytes))

			return withClient(cfg, func(client *api.Client) error {
				created, err := client.CreateAdminUser(cmd.Context(), email, password)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(created)
				}
				return writePlain("created admin user %s (%s)\n", created.Email, created.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}

func newAdminUserListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				users, err := client.ListAdminUsers(cmd.Context())
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(users)
				}
				for _, user := range users {
					state := "enabled"
					if user.Disabled {
						state = "disabled"
					}
					if err := writePlain("%s %s (%s, %s)\n", user.ID, user.Email, user.Role, state); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAdminUserSetDisabledCmd(cfg *config.Config, jsonOutput *bool, use, short string, disabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  requireExactlyArgs(1, "email is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := internalauth.NormalizeEmail(args[0])
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *api.Client) error {
				updated, err := client.SetAdminUserDisabled(cmd.Context(), email, disabled)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(updated)
				}
				state := "enabled"
				if updated.Disabled {
					state = "disabled"
				}
				return writePlain("%s is now %s\n", updated.Email, state)
			})
		},
	}
}
