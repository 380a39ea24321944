package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sumpro/internal/api"
	"sumpro/internal/config"
)

func newApplicationsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Review submitted job applications",
	}

	cmd.AddCommand(
		newApplicationsListCmd(cfg, jsonOutput),
		newApplicationsShowCmd(cfg, jsonOutput),
		newApplicationsSetStatusCmd(cfg, jsonOutput),
		newApplicationsDeleteCmd(cfg, jsonOutput),
	)
	return cmd
}

func newApplicationsListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				apps, err := client.ListApplications(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(apps)
				}
				return writeApplicationList(apps)
			})
		},
	}
}

func newApplicationsShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application",
		Args:  requireExactlyArgs(1, "application id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				app, err := client.GetApplication(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(app)
				}
				return writeApplicationDetail(app)
			})
		},
	}
}

func newApplicationsSetStatusCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set an application's review status",
		Long:  "Valid statuses: New, Pending, Interview, Rejected, Hired (case-insensitive).",
		Args:  requireExactlyArgs(2, "application id and status are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				app, err := client.UpdateApplicationStatus(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(app)
				}
				return writePlain("%s -> %s\n", app.ID, app.Status)
			})
		},
	}
}

func newApplicationsDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application and its stored resume",
		Args:  requireExactlyArgs(1, "application id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deletion is permanent; re-run with --yes to confirm")
			}
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.DeleteApplication(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("deleted %s\n", resp.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func writeApplicationList(apps []api.Application) error {
	for _, app := range apps {
		if err := writePlain("%s\n", formatApplicationLine(app)); err != nil {
			return err
		}
	}
	return nil
}

func writeApplicationDetail(app api.Application) error {
	lines := []string{
		fmt.Sprintf("id: %s", app.ID),
		fmt.Sprintf("full_name: %s", app.FullName),
		fmt.Sprintf("email: %s", app.Email),
		fmt.Sprintf("position: %s", app.Position),
		fmt.Sprintf("status: %s", app.Status),
		fmt.Sprintf("resume: %s", app.ResumeLocation),
		fmt.Sprintf("created_at: %s", formatTime(app.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(app.UpdatedAt)),
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatApplicationLine(app api.Application) string {
	return fmt.Sprintf("%s [%s] %s <%s> - %s", app.ID, app.Status, app.FullName, app.Email, app.Position)
}
