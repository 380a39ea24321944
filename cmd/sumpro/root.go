package main

import (
	"github.com/spf13/cobra"

	"sumpro/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sumpro",
		Short: "Sumpro is a job-application intake backend",
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newApplicationsCmd(cfg, &jsonOutput),
		newAdminUserCmd(cfg, &jsonOutput),
		newExportCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
