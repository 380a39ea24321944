package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sumpro/internal/api"
	"sumpro/internal/config"
	"sumpro/internal/format"
)

func newExportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var outputPath string
	var formatName string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all applications as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, ok := format.ByName(formatName)
			if !ok {
				return fmt.Errorf("invalid --format %q (json or yaml)", formatName)
			}
			return withClient(cfg, func(client *api.Client) error {
				apps, err := client.ListApplications(cmd.Context())
				if err != nil {
					return err
				}

				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return formatter.Write(w, apps)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&formatName, "format", "json", "output format: json or yaml")

	return cmd
}
