package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"tagdo/internal/config"
	"tagdo/internal/storage"
)

func newExportCommand(o *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved state to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := storage.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			out, err := storage.Encode(e.session.Document(), f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

func newPathsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved config, storage and log paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.CLIFlags{File: o.file, ConfigPath: o.configPath})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config:  %s\n", cfg.Path)
			fmt.Fprintf(w, "storage: %s\n", cfg.Storage.Path)
			fmt.Fprintf(w, "log:     %s\n", cfg.Log.Path)
			return nil
		},
	}
}
