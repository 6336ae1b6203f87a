package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"linkarr/internal/config"
)

func newConfigCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an annotated sample config to the default location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			source := path
			if !exists {
				source = "(defaults, no file found)"
			}
			headers := []string{"Setting", "Value"}
			rows := [][]string{
				{"config file", source},
				{"paths.source_dir", cfg.Paths.SourceDir},
				{"paths.library_dir", cfg.Paths.LibraryDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"matching.part_spacing_variants", fmt.Sprintf("%t", cfg.Matching.PartSpacingVariants)},
				{"workers.count", fmt.Sprintf("%d", cfg.Workers.Count)},
				{"cleanup.enabled", fmt.Sprintf("%t", cfg.Cleanup.Enabled)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Println(renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, exists, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			fmt.Println(path)
			if !exists {
				fmt.Fprintln(os.Stderr, "note: file does not exist yet; run 'linkarr config init'")
			}
			return nil
		},
	})

	return cmd
}
