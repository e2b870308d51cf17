package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/config"
)

// configFileName is the file written by init.
const configFileName = ".screenscorerc.json"

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .screenscorerc.json in the root",
		Long: `Writes the effective configuration (defaults, environment and flags) to
.screenscorerc.json in the screening root, ready to be edited. Add custom
grade rules under "gradeRules".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Root, configFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			// The file lives in the root, so the root is always "." from its view.
			saved := *cfg
			saved.Root = "."
			if err := config.SaveConfig(&saved, path); err != nil {
				return err
			}
			if !cfg.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
