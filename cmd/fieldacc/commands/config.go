package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/fieldacc/internal/config"
)

const redacted = "********"

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with default values.

By default, the file is created at $XDG_CONFIG_HOME/fieldacc/config.yaml.
Use --config to specify a custom path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := withSetup(a, &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	})

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
	return nil
}

func (a *app) runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := *a.cfg
	for _, secret := range []*string{&cfg.Store.S3.SecretKey, &cfg.Store.Minio.SecretKey} {
		if *secret != "" {
			*secret = redacted
		}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return err
	}
	return enc.Close()
}
