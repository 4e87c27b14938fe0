package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/announcer/internal/config"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Create and check the settings file",
	}
	cmd.AddCommand(newSettingsInitCommand(rootOpts))
	cmd.AddCommand(newSettingsValidateCommand(rootOpts))
	return cmd
}

func newSettingsInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Long: `Write the default settings to --settings. Every rule starts disabled.
The format follows the file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsInit(rootOpts.Settings, force, cmd)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func runSettingsInit(path string, force bool, cmd *cobra.Command) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !force:
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	case err == nil:
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	store, err := config.NewStore(path, nil)
	if err != nil {
		return err
	}
	if err := store.Save(config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", store.Path())
	return nil
}

func newSettingsValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the settings file for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(rootOpts.Settings)
			if err != nil {
				return fmt.Errorf("read settings: %w", err)
			}
			cfg, err := config.Decode(data, rootOpts.Settings)
			if err != nil {
				return fmt.Errorf("parse %s: %w", rootOpts.Settings, err)
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", rootOpts.Settings)
			return nil
		},
	}
}
