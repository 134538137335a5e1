package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/wxq/internal/app"
	configapp "github.com/doeshing/wxq/internal/application/config"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/wxq/internal/infrastructure/config"
)

const envKeyEditor = "EDITOR"

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(lazy *app.Lazy) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect wxq configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), lazy.Loader())
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration (file plus environment)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd.OutOrStdout(), lazy.Loader())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), lazy.Loader().Path())
				return nil
			},
		},
		newConfigInitCommand(lazy),
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return validateConfiguration(cmd.OutOrStdout(), lazy.Loader())
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value (e.g. endpoint.base_url)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return getConfigurationValue(cmd.OutOrStdout(), lazy.Loader(), args[0])
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value (value accepts YAML syntax)",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfigurationValue(lazy.Loader(), args[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			RunE: func(cmd *cobra.Command, args []string) error {
				return editConfigurationInEditor(lazy.Loader())
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show diff versus default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfigurationDiff(cmd.OutOrStdout(), lazy.Loader())
			},
		},
	)

	return configCmd
}

// newConfigInitCommand creates the 'config init' subcommand
func newConfigInitCommand(lazy *app.Lazy) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfiguration(cmd.OutOrStdout(), lazy.Loader(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (a backup is kept)")
	return cmd
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(out io.Writer, loader *configinfra.FileLoader) error {
	cfg, err := loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// initConfiguration writes defaults unless a file exists and force is unset
func initConfiguration(out io.Writer, loader *configinfra.FileLoader, force bool) error {
	path := loader.Path()
	if _, err := os.Stat(path); err == nil {
		if !force {
			fmt.Fprintf(out, "Configuration already exists at %s (use --force to overwrite)\n", path)
			return nil
		}
		backup, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
		fmt.Fprintf(out, "Backed up previous configuration to %s\n", backup)
	}

	if _, err := loader.Reset(); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
	return nil
}

// validateConfiguration loads and validates the effective configuration
func validateConfiguration(out io.Writer, loader *configinfra.FileLoader) error {
	cfg, err := loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	fmt.Fprintln(out, MsgConfigurationValid)
	return nil
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(out io.Writer, loader *configinfra.FileLoader, keyPath string) error {
	cfg, err := loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := configToMap(cfg)
	if err != nil {
		return err
	}

	value, found := helpers.TraverseNestedMap(cfgMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue updates a configuration value by key path. It edits
// the file contents only, never the environment overlay.
func setConfigurationValue(loader *configinfra.FileLoader, keyPath string, value string) error {
	cfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := configToMap(cfg)
	if err != nil {
		return err
	}

	if !helpers.SetNestedMapValue(cfgMap, strings.Split(keyPath, "."), helpers.ParseYAMLValue(value)) {
		return fmt.Errorf("unknown configuration key %s", keyPath)
	}

	updated, err := mapToConfig(cfgMap)
	if err != nil {
		return err
	}

	return helpers.SaveConfigWithValidation(loader, updated)
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(loader *configinfra.FileLoader) error {
	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = DefaultEditorCommand
	}

	cmd := exec.Command(editor, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}
	return nil
}

// showConfigurationDiff shows the difference between the file and defaults
func showConfigurationDiff(out io.Writer, loader *configinfra.FileLoader) error {
	current, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(configinfra.DefaultConfig(), current)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// configToMap round-trips the config through YAML so keys match the file
func configToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var cfgMap map[string]interface{}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return cfgMap, nil
}

// mapToConfig converts a generic map back to domain.Config
func mapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}

	var updated domain.Config
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return domain.Config{}, fmt.Errorf("invalid value: %s", strings.Join(typeErr.Errors, "; "))
		}
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return updated, nil
}
