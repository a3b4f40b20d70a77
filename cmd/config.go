package cmd

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/textcomplete/internal/ui"
	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

var configOutput string

// configCmd groups configuration-related subcommands similar to gh-style CLIs.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage textcomplete configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show merged configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.FromContextOrDefault(rootCtx)
		cfg, err := loadMergedConfig(run.ConfigPath)
		if err != nil {
			return err
		}
		out, err := encodeConfig(cfg, configOutput)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in default configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(ui.DefaultConfigYAML())
		return err
	},
}

var configThemesCmd = &cobra.Command{
	Use:     "themes",
	Aliases: []string{"theme"},
	Short:   "List available themes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.FromContextOrDefault(rootCtx)
		cfg, err := loadMergedConfig(run.ConfigPath)
		if err != nil {
			return err
		}
		def := cfg.Theme.Default
		if def == "" {
			def = "dark"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available themes (default: %s):\n", def)
		for _, name := range cfg.ThemeNames() {
			fmt.Fprintf(out, " - %s\n", name)
		}
		return nil
	},
}

func encodeConfig(cfg ui.Config, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("encode config: %w", err)
		}
		return string(data), nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("encode config: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported output %q (expected yaml or toml)", format)
}

func init() { //nolint:gochecknoinits
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|toml")
	configCmd.AddCommand(configGetCmd, configDefaultsCmd, configThemesCmd)
}
