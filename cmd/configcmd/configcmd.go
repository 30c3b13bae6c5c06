// Package configcmd implements the config command group.
package configcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tuniweather/weatherapp/internal/app"
	"github.com/tuniweather/weatherapp/internal/conf"
)

// Command creates the config command
func Command(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}

	cmd.AddCommand(initCommand(), showCommand(a))
	return cmd
}

func initCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config.yaml",
		Long:        "Writes the default configuration to the per-user config directory unless a file already exists.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{app.AnnotationSkipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				var err error
				if path, err = conf.UserConfigFilePath(); err != nil {
					return err
				}
			}

			written, err := conf.WriteDefaultConfig(path)
			if err != nil {
				return err
			}
			if !written {
				cmd.Printf("Config file already exists: %s\n", path)
				return nil
			}
			cmd.Printf("Wrote default config to %s\n", path)
			cmd.Println("Set openweather.apikey there or export WEATHERAPP_API_KEY.")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Write to this path instead of the user config directory")
	return cmd
}

func showCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := *a.Settings
			settings.OpenWeather.APIKey = MaskSecret(settings.OpenWeather.APIKey)
			settings.Telemetry.DSN = MaskSecret(settings.Telemetry.DSN)

			data, err := yaml.Marshal(&settings)
			if err != nil {
				return fmt.Errorf("error marshaling settings: %w", err)
			}

			if used := a.Viper.ConfigFileUsed(); used != "" {
				cmd.Printf("# %s\n", used)
			} else {
				cmd.Println("# no config file, defaults and environment only")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// MaskSecret keeps the last four characters of s.
func MaskSecret(s string) string {
	const visible = 4
	if s == "" {
		return ""
	}
	if len(s) <= visible {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visible) + s[len(s)-visible:]
}
