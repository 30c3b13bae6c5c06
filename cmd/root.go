// Package cmd builds the weatherapp command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuniweather/weatherapp/cmd/configcmd"
	"github.com/tuniweather/weatherapp/cmd/favorites"
	"github.com/tuniweather/weatherapp/cmd/history"
	"github.com/tuniweather/weatherapp/cmd/show"
	"github.com/tuniweather/weatherapp/internal/app"
)

// RootCommand creates and returns the root command
func RootCommand(a *app.App) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "weatherapp",
		Short:         "Current weather and forecasts from OpenWeather",
		Version:       a.Runtime.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./config.yaml or <user config dir>/weatherapp/config.yaml)")
	if err := setupFlags(rootCmd, a); err != nil {
		// flag names are static, so this only fires on a programming error
		panic(err)
	}

	rootCmd.AddCommand(
		show.Command(a),
		favorites.Command(a),
		history.Command(a),
		configcmd.Command(a),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[app.AnnotationSkipSetup] == "true" {
			return nil
		}
		return a.Setup(configFile)
	}

	return rootCmd
}

// setupFlags defines flags that override configuration values and binds them to viper
func setupFlags(rootCmd *cobra.Command, a *app.App) error {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.StringP("units", "u", "", "Unit system: metric or imperial")
	flags.String("data-dir", "", "Directory for favorites, history and current city")

	bindings := map[string]string{
		"debug":           "debug",
		"display.units":   "units",
		"storage.datadir": "data-dir",
	}
	for key, flag := range bindings {
		if err := a.Viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}
