// Package favorites implements the favorites command group.
package favorites

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuniweather/weatherapp/internal/app"
)

// Command creates the favorites command with its list, add, remove and toggle subcommands
func Command(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite cities",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite cities",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.Store()
				if err != nil {
					return err
				}
				return a.Renderer(cmd.OutOrStdout()).List("Favorites", store.Favorites())
			},
		},
		&cobra.Command{
			Use:   "add <city>",
			Short: "Add a city to favorites",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				city := strings.Join(args, " ")
				store, err := a.Store()
				if err != nil {
					return err
				}
				if store.AddFavorite(city) {
					cmd.Printf("Added %s to favorites\n", city)
				} else {
					cmd.Printf("%s is already a favorite\n", city)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "remove <city>",
			Aliases: []string{"rm"},
			Short:   "Remove a city from favorites",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				city := strings.Join(args, " ")
				store, err := a.Store()
				if err != nil {
					return err
				}
				if !store.RemoveFavorite(city) {
					return fmt.Errorf("%s is not a favorite", city)
				}
				cmd.Printf("Removed %s from favorites\n", city)
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle <city>",
			Short: "Add the city if it is not a favorite, remove it otherwise",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				city := strings.Join(args, " ")
				store, err := a.Store()
				if err != nil {
					return err
				}
				if store.ToggleFavorite(city) {
					cmd.Printf("Added %s to favorites\n", city)
				} else {
					cmd.Printf("Removed %s from favorites\n", city)
				}
				return nil
			},
		},
	)

	return cmd
}
