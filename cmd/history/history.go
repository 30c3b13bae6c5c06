// Package history implements the history command group.
package history

import (
	"github.com/spf13/cobra"

	"github.com/tuniweather/weatherapp/internal/app"
)

// Command creates the history command. Without a subcommand it lists.
func Command(a *app.App) *cobra.Command {
	list := func(cmd *cobra.Command, args []string) error {
		store, err := a.Store()
		if err != nil {
			return err
		}
		return a.Renderer(cmd.OutOrStdout()).List("Recent searches", store.History())
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent searches",
		Long:  "Recent searches, most recent first. At most ten are kept.",
		Args:  cobra.NoArgs,
		RunE:  list,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent searches",
			Args:  cobra.NoArgs,
			RunE:  list,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget all recent searches",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.Store()
				if err != nil {
					return err
				}
				store.ClearHistory()
				cmd.Println("Search history cleared")
				return nil
			},
		},
	)

	return cmd
}
