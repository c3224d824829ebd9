package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/progression"
	"github.com/rylalabs/ryla/internal/ui/components"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the lesson path and which stars are unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			g := a.Gate()
			snap, err := g.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), components.StarPath(g.Path(), progression.Recompute(g.Path(), snap), snap.Completed))
			return nil
		})
	},
}
