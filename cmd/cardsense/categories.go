package main

import (
	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
	"github.com/linusng/cardsense/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List known merchant categories",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(cli.FormatTitle("Categories"))
			for _, id := range model.AllCategories {
				cmd.Printf("%s  %s\n",
					cli.BoldStyle.Render(string(id)),
					cli.SubtleStyle.Render(id.Name()))
			}
		},
	}
}
