package main

import (
	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cmd.Println(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
