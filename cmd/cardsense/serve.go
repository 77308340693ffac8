package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linusng/cardsense/internal/api"
	"github.com/linusng/cardsense/internal/matcher"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP matching API",
		Long: `Run the HTTP API exposing card and merchant matching, plus card,
mapping, and override management endpoints. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			merchantMatcher, err := newMerchantMatcher(store)
			if err != nil {
				return err
			}

			cfg := api.DefaultConfig()
			if addr := viper.GetString("server.listen_addr"); addr != "" {
				cfg.ListenAddr = addr
			}
			if origins := viper.GetStringSlice("server.allowed_origins"); len(origins) > 0 {
				cfg.AllowedOrigins = origins
			}

			server := api.NewServer(cfg, store, matcher.NewCardMatcher(store), merchantMatcher, slog.Default())
			return server.Run(ctx)
		},
	}

	cmd.Flags().String("listen", "", "listen address (e.g. :8080)")
	_ = viper.BindPFlag("server.listen_addr", cmd.Flags().Lookup("listen"))

	return cmd
}
