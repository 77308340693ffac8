package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
	"github.com/linusng/cardsense/internal/matcher"
	"github.com/linusng/cardsense/internal/model"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a wallet card name or merchant string",
	}

	cmd.AddCommand(matchCardCmd())
	cmd.AddCommand(matchMerchantCmd())

	return cmd
}

func matchCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "card <wallet name>",
		Short: "Match a wallet-displayed card name to a portfolio card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			walletName := strings.Join(args, " ")
			match := matcher.NewCardMatcher(store).Match(ctx, user, walletName)

			if match == nil {
				cmd.Println(cli.FormatError(fmt.Sprintf("No card matched %q; select one manually and save a mapping", walletName)))
				return nil
			}

			label := "fuzzy match"
			if match.Source == model.CardSourceVerified {
				label = "verified mapping"
			}
			cmd.Printf("%s %s (%s, %s)\n",
				cli.FormatSuccess(match.CardName),
				cli.SubtleStyle.Render(match.CardID),
				label,
				cli.FormatConfidence(match.Confidence))
			return nil
		},
	}
}

func matchMerchantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merchant <merchant string>",
		Short: "Classify a merchant string into a spending category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			m, err := newMerchantMatcher(store)
			if err != nil {
				return err
			}

			match := m.Match(ctx, user, strings.Join(args, " "))

			cmd.Printf("%s (%s, %s)\n",
				cli.BoldStyle.Render(match.CategoryName),
				match.Source,
				cli.FormatConfidence(match.Confidence))
			if match.FallbackReason != "" {
				cmd.Println(cli.SubtleStyle.Render("fallback: " + match.FallbackReason))
			}
			return nil
		},
	}
}
