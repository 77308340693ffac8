package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
	"github.com/linusng/cardsense/internal/matcher"
)

func mappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Manage wallet name to card mappings",
	}

	cmd.AddCommand(mappingsListCmd())
	cmd.AddCommand(mappingsAddCmd())
	cmd.AddCommand(mappingsDeleteCmd())

	return cmd
}

func mappingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved wallet name mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			mappings, err := matcher.NewCardMatcher(store).Mappings(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to list mappings: %w", err)
			}

			cmd.Println(cli.FormatTitle("Wallet Name Mappings"))
			if len(mappings) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No mappings saved yet."))
				return nil
			}

			for _, m := range mappings {
				cmd.Printf("%s → %s %s\n",
					cli.BoldStyle.Render(m.WalletName),
					m.CardName,
					cli.SubtleStyle.Render(fmt.Sprintf("(used %d times)", m.UseCount)))
			}
			return nil
		},
	}
}

func mappingsAddCmd() *cobra.Command {
	var cardID string

	cmd := &cobra.Command{
		Use:   "add <wallet name>",
		Short: "Save a wallet name mapping to a portfolio card",
		Long: `Save a verified mapping from a wallet-displayed card name to one of your
portfolio cards. The mapping overwrites any earlier one for the same
wallet name and is preferred over fuzzy matching from then on.`,
		Args: cobra.MinimumNArgs(1),
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

			walletName := joinArgs(args)
			if err := matcher.NewCardMatcher(store).SaveMapping(ctx, user, walletName, cardID); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Mapped %q to card %s", walletName, cardID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "portfolio card id to map to")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}

func mappingsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <wallet name>",
		Short: "Delete a saved wallet name mapping",
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

			if err := store.DeleteCardMapping(ctx, user, joinArgs(args)); err != nil {
				return fmt.Errorf("failed to delete mapping: %w", err)
			}

			cmd.Println(cli.FormatSuccess("Mapping deleted"))
			return nil
		},
	}
}
