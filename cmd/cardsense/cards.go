package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
	"github.com/linusng/cardsense/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage your card portfolio",
	}

	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsRemoveCmd())

	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards in your portfolio",
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

			cards, err := store.GetUserCards(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			cmd.Println(cli.FormatTitle("Card Portfolio"))
			if len(cards) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No cards yet. Add one with 'cardsense cards add'."))
				return nil
			}

			for _, card := range cards {
				cmd.Printf("%s  %s\n",
					cli.BoldStyle.Render(card.DisplayName()),
					cli.SubtleStyle.Render(card.ID))
			}
			return nil
		},
	}
}

func cardsAddCmd() *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a card to your portfolio",
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

			card := &model.Card{
				ID:     uuid.NewString(),
				UserID: user,
				Bank:   bank,
				Name:   strings.Join(args, " "),
			}
			if err := store.SaveCard(ctx, card); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", card.DisplayName(), card.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "issuing bank")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func cardsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <card-id>",
		Short: "Remove a card and its wallet name mappings",
		Args:  cobra.ExactArgs(1),
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

			if err := store.DeleteCard(ctx, user, args[0]); err != nil {
				return fmt.Errorf("failed to remove card: %w", err)
			}

			cmd.Println(cli.FormatSuccess("Card removed"))
			return nil
		},
	}
}
