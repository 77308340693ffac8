package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/cli"
	"github.com/linusng/cardsense/internal/model"
)

func overridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage merchant category overrides",
	}

	cmd.AddCommand(overridesListCmd())
	cmd.AddCommand(overridesAddCmd())
	cmd.AddCommand(overridesDeleteCmd())

	return cmd
}

func overridesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved merchant overrides",
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

			overrides, err := store.GetUserMerchantOverrides(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to list overrides: %w", err)
			}

			cmd.Println(cli.FormatTitle("Merchant Overrides"))
			if len(overrides) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No overrides saved yet."))
				return nil
			}

			for _, o := range overrides {
				cmd.Printf("%s → %s %s\n",
					cli.BoldStyle.Render(o.Pattern),
					o.CategoryID.Name(),
					cli.SubtleStyle.Render(fmt.Sprintf("(used %d times)", o.UseCount)))
			}
			return nil
		},
	}
}

func overridesAddCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <merchant pattern>",
		Short: "Save a merchant pattern override",
		Long: `Save an override associating a merchant name pattern with a category.
The pattern matches future merchant strings that contain it, and the
override is preferred over keyword matching from then on.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser()
			if err != nil {
				return err
			}

			categoryID := model.CategoryID(category)
			if !categoryID.Valid() {
				return fmt.Errorf("unknown category %q; see 'cardsense categories'", category)
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

			pattern := joinArgs(args)
			if err := m.SaveOverride(ctx, user, pattern, categoryID); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Merchants matching %q now classify as %s", pattern, categoryID.Name())))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category id (e.g. dining, transport)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func overridesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <merchant pattern>",
		Short: "Delete a saved merchant override",
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

			if err := store.DeleteMerchantOverride(ctx, user, joinArgs(args)); err != nil {
				return fmt.Errorf("failed to delete override: %w", err)
			}

			cmd.Println(cli.FormatSuccess("Override deleted"))
			return nil
		},
	}
}
