package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"kalasa.app/kalasa/internal/core"
	"kalasa.app/kalasa/internal/store"
)

func newMenuCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Browse, publish and react to menu ideas",
	}
	cmd.AddCommand(
		newMenuListCmd(a),
		newMenuPublishCmd(a),
		newToggleCmd(store.KindMenu, "like", "Like or unlike a menu", a.kitchenLike),
		newToggleCmd(store.KindMenu, "save", "Save or unsave a menu", a.kitchenSave),
	)
	return cmd
}

func newMenuListCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List menu ideas, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := a.kitchen.Feed(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(feed.Menus) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No menus found."))
				return nil
			}
			for _, m := range feed.Menus {
				renderMenu(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only menus whose title or item names match")
	return cmd
}

func newMenuPublishCmd(a *app) *cobra.Command {
	var (
		title    string
		category string
		audience string
		items    []string
		draft    string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Share a menu idea",
		Long: `Publish a menu idea. Items are given as "name|description|price";
description and price are optional. With --draft the title and items are
written by Gemini for the chosen audience.

Example:
  kalasa menu publish --title "Sunday Brunch" --category Brunch --audience Cafe \
    --item "Shakshuka|Eggs in spiced tomato|14" --item "Fresh juice"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := core.MenuInput{
				Category: store.MenuCategory(category),
				Audience: store.Audience(audience),
			}
			if draft != "" {
				d, err := a.kitchen.DraftMenu(ctx, draft, in.Audience)
				if err != nil {
					return err
				}
				in = core.MenuInputFromDraft(d, in.Category, in.Audience)
			}
			if title != "" {
				in.Title = title
			}
			if len(items) > 0 {
				parsed, err := parseMenuItems(items)
				if err != nil {
					return err
				}
				in.Items = parsed
			}

			menu, err := a.kitchen.PublishMenu(ctx, in)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Menu published")
			renderMenu(cmd.OutOrStdout(), *menu)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Menu title")
	cmd.Flags().StringVar(&category, "category", string(store.CategoryDinner), "Breakfast, Lunch, Dinner, Brunch or Special")
	cmd.Flags().StringVar(&audience, "audience", string(store.AudienceHome), "Cafe, Restaurant, Home or Event")
	cmd.Flags().StringArrayVar(&items, "item", nil, `Menu item as "name|description|price" (repeatable)`)
	cmd.Flags().StringVar(&draft, "draft", "", "Menu style to draft the menu from")
	cmd.MarkFlagsOneRequired("title", "draft")
	return cmd
}

// parseMenuItems reads "name|description|price" entries.
func parseMenuItems(raw []string) ([]core.MenuItemInput, error) {
	items := make([]core.MenuItemInput, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, "|", 3)
		item := core.MenuItemInput{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			item.Description = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			price, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(parts[2]), "$"), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid price in item %q: %w", entry, err)
			}
			if price < 0 {
				return nil, fmt.Errorf("invalid price in item %q: must not be negative", entry)
			}
			item.Price = &price
		}
		items = append(items, item)
	}
	return items, nil
}

func newCommentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Read and write comments on posts and menus",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [post-or-menu-id] [text...]",
			Short: "Comment on a post or menu",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				comment, err := a.kitchen.Comment(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Comment %s added", comment.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [post-or-menu-id]",
			Short: "List comments, newest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := a.kitchen.Comments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				renderComments(cmd.OutOrStdout(), comments)
				return nil
			},
		},
	)
	return cmd
}
