package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"kalasa.app/kalasa/internal/store"
)

func newDraftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Let Gemini draft posts, menus and food photos without publishing",
	}
	cmd.AddCommand(newDraftPostCmd(a), newDraftMenuCmd(a), newDraftImageCmd(a))
	return cmd
}

func newDraftPostCmd(a *app) *cobra.Command {
	var withImage bool
	cmd := &cobra.Command{
		Use:   "post [dish concept...]",
		Short: "Draft a food post from a dish concept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.draftPost(cmd.Context(), strings.Join(args, " "), withImage)
			if err != nil {
				return err
			}
			renderPostDraft(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withImage, "image", false, "Also generate a photo of the dish")
	return cmd
}

func newDraftMenuCmd(a *app) *cobra.Command {
	var audience string
	cmd := &cobra.Command{
		Use:   "menu [style...]",
		Short: "Draft a menu for an audience",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := a.kitchen.DraftMenu(cmd.Context(), strings.Join(args, " "), store.Audience(audience))
			if err != nil {
				return err
			}
			renderMenuDraft(cmd.OutOrStdout(), draft)
			return nil
		},
	}
	cmd.Flags().StringVar(&audience, "audience", string(store.AudienceHome), "Cafe, Restaurant, Home or Event")
	return cmd
}

func newDraftImageCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "image [prompt...]",
		Short: "Generate a food photo",
		Long:  `Generates a photo for the prompt and writes it to --out, or prints the data URI.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := a.kitchen.GenerateImage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if uri == "" {
				return fmt.Errorf("the model returned no image")
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), uri)
				return nil
			}
			data, err := decodeDataURI(uri)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Photo saved to %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write the image to")
	return cmd
}

func decodeDataURI(uri string) ([]byte, error) {
	_, encoded, ok := strings.Cut(uri, ";base64,")
	if !ok {
		return nil, fmt.Errorf("not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return data, nil
}
