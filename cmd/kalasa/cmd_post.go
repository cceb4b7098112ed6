package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"kalasa.app/kalasa/internal/core"
	"kalasa.app/kalasa/internal/media"
	"kalasa.app/kalasa/internal/store"
	"kalasa.app/kalasa/internal/utils"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Browse, publish and react to food posts",
	}
	cmd.AddCommand(
		newPostListCmd(a),
		newPostShowCmd(a),
		newPostPublishCmd(a),
		newPostEditCmd(a),
		newPostDeleteCmd(a),
		newToggleCmd(store.KindPost, "like", "Like or unlike a post", a.kitchenLike),
		newToggleCmd(store.KindPost, "save", "Save or unsave a post", a.kitchenSave),
	)
	return cmd
}

func newPostListCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := a.kitchen.Feed(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(feed.Posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No posts found."))
				return nil
			}
			for _, p := range feed.Posts {
				renderPost(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only posts whose title, description or tags match")
	return cmd
}

func newPostShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [post-id]",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.kitchen.PostDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPostDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

// postFlags are shared by publish and edit.
type postFlags struct {
	title       string
	description string
	ingredients string
	tags        string
	file        string
	imageURL    string
}

func (f *postFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Dish title")
	fs.StringVar(&f.description, "description", "", "Description or recipe notes")
	fs.StringVar(&f.ingredients, "ingredients", "", "Comma separated ingredients")
	fs.StringVar(&f.tags, "tags", "", "Comma separated tags")
	fs.StringVar(&f.file, "file", "", "Photo or video file to attach")
	fs.StringVar(&f.imageURL, "image-url", "", "Photo URL to attach")
}

// apply overwrites in with the flags the user actually set.
func (f *postFlags) apply(fs *pflag.FlagSet, in *core.PostInput, opts media.Options) error {
	if fs.Changed("title") {
		in.Title = f.title
	}
	if fs.Changed("description") {
		in.Description = f.description
	}
	if fs.Changed("ingredients") {
		in.Ingredients = utils.SplitList(f.ingredients)
	}
	if fs.Changed("tags") {
		in.Tags = utils.SplitList(f.tags)
	}
	switch {
	case f.file != "":
		payload, err := media.ReadFileAsInlinePayload(f.file, opts)
		if err != nil {
			return err
		}
		in.ImageURL = payload.DataURI
		in.MediaType = store.MediaType(payload.Kind)
	case f.imageURL != "":
		in.ImageURL = f.imageURL
		in.MediaType = store.MediaTypeImage
	}
	return nil
}

func newPostPublishCmd(a *app) *cobra.Command {
	var (
		flags   postFlags
		draft   string
		noPhoto bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Share a dish",
		Long: `Publish a food post. With --draft the title, description, ingredients
and tags are written by Gemini from a short dish concept, and a photo is
generated unless --no-photo or a file is given. Explicit flags win over the draft.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var in core.PostInput
			if draft != "" {
				withImage := !noPhoto && flags.file == "" && flags.imageURL == ""
				result, err := a.draftPost(ctx, draft, withImage)
				if err != nil {
					return err
				}
				in = core.PostInputFromDraft(result)
			}
			if err := flags.apply(cmd.Flags(), &in, a.mediaOptions()); err != nil {
				return err
			}

			post, err := a.kitchen.PublishPost(ctx, in)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Post published")
			renderPost(cmd.OutOrStdout(), *post)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&draft, "draft", "", "Dish concept to draft the post from")
	cmd.Flags().BoolVar(&noPhoto, "no-photo", false, "Skip photo generation when drafting")
	cmd.MarkFlagsMutuallyExclusive("file", "image-url")
	cmd.MarkFlagsOneRequired("title", "draft")
	return cmd
}

func newPostEditCmd(a *app) *cobra.Command {
	var flags postFlags
	cmd := &cobra.Command{
		Use:   "edit [post-id]",
		Short: "Edit one of your posts",
		Long:  `Only the flags you pass are changed; everything else keeps its current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.kitchen.PostDetail(ctx, args[0])
			if err != nil {
				return err
			}
			p := current.Post
			in := core.PostInput{
				Title:       p.Title,
				Description: p.Description,
				ImageURL:    p.ImageURL,
				MediaType:   p.MediaType,
				Ingredients: p.Ingredients,
				Tags:        p.Tags,
			}
			if err := flags.apply(cmd.Flags(), &in, a.mediaOptions()); err != nil {
				return err
			}

			post, err := a.kitchen.EditPost(ctx, args[0], in)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Post updated")
			renderPost(cmd.OutOrStdout(), *post)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("file", "image-url")
	return cmd
}

func newPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [post-id]",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.kitchen.DeletePost(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Post %s deleted", args[0])
			return nil
		},
	}
}

type toggleAction func(ctx context.Context, kind store.EntityKind, id string) (*store.MembershipStatus, error)

func (a *app) kitchenLike(ctx context.Context, kind store.EntityKind, id string) (*store.MembershipStatus, error) {
	return a.kitchen.Like(ctx, kind, id)
}

func (a *app) kitchenSave(ctx context.Context, kind store.EntityKind, id string) (*store.MembershipStatus, error) {
	return a.kitchen.Save(ctx, kind, id)
}

func newToggleCmd(kind store.EntityKind, verb, short string, action toggleAction) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s [%s-id]", verb, kind),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := action(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			label := "Like"
			if verb == "save" {
				label = "Save"
			}
			renderStatus(cmd.OutOrStdout(), label, status)
			return nil
		},
	}
}

func (a *app) draftPost(ctx context.Context, seed string, withImage bool) (*core.PostDraftResult, error) {
	result, err := a.kitchen.DraftPost(ctx, seed, withImage)
	if err != nil {
		return nil, err
	}
	if withImage && result.ImageURL == "" {
		a.logger.Warn("draft has no photo, a placeholder will be used", zap.String("title", result.Draft.Title))
	}
	return result, nil
}
