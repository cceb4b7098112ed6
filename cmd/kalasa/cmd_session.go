package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"kalasa.app/kalasa/internal/media"
	"kalasa.app/kalasa/internal/store"
)

func newRegisterCmd(a *app) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.kitchen.Register(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Welcome to KALASA, %s!", user.Name)
			renderUser(cmd.OutOrStdout(), *user)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in as an existing user",
		Long: `Sign in with the email of an existing account.

There are no passwords: any known email opens its session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.kitchen.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Signed in as %s", user.Name)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.kitchen.Logout(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.kitchen.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Not signed in."))
				return nil
			}
			renderUser(cmd.OutOrStdout(), *user)
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo users, posts, menus and comments",
		Long: `Writes the demo collections into the store. Collections that already
exist are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.db.Seed(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Demo data is in place")
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit profiles",
	}
	cmd.AddCommand(newProfileShowCmd(a), newProfileEditCmd(a))
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a profile with its posts and menus (default: your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var userID string
			if len(args) == 1 {
				userID = args[0]
			}
			profile, err := a.kitchen.Profile(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}

func newProfileEditCmd(a *app) *cobra.Command {
	var name, email, bio, avatarFile, avatarURL string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your name, email, bio or avatar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd store.UserUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("email") {
				upd.Email = &email
			}
			if flags.Changed("bio") {
				upd.Bio = &bio
			}
			switch {
			case avatarFile != "":
				payload, err := media.ReadFileAsInlinePayload(avatarFile, a.mediaOptions())
				if err != nil {
					return err
				}
				if payload.Kind != media.KindImage {
					return fmt.Errorf("avatar must be an image: %w", media.ErrUnsupportedMedia)
				}
				upd.Avatar = &payload.DataURI
			case avatarURL != "":
				upd.Avatar = &avatarURL
			}

			user, err := a.kitchen.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Profile updated")
			renderUser(cmd.OutOrStdout(), *user)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&bio, "bio", "", "New bio")
	cmd.Flags().StringVar(&avatarFile, "avatar", "", "Image file to use as avatar")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "Avatar URL")
	cmd.MarkFlagsMutuallyExclusive("avatar", "avatar-url")
	return cmd
}

func newFollowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow [user-id]",
		Short: "Follow or unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.kitchen.Follow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			verb := "Unfollowed"
			if status.Following {
				verb = "Following"
			}
			printSuccess(cmd.OutOrStdout(), "%s %s (%s)", verb, args[0], countLabel(status.Followers, "follower"))
			return nil
		},
	}
}
