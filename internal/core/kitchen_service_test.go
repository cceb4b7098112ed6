package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"kalasa.app/kalasa/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeGenerator struct {
	post     *PostDraft
	menu     *MenuDraft
	image    string
	postErr  error
	imageErr error

	imagePrompts []string
	calls        int
}

func (f *fakeGenerator) GeneratePostDraft(ctx context.Context, seedTitle string) (*PostDraft, error) {
	f.calls++
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.post, nil
}

func (f *fakeGenerator) GenerateMenuDraft(ctx context.Context, style, audience string) (*MenuDraft, error) {
	f.calls++
	return f.menu, nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.imagePrompts = append(f.imagePrompts, prompt)
	return f.image, f.imageErr
}

func newTestService(t *testing.T, gen ContentGenerator) *KitchenService {
	t.Helper()
	kv, err := store.NewSQLiteKV(":memory:")
	require.NoError(t, err)
	db := store.NewDocumentStore(kv, zap.NewNop())
	t.Cleanup(func() { db.Close() })

	svc := NewKitchenService(db, gen, zap.NewNop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("%d", n)
	}
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func signIn(t *testing.T, svc *KitchenService, name, email string) *store.User {
	t.Helper()
	u, err := svc.Register(context.Background(), name, email)
	require.NoError(t, err)
	return u
}

func TestPublishPostNeedsSession(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.PublishPost(context.Background(), PostInput{Title: "Soup"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestPublishPostDefaults(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	u := signIn(t, svc, "Ana", "ana@example.com")

	post, err := svc.PublishPost(ctx, PostInput{
		Title:       "  Tomato Soup ",
		Ingredients: []string{" tomato", "", "basil "},
		Tags:        []string{"soup"},
	})
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, u.ID, post.UserID)
	assert.Equal(t, "Tomato Soup", post.Title)
	assert.Equal(t, []string{"tomato", "basil"}, post.Ingredients)
	assert.Equal(t, store.MediaTypeImage, post.MediaType)
	assert.Equal(t, "https://picsum.photos/seed/post-1/800", post.ImageURL)

	feed, err := svc.Feed(ctx, "")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)
}

func TestEditAndDeleteAreOwnerOnly(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	signIn(t, svc, "Ana", "ana@example.com")

	post, err := svc.PublishPost(ctx, PostInput{Title: "Focaccia", ImageURL: "data:image/png;base64,AA=="})
	require.NoError(t, err)
	_, err = svc.Like(ctx, store.KindPost, post.ID)
	require.NoError(t, err)

	edited, err := svc.EditPost(ctx, post.ID, PostInput{Title: "Rosemary Focaccia", Description: "Salty"})
	require.NoError(t, err)
	assert.Equal(t, "Rosemary Focaccia", edited.Title)
	assert.Equal(t, "data:image/png;base64,AA==", edited.ImageURL)
	assert.Len(t, edited.Likes, 1)
	assert.True(t, edited.CreatedAt.Equal(post.CreatedAt))

	signIn(t, svc, "Ben", "ben@example.com")
	_, err = svc.EditPost(ctx, post.ID, PostInput{Title: "Stolen"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), ErrNotOwner)

	_, err = svc.Login(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), ErrNotFound)
}

func TestPublishMenu(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	signIn(t, svc, "Ana", "ana@example.com")

	price := 9.5
	menu, err := svc.PublishMenu(ctx, MenuInput{
		Title:    "Garden Lunch",
		Category: store.CategoryLunch,
		Audience: store.AudienceHome,
		Items: []MenuItemInput{
			{Name: "Pea soup", Description: "Minty", Price: &price},
			{Name: "  "},
			{Name: "Lemon tart"},
		},
	})
	require.NoError(t, err)
	assert.True(t, menu.IsPublic)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "0", menu.Items[0].ID)
	assert.Equal(t, "1", menu.Items[1].ID)
	assert.Nil(t, menu.Items[1].Price)

	_, err = svc.PublishMenu(ctx, MenuInput{Title: "Odd", Category: "Supper", Audience: store.AudienceHome})
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
}

func TestLikeSaveAndComment(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	signIn(t, svc, "Ana", "ana@example.com")

	post, err := svc.PublishPost(ctx, PostInput{Title: "Ramen"})
	require.NoError(t, err)

	status, err := svc.Like(ctx, store.KindPost, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Active)
	status, err = svc.Save(ctx, store.KindPost, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Active)

	_, err = svc.Like(ctx, store.KindMenu, "menu-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Comment(ctx, post.ID, "Great broth")
	require.NoError(t, err)
	_, err = svc.Comment(ctx, post.ID, "Needs more chili")
	require.NoError(t, err)

	detail, err := svc.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "Needs more chili", detail.Comments[0].Text)
	assert.Equal(t, "Ana", detail.Author.Name)
	assert.Len(t, detail.Post.Saves, 1)

	_, err = svc.Comment(ctx, "post-ghost", "hello")
	assert.ErrorIs(t, err, store.ErrUnknownReference)
}

func TestFeedSearch(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	signIn(t, svc, "Ana", "ana@example.com")

	_, err := svc.PublishPost(ctx, PostInput{Title: "Smoky Burger", Tags: []string{"lunch"}})
	require.NoError(t, err)
	_, err = svc.PublishPost(ctx, PostInput{Title: "Donuts", Description: "Matcha glaze"})
	require.NoError(t, err)
	_, err = svc.PublishMenu(ctx, MenuInput{
		Title: "Brunch", Category: store.CategoryBrunch, Audience: store.AudienceCafe,
		Items: []MenuItemInput{{Name: "Matcha latte"}},
	})
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, "MATCHA")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "Donuts", feed.Posts[0].Title)
	assert.Len(t, feed.Menus, 1)

	feed, err = svc.Feed(ctx, "lunch")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "Smoky Burger", feed.Posts[0].Title)
	assert.Empty(t, feed.Menus)
}

func TestProfileAndFollow(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	ana := signIn(t, svc, "Ana", "ana@example.com")
	_, err := svc.PublishPost(ctx, PostInput{Title: "Ana's pie"})
	require.NoError(t, err)

	signIn(t, svc, "Ben", "ben@example.com")
	_, err = svc.PublishPost(ctx, PostInput{Title: "Ben's bread"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, "Ana's pie", profile.Posts[0].Title)

	status, err := svc.Follow(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, status.Following)

	me, err := svc.Profile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Ben", me.User.Name)
	assert.Equal(t, []string{ana.ID}, me.User.Following)

	_, err = svc.Profile(ctx, "user-ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	bio := "Baker"
	updated, err := svc.UpdateProfile(ctx, store.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Baker", updated.Bio)
}

func TestDraftPostWithImage(t *testing.T) {
	gen := &fakeGenerator{
		post: &PostDraft{
			Title:       "Charred Corn Salad",
			Description: "Sweet and smoky.",
			Ingredients: []string{"corn", "lime"},
			Tags:        []string{"summer"},
		},
		image: "data:image/png;base64,AA==",
	}
	svc := newTestService(t, gen)
	ctx := context.Background()

	result, err := svc.DraftPost(ctx, "corn salad", true)
	require.NoError(t, err)
	assert.Equal(t, "Charred Corn Salad", result.Draft.Title)
	assert.Equal(t, "data:image/png;base64,AA==", result.ImageURL)
	assert.Equal(t, []string{"Charred Corn Salad"}, gen.imagePrompts)

	signIn(t, svc, "Ana", "ana@example.com")
	post, err := svc.PublishPost(ctx, PostInputFromDraft(result))
	require.NoError(t, err)
	assert.Equal(t, result.ImageURL, post.ImageURL)
	assert.Equal(t, []string{"corn", "lime"}, post.Ingredients)
}

func TestDraftPostImageFailureKeepsText(t *testing.T) {
	gen := &fakeGenerator{
		post:     &PostDraft{Title: "Soup", Description: "Warm", Ingredients: []string{}, Tags: []string{}},
		imageErr: errors.New("quota"),
	}
	svc := newTestService(t, gen)

	result, err := svc.DraftPost(context.Background(), "soup", true)
	require.NoError(t, err)
	assert.Equal(t, "Soup", result.Draft.Title)
	assert.Empty(t, result.ImageURL)
}

func TestDraftGuards(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(t, nil).DraftPost(ctx, "soup", false)
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)

	gen := &fakeGenerator{postErr: ErrMalformedDraft}
	svc := newTestService(t, gen)

	_, err = svc.DraftPost(ctx, "   ", false)
	assert.ErrorIs(t, err, ErrEmptySeed)
	assert.Zero(t, gen.calls)

	_, err = svc.DraftPost(ctx, "soup", false)
	assert.ErrorIs(t, err, ErrMalformedDraft)

	_, err = svc.DraftMenu(ctx, "tapas", store.Audience("Spaceship"))
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
}

func TestDraftMenuToPublishedMenu(t *testing.T) {
	price := 7.0
	gen := &fakeGenerator{menu: &MenuDraft{
		Title: "Harbour Lunch",
		Items: []MenuDraftItem{{Name: "Fish tacos", Description: "Crispy", Price: &price}, {Name: "Slaw"}},
	}}
	svc := newTestService(t, gen)
	ctx := context.Background()
	signIn(t, svc, "Ana", "ana@example.com")

	draft, err := svc.DraftMenu(ctx, "seaside", store.AudienceRestaurant)
	require.NoError(t, err)

	menu, err := svc.PublishMenu(ctx, MenuInputFromDraft(draft, store.CategoryLunch, store.AudienceRestaurant))
	require.NoError(t, err)
	assert.Equal(t, "Harbour Lunch", menu.Title)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, 7.0, *menu.Items[0].Price)
}
