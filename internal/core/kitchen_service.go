package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kalasa.app/kalasa/internal/store"
	"kalasa.app/kalasa/internal/utils"
)

const placeholderImagePattern = "https://picsum.photos/seed/%s/800"

// KitchenService runs the user-facing flows (publishing, engagement,
// drafting) on top of the document store.
type KitchenService struct {
	db        *store.DocumentStore
	generator ContentGenerator
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewKitchenService wires the service. gen may be nil, in which case the
// draft flows report ErrGeneratorUnavailable.
func NewKitchenService(db *store.DocumentStore, gen ContentGenerator, logger *zap.Logger) *KitchenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KitchenService{
		db:        db,
		generator: gen,
		logger:    logger.Named("kitchen"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

type PostInput struct {
	Title       string
	Description string
	ImageURL    string
	MediaType   store.MediaType
	Ingredients []string
	Tags        []string
}

type MenuItemInput struct {
	Name        string
	Description string
	Price       *float64
}

type MenuInput struct {
	Title    string
	Category store.MenuCategory
	Audience store.Audience
	Items    []MenuItemInput
}

type Feed struct {
	Posts []store.FoodPost
	Menus []store.MenuIdea
}

type Profile struct {
	User  store.User
	Posts []store.FoodPost
	Menus []store.MenuIdea
}

type PostDetail struct {
	Post     store.FoodPost
	Author   *store.User
	Comments []store.Comment
}

type PostDraftResult struct {
	Draft    PostDraft
	ImageURL string
}

// Session

func (s *KitchenService) Register(ctx context.Context, name, email string) (*store.User, error) {
	return s.db.Register(ctx, name, email)
}

func (s *KitchenService) Login(ctx context.Context, email string) (*store.User, error) {
	return s.db.Login(ctx, email)
}

func (s *KitchenService) Logout(ctx context.Context) error {
	return s.db.Logout(ctx)
}

func (s *KitchenService) CurrentUser(ctx context.Context) (*store.User, error) {
	return s.db.CurrentUser(ctx)
}

func (s *KitchenService) requireSession(ctx context.Context) (*store.User, error) {
	user, err := s.db.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// Profiles

func (s *KitchenService) UpdateProfile(ctx context.Context, upd store.UserUpdate) (*store.User, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.db.UpdateUser(ctx, user.ID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	return updated, nil
}

// Profile returns a user with their posts and menus. An empty userID means
// the signed-in user.
func (s *KitchenService) Profile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		user, err := s.requireSession(ctx)
		if err != nil {
			return nil, err
		}
		userID = user.ID
	}
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	posts, err := s.db.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	menus, err := s.db.ListMenus(ctx)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: *user, Posts: []store.FoodPost{}, Menus: []store.MenuIdea{}}
	for _, p := range posts {
		if p.UserID == userID {
			profile.Posts = append(profile.Posts, p)
		}
	}
	for _, m := range menus {
		if m.UserID == userID {
			profile.Menus = append(profile.Menus, m)
		}
	}
	return profile, nil
}

func (s *KitchenService) Follow(ctx context.Context, userID string) (*store.FollowStatus, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	status, err := s.db.ToggleFollow(ctx, user.ID, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return status, nil
}

// Posts

func (s *KitchenService) PublishPost(ctx context.Context, in PostInput) (*store.FoodPost, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: a post needs a title", store.ErrInvalidRecord)
	}

	id := "post-" + s.newID()
	post := store.FoodPost{
		ID:        id,
		UserID:    user.ID,
		Likes:     []string{},
		Saves:     []string{},
		CreatedAt: s.now(),
	}
	applyPostInput(&post, in)

	if err := s.db.AddPost(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost replaces the content of one of the signed-in user's posts.
// Likes, saves and the creation time carry over.
func (s *KitchenService) EditPost(ctx context.Context, id string, in PostInput) (*store.FoodPost, error) {
	post, err := s.ownedPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		in.Title = post.Title
	}
	if in.ImageURL == "" {
		in.ImageURL = post.ImageURL
		if in.MediaType == "" {
			in.MediaType = post.MediaType
		}
	}
	applyPostInput(post, in)

	updated, err := s.db.UpdatePost(ctx, *post)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return updated, nil
}

func (s *KitchenService) DeletePost(ctx context.Context, id string) error {
	if _, err := s.ownedPost(ctx, id); err != nil {
		return err
	}
	removed, err := s.db.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *KitchenService) ownedPost(ctx context.Context, id string) (*store.FoodPost, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	post, err := s.db.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	if post.UserID != user.ID {
		return nil, ErrNotOwner
	}
	return post, nil
}

func applyPostInput(post *store.FoodPost, in PostInput) {
	post.Title = strings.TrimSpace(in.Title)
	post.Description = strings.TrimSpace(in.Description)
	post.Ingredients = utils.CleanList(in.Ingredients)
	post.Tags = utils.CleanList(in.Tags)

	post.MediaType = in.MediaType
	if post.MediaType == "" {
		post.MediaType = store.MediaTypeImage
	}
	post.ImageURL = in.ImageURL
	if post.ImageURL == "" {
		post.ImageURL = fmt.Sprintf(placeholderImagePattern, post.ID)
		post.MediaType = store.MediaTypeImage
	}
}

func (s *KitchenService) PostDetail(ctx context.Context, id string) (*PostDetail, error) {
	post, err := s.db.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	author, err := s.db.GetUserByID(ctx, post.UserID)
	if err != nil {
		return nil, err
	}
	comments, err := s.db.GetComments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: *post, Author: author, Comments: comments}, nil
}

// Menus

func (s *KitchenService) PublishMenu(ctx context.Context, in MenuInput) (*store.MenuIdea, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: a menu needs a title", store.ErrInvalidRecord)
	}

	menu := store.MenuIdea{
		ID:        "menu-" + s.newID(),
		UserID:    user.ID,
		Title:     strings.TrimSpace(in.Title),
		Items:     make([]store.MenuItem, 0, len(in.Items)),
		Category:  in.Category,
		Audience:  in.Audience,
		IsPublic:  true,
		Likes:     []string{},
		Saves:     []string{},
		CreatedAt: s.now(),
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		menu.Items = append(menu.Items, store.MenuItem{
			ID:          strconv.Itoa(len(menu.Items)),
			Name:        strings.TrimSpace(item.Name),
			Description: strings.TrimSpace(item.Description),
			Price:       item.Price,
		})
	}

	if err := s.db.AddMenu(ctx, menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// Engagement

func (s *KitchenService) Like(ctx context.Context, kind store.EntityKind, id string) (*store.MembershipStatus, error) {
	return s.toggle(ctx, kind, id, s.db.ToggleLike)
}

func (s *KitchenService) Save(ctx context.Context, kind store.EntityKind, id string) (*store.MembershipStatus, error) {
	return s.toggle(ctx, kind, id, s.db.ToggleSave)
}

type toggleFunc func(ctx context.Context, kind store.EntityKind, id, userID string) (*store.MembershipStatus, error)

func (s *KitchenService) toggle(ctx context.Context, kind store.EntityKind, id string, fn toggleFunc) (*store.MembershipStatus, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	status, err := fn(ctx, kind, id, user.ID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return status, nil
}

func (s *KitchenService) Comment(ctx context.Context, entityID, text string) (*store.Comment, error) {
	user, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	comment := store.Comment{
		ID:        "comment-" + s.newID(),
		UserID:    user.ID,
		EntityID:  entityID,
		Text:      strings.TrimSpace(text),
		CreatedAt: s.now(),
	}
	if err := s.db.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *KitchenService) Comments(ctx context.Context, entityID string) ([]store.Comment, error) {
	return s.db.GetComments(ctx, entityID)
}

// Feed returns posts and menus, newest first, narrowed to those matching
// query when it is not blank.
func (s *KitchenService) Feed(ctx context.Context, query string) (*Feed, error) {
	posts, err := s.db.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	menus, err := s.db.ListMenus(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return &Feed{Posts: posts, Menus: menus}, nil
	}

	feed := &Feed{Posts: []store.FoodPost{}, Menus: []store.MenuIdea{}}
	for _, p := range posts {
		if utils.ContainsFold(p.Title, q) || utils.ContainsFold(p.Description, q) || utils.AnyContainsFold(p.Tags, q) {
			feed.Posts = append(feed.Posts, p)
		}
	}
	for _, m := range menus {
		if utils.ContainsFold(m.Title, q) || menuHasItem(m, q) {
			feed.Menus = append(feed.Menus, m)
		}
	}
	return feed, nil
}

func menuHasItem(m store.MenuIdea, q string) bool {
	for _, item := range m.Items {
		if utils.ContainsFold(item.Name, q) {
			return true
		}
	}
	return false
}

// Drafting

// DraftPost asks the generator for post text and, when withImage is set, a
// photo of the drafted dish. A failed photo does not fail the draft.
func (s *KitchenService) DraftPost(ctx context.Context, seedTitle string, withImage bool) (*PostDraftResult, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	seedTitle = strings.TrimSpace(seedTitle)
	if seedTitle == "" {
		return nil, ErrEmptySeed
	}

	draft, err := s.generator.GeneratePostDraft(ctx, seedTitle)
	if err != nil {
		s.logger.Error("post draft failed", zap.String("seed", seedTitle), zap.Error(err))
		return nil, err
	}
	result := &PostDraftResult{Draft: *draft}
	if !withImage {
		return result, nil
	}

	img, err := s.generator.GenerateImage(ctx, draft.Title)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.logger.Warn("photo for draft failed", zap.String("title", draft.Title), zap.Error(err))
		return result, nil
	}
	result.ImageURL = img
	return result, nil
}

func (s *KitchenService) DraftMenu(ctx context.Context, style string, audience store.Audience) (*MenuDraft, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, ErrEmptySeed
	}
	if !audience.Valid() {
		return nil, fmt.Errorf("%w: unknown audience %q", store.ErrInvalidRecord, audience)
	}

	draft, err := s.generator.GenerateMenuDraft(ctx, style, string(audience))
	if err != nil {
		s.logger.Error("menu draft failed", zap.String("style", style), zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// GenerateImage exposes the photo generator directly.
func (s *KitchenService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", ErrGeneratorUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptySeed
	}
	return s.generator.GenerateImage(ctx, prompt)
}

// MenuInputFromDraft converts a generated menu into publishable input.
func MenuInputFromDraft(d *MenuDraft, category store.MenuCategory, audience store.Audience) MenuInput {
	in := MenuInput{Title: d.Title, Category: category, Audience: audience}
	for _, item := range d.Items {
		in.Items = append(in.Items, MenuItemInput(item))
	}
	return in
}

// PostInputFromDraft converts a generated post into publishable input.
func PostInputFromDraft(r *PostDraftResult) PostInput {
	return PostInput{
		Title:       r.Draft.Title,
		Description: r.Draft.Description,
		ImageURL:    r.ImageURL,
		MediaType:   store.MediaTypeImage,
		Ingredients: r.Draft.Ingredients,
		Tags:        r.Draft.Tags,
	}
}
