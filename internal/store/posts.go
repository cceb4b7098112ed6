package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ListPosts returns every post, most recently published first.
func (s *DocumentStore) ListPosts(ctx context.Context) ([]FoodPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts(ctx)
}

func (s *DocumentStore) GetPost(ctx context.Context, id string) (*FoodPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(posts, func(p FoodPost) bool { return p.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &posts[i], nil
}

// AddPost prepends post to the collection.
func (s *DocumentStore) AddPost(ctx context.Context, post FoodPost) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, post.UserID); err != nil {
		return err
	}
	posts, err := s.posts(ctx)
	if err != nil {
		return err
	}
	if indexOf(posts, func(p FoodPost) bool { return p.ID == post.ID }) >= 0 {
		return fmt.Errorf("%w: post %s", ErrDuplicateID, post.ID)
	}

	if err := s.writeCollection(ctx, KeyPosts, append([]FoodPost{post}, posts...)); err != nil {
		return fmt.Errorf("failed to store post %s: %w", post.ID, err)
	}
	s.logger.Info("post added", zap.String("post_id", post.ID), zap.String("user_id", post.UserID))
	return nil
}

// UpdatePost replaces the stored post with the same ID. It returns nil and
// writes nothing when no such post exists; userId must name a user.
func (s *DocumentStore) UpdatePost(ctx context.Context, post FoodPost) (*FoodPost, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(posts, func(p FoodPost) bool { return p.ID == post.ID })
	if i < 0 {
		return nil, nil
	}
	if err := s.requireUser(ctx, post.UserID); err != nil {
		return nil, err
	}
	posts[i] = post
	if err := s.writeCollection(ctx, KeyPosts, posts); err != nil {
		return nil, fmt.Errorf("failed to store post %s: %w", post.ID, err)
	}
	return &post, nil
}

// DeletePost removes the post with the given ID and reports whether it was
// there. Unknown IDs leave the collection untouched.
func (s *DocumentStore) DeletePost(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(posts, func(p FoodPost) bool { return p.ID == id })
	if i < 0 {
		return false, nil
	}
	posts = append(posts[:i], posts[i+1:]...)
	if err := s.writeCollection(ctx, KeyPosts, posts); err != nil {
		return false, fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	s.logger.Info("post deleted", zap.String("post_id", id))
	return true, nil
}

func (s *DocumentStore) requireUser(ctx context.Context, userID string) error {
	users, err := s.users(ctx)
	if err != nil {
		return err
	}
	if indexOf(users, func(u User) bool { return u.ID == userID }) < 0 {
		return fmt.Errorf("%w: user %s", ErrUnknownReference, userID)
	}
	return nil
}
