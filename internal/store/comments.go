package store

import (
	"context"
	"fmt"
	"sort"
)

// GetComments returns the comments on entityID, newest first.
func (s *DocumentStore) GetComments(ctx context.Context, entityID string) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.comments(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Comment, 0, len(all))
	for _, c := range all {
		if c.EntityID == entityID {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// AddComment appends comment. Storage order is irrelevant; GetComments sorts.
func (s *DocumentStore) AddComment(ctx context.Context, comment Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, comment.UserID); err != nil {
		return err
	}
	if err := s.requireEntity(ctx, comment.EntityID); err != nil {
		return err
	}
	comments, err := s.comments(ctx)
	if err != nil {
		return err
	}
	if indexOf(comments, func(c Comment) bool { return c.ID == comment.ID }) >= 0 {
		return fmt.Errorf("%w: comment %s", ErrDuplicateID, comment.ID)
	}

	if err := s.writeCollection(ctx, KeyComments, append(comments, comment)); err != nil {
		return fmt.Errorf("failed to store comment %s: %w", comment.ID, err)
	}
	return nil
}

func (s *DocumentStore) requireEntity(ctx context.Context, entityID string) error {
	posts, err := s.posts(ctx)
	if err != nil {
		return err
	}
	if indexOf(posts, func(p FoodPost) bool { return p.ID == entityID }) >= 0 {
		return nil
	}
	menus, err := s.menus(ctx)
	if err != nil {
		return err
	}
	if indexOf(menus, func(m MenuIdea) bool { return m.ID == entityID }) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: entity %s", ErrUnknownReference, entityID)
}
