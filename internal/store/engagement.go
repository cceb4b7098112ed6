package store

import (
	"context"
	"fmt"
)

// ToggleLike flips userID's membership in the likes of the post or menu id.
// It returns nil and writes nothing when the target does not exist, and
// ErrUnknownReference when userID is not a user.
func (s *DocumentStore) ToggleLike(ctx context.Context, kind EntityKind, id, userID string) (*MembershipStatus, error) {
	return s.toggle(ctx, kind, id, userID, likesOf)
}

// ToggleSave is ToggleLike for the saves list.
func (s *DocumentStore) ToggleSave(ctx context.Context, kind EntityKind, id, userID string) (*MembershipStatus, error) {
	return s.toggle(ctx, kind, id, userID, savesOf)
}

// memberList selects which membership list of a record to flip.
type memberList func(likes, saves *[]string) *[]string

func likesOf(likes, _ *[]string) *[]string { return likes }
func savesOf(_, saves *[]string) *[]string { return saves }

func (s *DocumentStore) toggle(ctx context.Context, kind EntityKind, id, userID string, pick memberList) (*MembershipStatus, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	switch kind {
	case KindPost:
		posts, err := s.posts(ctx)
		if err != nil {
			return nil, err
		}
		i := indexOf(posts, func(p FoodPost) bool { return p.ID == id })
		if i < 0 {
			return nil, nil
		}
		list := pick(&posts[i].Likes, &posts[i].Saves)
		var active bool
		*list, active = toggleMembership(*list, userID)
		if err := s.writeCollection(ctx, KeyPosts, posts); err != nil {
			return nil, fmt.Errorf("failed to store post %s: %w", id, err)
		}
		return &MembershipStatus{Active: active, Count: len(*list)}, nil

	case KindMenu:
		menus, err := s.menus(ctx)
		if err != nil {
			return nil, err
		}
		i := indexOf(menus, func(m MenuIdea) bool { return m.ID == id })
		if i < 0 {
			return nil, nil
		}
		list := pick(&menus[i].Likes, &menus[i].Saves)
		var active bool
		*list, active = toggleMembership(*list, userID)
		if err := s.writeCollection(ctx, KeyMenus, menus); err != nil {
			return nil, fmt.Errorf("failed to store menu %s: %w", id, err)
		}
		return &MembershipStatus{Active: active, Count: len(*list)}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
