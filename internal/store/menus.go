package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ListMenus returns every menu idea, most recently published first.
func (s *DocumentStore) ListMenus(ctx context.Context) ([]MenuIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menus(ctx)
}

func (s *DocumentStore) GetMenu(ctx context.Context, id string) (*MenuIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	menus, err := s.menus(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(menus, func(m MenuIdea) bool { return m.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &menus[i], nil
}

// AddMenu prepends menu to the collection. Menus are never edited or deleted.
func (s *DocumentStore) AddMenu(ctx context.Context, menu MenuIdea) error {
	if err := menu.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(ctx, menu.UserID); err != nil {
		return err
	}
	menus, err := s.menus(ctx)
	if err != nil {
		return err
	}
	if indexOf(menus, func(m MenuIdea) bool { return m.ID == menu.ID }) >= 0 {
		return fmt.Errorf("%w: menu %s", ErrDuplicateID, menu.ID)
	}

	if err := s.writeCollection(ctx, KeyMenus, append([]MenuIdea{menu}, menus...)); err != nil {
		return fmt.Errorf("failed to store menu %s: %w", menu.ID, err)
	}
	s.logger.Info("menu added", zap.String("menu_id", menu.ID), zap.String("user_id", menu.UserID))
	return nil
}
