package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

func demoUsers() []User {
	return []User{{
		ID:        "user-1",
		Name:      "Chef Maria",
		Email:     "maria@example.com",
		Avatar:    "https://picsum.photos/seed/maria/200",
		Bio:       "Passionate about farm-to-table cuisine.",
		Following: []string{},
		Followers: []string{},
	}}
}

func demoPosts(now time.Time) []FoodPost {
	return []FoodPost{
		{
			ID:          "post-1",
			UserID:      "user-1",
			Title:       "Smoky Chipotle Burger",
			Description: "A juicy angus beef patty topped with smoked cheddar, crispy onions, and our secret chipotle sauce.",
			ImageURL:    "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&q=80&w=800",
			MediaType:   MediaTypeImage,
			Ingredients: []string{"Angus Beef", "Smoked Cheddar", "Chipotle Mayo", "Brioche Bun"},
			Tags:        []string{"burger", "lunch", "comfortfood"},
			Likes:       []string{"user-2"},
			Saves:       []string{},
			CreatedAt:   now,
		},
		{
			ID:          "post-2",
			UserID:      "user-1",
			Title:       "Matcha Glazed Donuts",
			Description: "Fluffy sourdough donuts dipped in a vibrant ceremonial-grade matcha glaze. Perfectly balanced sweetness.",
			ImageURL:    "https://images.unsplash.com/photo-1551024601-bec78aea704b?auto=format&fit=crop&q=80&w=800",
			MediaType:   MediaTypeImage,
			Ingredients: []string{"Matcha", "Sourdough Starter", "Honey", "Vanilla"},
			Tags:        []string{"matcha", "donuts", "vegan"},
			Likes:       []string{},
			Saves:       []string{"user-1"},
			CreatedAt:   now.Add(-24 * time.Hour),
		},
	}
}

func demoMenus(now time.Time) []MenuIdea {
	price := func(v float64) *float64 { return &v }
	return []MenuIdea{{
		ID:     "menu-1",
		UserID: "user-1",
		Title:  "Sunday Morning Brunch",
		Items: []MenuItem{
			{ID: "1", Name: "Eggs Benedict", Description: "Poached eggs over Canadian bacon and English muffin with Hollandaise.", Price: price(18)},
			{ID: "2", Name: "Lemon Ricotta Pancakes", Description: "Light and airy with fresh berry compote.", Price: price(15)},
			{ID: "3", Name: "Avocado Toast", Description: "Sourdough, smashed avocado, chili flakes, radish.", Price: price(14)},
		},
		Category:  CategoryBrunch,
		Audience:  AudienceCafe,
		IsPublic:  true,
		Likes:     []string{},
		Saves:     []string{},
		CreatedAt: now,
	}}
}

func demoComments(now time.Time) []Comment {
	return []Comment{{
		ID:        "comment-1",
		UserID:    "user-1",
		EntityID:  "post-1",
		Text:      "That burger looks incredible! Does the brioche bun hold up well?",
		CreatedAt: now,
	}}
}

// Seed writes the demo data set into every collection key that has never
// been written. Existing collections are left alone.
func (s *DocumentStore) Seed(ctx context.Context) error {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := []struct {
		key   string
		value any
	}{
		{KeyUsers, demoUsers()},
		{KeyPosts, demoPosts(now)},
		{KeyMenus, demoMenus(now)},
		{KeyComments, demoComments(now)},
	}
	for _, seed := range seeds {
		_, exists, err := s.kv.Get(ctx, seed.key)
		if err != nil {
			return fmt.Errorf("failed to check %s before seeding: %w", seed.key, err)
		}
		if exists {
			continue
		}
		if err := s.writeCollection(ctx, seed.key, seed.value); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.key, err)
		}
		s.logger.Info("seeded demo collection", zap.String("key", seed.key))
	}
	return nil
}
