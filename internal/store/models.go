package store

import (
	"fmt"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

type MenuCategory string

const (
	CategoryBreakfast MenuCategory = "Breakfast"
	CategoryLunch     MenuCategory = "Lunch"
	CategoryDinner    MenuCategory = "Dinner"
	CategoryBrunch    MenuCategory = "Brunch"
	CategorySpecial   MenuCategory = "Special"
)

var menuCategories = []MenuCategory{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryBrunch, CategorySpecial}

func (c MenuCategory) Valid() bool {
	for _, known := range menuCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Audience string

const (
	AudienceCafe       Audience = "Cafe"
	AudienceRestaurant Audience = "Restaurant"
	AudienceHome       Audience = "Home"
	AudienceEvent      Audience = "Event"
)

var audiences = []Audience{AudienceCafe, AudienceRestaurant, AudienceHome, AudienceEvent}

func (a Audience) Valid() bool {
	for _, known := range audiences {
		if a == known {
			return true
		}
	}
	return false
}

// EntityKind names the collection a like or save targets.
type EntityKind string

const (
	KindPost EntityKind = "post"
	KindMenu EntityKind = "menu"
)

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Avatar    string   `json:"avatar"`
	Bio       string   `json:"bio,omitempty"`
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}

type FoodPost struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"` // image or video, URI or data URI
	MediaType   MediaType `json:"mediaType"`
	Ingredients []string  `json:"ingredients"`
	Tags        []string  `json:"tags"`
	Likes       []string  `json:"likes"`
	Saves       []string  `json:"saves"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
}

type MenuIdea struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Title     string       `json:"title"`
	Items     []MenuItem   `json:"items"`
	Category  MenuCategory `json:"category"`
	Audience  Audience     `json:"audience"`
	IsPublic  bool         `json:"isPublic"`
	Likes     []string     `json:"likes"`
	Saves     []string     `json:"saves"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	EntityID  string    `json:"entityId"` // post or menu ID
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate carries a partial profile edit. Nil fields are left untouched.
type UserUpdate struct {
	Name   *string
	Email  *string
	Avatar *string
	Bio    *string
}

// MembershipStatus reports the outcome of a like or save toggle.
type MembershipStatus struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// FollowStatus reports the outcome of a follow toggle.
type FollowStatus struct {
	Following bool `json:"following"`
	Followers int  `json:"followers"`
}

func (u User) Validate() error {
	if u.ID == "" {
		return invalid("user", "missing id")
	}
	if u.Name == "" {
		return invalid("user "+u.ID, "missing name")
	}
	if u.Email == "" {
		return invalid("user "+u.ID, "missing email")
	}
	if err := uniqueIDs("user "+u.ID, "following", u.Following); err != nil {
		return err
	}
	return uniqueIDs("user "+u.ID, "followers", u.Followers)
}

func (p FoodPost) Validate() error {
	if p.ID == "" {
		return invalid("post", "missing id")
	}
	what := "post " + p.ID
	if p.UserID == "" {
		return invalid(what, "missing userId")
	}
	if !p.MediaType.Valid() {
		return invalid(what, fmt.Sprintf("unknown media type %q", p.MediaType))
	}
	if p.CreatedAt.IsZero() {
		return invalid(what, "missing createdAt")
	}
	if err := uniqueIDs(what, "likes", p.Likes); err != nil {
		return err
	}
	return uniqueIDs(what, "saves", p.Saves)
}

func (m MenuIdea) Validate() error {
	if m.ID == "" {
		return invalid("menu", "missing id")
	}
	what := "menu " + m.ID
	if m.UserID == "" {
		return invalid(what, "missing userId")
	}
	if !m.Category.Valid() {
		return invalid(what, fmt.Sprintf("unknown category %q", m.Category))
	}
	if !m.Audience.Valid() {
		return invalid(what, fmt.Sprintf("unknown audience %q", m.Audience))
	}
	if m.CreatedAt.IsZero() {
		return invalid(what, "missing createdAt")
	}
	for i, item := range m.Items {
		if item.Name == "" {
			return invalid(what, fmt.Sprintf("item %d has no name", i))
		}
	}
	if err := uniqueIDs(what, "likes", m.Likes); err != nil {
		return err
	}
	return uniqueIDs(what, "saves", m.Saves)
}

func (c Comment) Validate() error {
	if c.ID == "" {
		return invalid("comment", "missing id")
	}
	what := "comment " + c.ID
	switch {
	case c.UserID == "":
		return invalid(what, "missing userId")
	case c.EntityID == "":
		return invalid(what, "missing entityId")
	case c.Text == "":
		return invalid(what, "empty text")
	case c.CreatedAt.IsZero():
		return invalid(what, "missing createdAt")
	}
	return nil
}

func invalid(what, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, what, reason)
}

func uniqueIDs(what, field string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalid(what, fmt.Sprintf("%s lists %q twice", field, id))
		}
		seen[id] = struct{}{}
	}
	return nil
}
