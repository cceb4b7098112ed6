package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ContentGenerator drafts post text, menu ideas and food photos.
type ContentGenerator interface {
	GeneratePostDraft(ctx context.Context, seedTitle string) (*PostDraft, error)
	GenerateMenuDraft(ctx context.Context, style, audience string) (*MenuDraft, error)
	// GenerateImage returns a data URI, or "" when no image came back.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type PostDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`
}

type MenuDraftItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
}

type MenuDraft struct {
	Title string          `json:"title"`
	Items []MenuDraftItem `json:"items"`
}

func parsePostDraft(text string) (*PostDraft, error) {
	var draft PostDraft
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	switch {
	case strings.TrimSpace(draft.Title) == "":
		return nil, fmt.Errorf("%w: post draft has no title", ErrMalformedDraft)
	case strings.TrimSpace(draft.Description) == "":
		return nil, fmt.Errorf("%w: post draft has no description", ErrMalformedDraft)
	case draft.Ingredients == nil || draft.Tags == nil:
		return nil, fmt.Errorf("%w: post draft is missing ingredients or tags", ErrMalformedDraft)
	}
	return &draft, nil
}

func parseMenuDraft(text string) (*MenuDraft, error) {
	var draft MenuDraft
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: menu draft has no title", ErrMalformedDraft)
	}
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("%w: menu draft has no items", ErrMalformedDraft)
	}
	for i, item := range draft.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: menu item %d has no name", ErrMalformedDraft, i)
		}
	}
	return &draft, nil
}

// stripCodeFence removes a ```json fence some models wrap JSON replies in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
