package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persisted keys, one blob per collection plus the session pointer.
const (
	KeyUsers    = "kalasa_users"
	KeyPosts    = "kalasa_posts"
	KeyMenus    = "kalasa_menus"
	KeyComments = "kalasa_comments"
	KeySession  = "kalasa_session"
)

// Substrate is the flat key/value layer the document store persists to.
type Substrate interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DocumentStore simulates a small relational store over a Substrate. Every
// write re-serializes the whole collection it touches.
type DocumentStore struct {
	kv     Substrate
	logger *zap.Logger
	newID  func() string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

type Option func(*DocumentStore)

// WithIDGenerator overrides the suffix used for generated user IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *DocumentStore) { s.newID = fn }
}

func NewDocumentStore(kv Substrate, logger *zap.Logger, opts ...Option) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DocumentStore{
		kv:     kv,
		logger: logger.Named("store"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentStore) Close() error {
	return s.kv.Close()
}

type validator interface {
	Validate() error
}

// readCollection decodes and validates a collection. A missing key is an
// empty collection; anything that does not decode cleanly is ErrCorrupt.
func readCollection[T validator](ctx context.Context, kv Substrate, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: %s: not a list", ErrCorrupt, key)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
		}
	}
	return items, nil
}

func (s *DocumentStore) writeCollection(ctx context.Context, key string, items any) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return err
	}
	s.logger.Debug("collection written", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

func (s *DocumentStore) users(ctx context.Context) ([]User, error) {
	return readCollection[User](ctx, s.kv, KeyUsers)
}

func (s *DocumentStore) posts(ctx context.Context) ([]FoodPost, error) {
	return readCollection[FoodPost](ctx, s.kv, KeyPosts)
}

func (s *DocumentStore) menus(ctx context.Context) ([]MenuIdea, error) {
	return readCollection[MenuIdea](ctx, s.kv, KeyMenus)
}

func (s *DocumentStore) comments(ctx context.Context) ([]Comment, error) {
	return readCollection[Comment](ctx, s.kv, KeyComments)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

// toggleMembership adds id to list if absent and removes it otherwise.
func toggleMembership(list []string, id string) ([]string, bool) {
	out := make([]string, 0, len(list)+1)
	removed := false
	for _, member := range list {
		if member == id {
			removed = true
			continue
		}
		out = append(out, member)
	}
	if removed {
		return out, false
	}
	return append(out, id), true
}

func addMember(list []string, id string) []string {
	for _, member := range list {
		if member == id {
			return list
		}
	}
	return append(list, id)
}

func removeMember(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, member := range list {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}
