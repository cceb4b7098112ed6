package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPrefix = "kalasa-test:"

func newRedisStore(t *testing.T) (*DocumentStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv, err := NewRedisKV(context.Background(), &redis.Options{Addr: mr.Addr()}, testPrefix)
	require.NoError(t, err)

	n := 0
	s := NewDocumentStore(kv, zap.NewNop(), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%d", n)
	}))
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisKVAbsentKey(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	raw, ok, err := s.kv.Get(ctx, KeyPosts)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRedisKVAppliesPrefix(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)

	assert.True(t, mr.Exists(testPrefix+KeyUsers))
	assert.True(t, mr.Exists(testPrefix+KeySession))
	assert.False(t, mr.Exists(KeyUsers))
}

func TestRedisLogoutDeletesSession(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	assert.False(t, mr.Exists(testPrefix+KeySession))
	user, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRedisCorruptCollection(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set(testPrefix+KeyMenus, `[{"id":"menu-1","bogus":true}]`))

	_, err := s.ListMenus(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNewRedisKVUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisKV(context.Background(), &redis.Options{Addr: addr, MaxRetries: -1}, "")
	assert.Error(t, err)
}

func TestStoreOnEverySubstrate(t *testing.T) {
	substrates := map[string]func(t *testing.T) *DocumentStore{
		"sqlite": func(t *testing.T) *DocumentStore {
			s, _ := newTestStore(t)
			return s
		},
		"redis": func(t *testing.T) *DocumentStore {
			s, _ := newRedisStore(t)
			return s
		},
	}

	for name, open := range substrates {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			u, err := s.Register(ctx, "Ana", "ana@example.com")
			require.NoError(t, err)
			_, err = s.Register(ctx, "Other", "ANA@example.com ")
			assert.ErrorIs(t, err, ErrDuplicateEmail)

			require.NoError(t, s.Logout(ctx))
			again, err := s.Login(ctx, "ana@example.com")
			require.NoError(t, err)
			assert.Equal(t, u.ID, again.ID)

			base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			require.NoError(t, s.AddPost(ctx, newPost("post-a", u.ID, base)))
			require.NoError(t, s.AddPost(ctx, newPost("post-b", u.ID, base.Add(time.Hour))))
			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "post-b", posts[0].ID)

			status, err := s.ToggleLike(ctx, KindPost, "post-a", u.ID)
			require.NoError(t, err)
			assert.True(t, status.Active)
			status, err = s.ToggleLike(ctx, KindPost, "post-a", u.ID)
			require.NoError(t, err)
			assert.False(t, status.Active)

			require.NoError(t, s.AddComment(ctx, Comment{ID: "c1", UserID: u.ID, EntityID: "post-a", Text: "first", CreatedAt: base}))
			require.NoError(t, s.AddComment(ctx, Comment{ID: "c2", UserID: u.ID, EntityID: "post-a", Text: "second", CreatedAt: base.Add(time.Minute)}))
			comments, err := s.GetComments(ctx, "post-a")
			require.NoError(t, err)
			require.Len(t, comments, 2)
			assert.Equal(t, "c2", comments[0].ID)

			removed, err := s.DeletePost(ctx, "post-b")
			require.NoError(t, err)
			assert.True(t, removed)
		})
	}
}
