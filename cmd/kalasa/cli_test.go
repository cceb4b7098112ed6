package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"kalasa.app/kalasa/internal/config"
	"kalasa.app/kalasa/internal/core"
)

// newWorkspace points the CLI at a fresh SQLite file and returns a runner.
func newWorkspace(t *testing.T, seed bool) func(args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KALASA_SEED", "")

	cfg := "database_url: " + filepath.Join(dir, "kalasa.db") + "\nlog_level: error\n"
	if !seed {
		cfg += "seed_demo_data: false\n"
	}
	path := filepath.Join(dir, "kalasa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	return func(args ...string) (string, error) {
		var out bytes.Buffer
		err := execute(context.Background(), append([]string{"--config", path}, args...), &out)
		return out.String(), err
	}
}

func TestSessionAndPostFlow(t *testing.T) {
	run := newWorkspace(t, false)

	out, err := run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	_, err = run("post", "publish", "--title", "Soup")
	assert.ErrorIs(t, err, core.ErrNotSignedIn)

	out, err = run("register", "--name", "Ana", "--email", "ana@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to KALASA, Ana!")

	out, err = run("post", "publish", "--title", "Tomato Soup", "--ingredients", "tomato, basil", "--tags", "soup")
	require.NoError(t, err)
	assert.Contains(t, out, "Tomato Soup")
	assert.Contains(t, out, "tomato, basil")

	out, err = run("post", "list", "--query", "SOUP")
	require.NoError(t, err)
	assert.Contains(t, out, "Tomato Soup")

	out, err = run("post", "list", "--query", "curry")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts found.")

	_, err = run("logout")
	require.NoError(t, err)
	out, err = run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestSeededFeedAndEngagement(t *testing.T) {
	run := newWorkspace(t, true)

	out, err := run("post", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Smoky Chipotle Burger")

	_, err = run("login", "maria@example.com")
	require.NoError(t, err)

	out, err = run("post", "like", "post-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Like added (1 total)")

	out, err = run("menu", "save", "menu-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Save added (1 total)")

	_, err = run("comment", "add", "post-2", "Glaze", "looks", "perfect")
	require.NoError(t, err)

	out, err = run("post", "show", "post-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Glaze looks perfect")
	assert.Contains(t, out, "Posted by Chef Maria")

	out, err = run("post", "edit", "post-2", "--description", "Now with yuzu")
	require.NoError(t, err)
	assert.Contains(t, out, "Matcha Glazed Donuts")
	assert.Contains(t, out, "Now with yuzu")

	_, err = run("post", "like", "post-404")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMenuPublish(t *testing.T) {
	run := newWorkspace(t, false)
	_, err := run("register", "--name", "Ana", "--email", "ana@example.com")
	require.NoError(t, err)

	out, err := run("menu", "publish", "--title", "Tapas Night", "--category", "Dinner", "--audience", "Event",
		"--item", "Patatas bravas|Crispy potatoes|6.5", "--item", "Olives")
	require.NoError(t, err)
	assert.Contains(t, out, "Tapas Night")
	assert.Contains(t, out, "$6.50")

	_, err = run("menu", "publish", "--title", "Odd", "--category", "Supper")
	assert.Error(t, err)

	_, err = run("menu", "publish", "--title", "Bad", "--item", "Soup||cheap")
	assert.ErrorContains(t, err, "invalid price")
}

func TestDraftWithoutKey(t *testing.T) {
	run := newWorkspace(t, false)

	_, err := run("draft", "post", "corn", "salad")
	assert.ErrorIs(t, err, core.ErrGeneratorUnavailable)
}

func TestBrokenGeminiClientOnlyDisablesDrafts(t *testing.T) {
	run := newWorkspace(t, true)
	t.Setenv("GEMINI_API_KEY", "test-key")

	restore := newLLMService
	newLLMService = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core.LLMService, error) {
		return nil, errors.New("dial failed")
	}
	t.Cleanup(func() { newLLMService = restore })

	out, err := run("post", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Smoky Chipotle Burger")

	_, err = run("draft", "menu", "tapas")
	assert.ErrorIs(t, err, core.ErrGeneratorUnavailable)
}

func TestParseMenuItems(t *testing.T) {
	items, err := parseMenuItems([]string{" Toast | Sourdough | $4 ", "Tea"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Toast", items[0].Name)
	assert.Equal(t, "Sourdough", items[0].Description)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 4.0, *items[0].Price)
	assert.Nil(t, items[1].Price)

	_, err = parseMenuItems([]string{"Cake||-1"})
	assert.Error(t, err)
}

func TestDecodeDataURI(t *testing.T) {
	data, err := decodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = decodeDataURI("https://example.com/cat.png")
	assert.Error(t, err)
}
