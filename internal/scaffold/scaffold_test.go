package scaffold

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdsite/internal/builder"
	"mdsite/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateNewSiteBuilds(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	require.NoError(t, CreateNewSite(root, quietLogger()))

	opts := config.Defaults()
	opts.RootDir = root
	n, err := builder.New(opts, quietLogger()).BuildSite()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(root, "docs", "guides", "index.html"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "<title>Guides | Hexpowered</title>")
	assert.Contains(t, out, `href="../styles/main.css"`)
	assert.Contains(t, out, `href="../styles/highlight.css"`)
	assert.FileExists(t, filepath.Join(root, "docs", "styles", "highlight.css"))
	assert.Contains(t, out, `<li><a href="/guides/index.html">Guides</a></li>`)

	home, err := os.ReadFile(filepath.Join(root, "docs", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="guides/index.html"`)
}

func TestCreateNewSiteRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.DefaultTemplate), []byte("mine"), 0644))

	err := CreateNewSite(root, quietLogger())
	assert.ErrorContains(t, err, "refusing to overwrite")

	data, err := os.ReadFile(filepath.Join(root, config.DefaultTemplate))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestCreateNewPage(t *testing.T) {
	opts := config.Defaults()
	opts.RootDir = t.TempDir()

	require.NoError(t, CreateNewPage(opts, "guides/setup", "Setup", quietLogger()))

	md, err := os.ReadFile(filepath.Join(opts.InputPath(), "guides", "setup.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Setup\n\nWrite something meaningful here.\n", string(md))

	raw, err := os.ReadFile(filepath.Join(opts.InputPath(), "guides", "setup.json"))
	require.NoError(t, err)
	meta, err := builder.ParsePageMeta(raw)
	require.NoError(t, err)
	assert.Equal(t, "Setup", meta.Title)
	assert.Equal(t, []string{"main.css", "highlight.css"}, meta.Styles)

	assert.ErrorContains(t, CreateNewPage(opts, "guides/setup.md", "Again", quietLogger()), "refusing to overwrite")
}

func TestCreateNewPageRejectsEscape(t *testing.T) {
	opts := config.Defaults()
	opts.RootDir = t.TempDir()
	assert.ErrorContains(t, CreateNewPage(opts, "../outside", "X", quietLogger()), "must stay inside")
}
