package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandlerInjectsReloadScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>hi</body></html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "styles"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles", "main.css"), []byte("body{}"), 0644))

	srv := httptest.NewServer(newHandler(newHub(quietLogger()), dir))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "new WebSocket")
	assert.True(t, strings.HasSuffix(body, "</script>\n</body></html>"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))

	_, css := get(t, srv.URL+"/styles/main.css")
	assert.Equal(t, "body{}", css)
}

func TestHandlerPassesThroughNotFound(t *testing.T) {
	srv := httptest.NewServer(newHandler(newHub(quietLogger()), t.TempDir()))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/missing.html")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, "WebSocket")
}

func TestHubBroadcastsReload(t *testing.T) {
	hub := newHub(quietLogger())
	srv := httptest.NewServer(newHandler(hub, t.TempDir()))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 10*time.Millisecond)

	hub.broadcast([]byte(reloadMessage))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, reloadMessage, string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return hub.count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestAddWatchesSkipsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs_md", "guides"), 0755))
	tmpl := filepath.Join(dir, "master_template.html")
	require.NoError(t, os.WriteFile(tmpl, []byte("{pageContent}"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	err = addWatches(watcher, []string{filepath.Join(dir, "docs_md"), tmpl, filepath.Join(dir, "absent.yaml")}, quietLogger())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "docs_md"),
		filepath.Join(dir, "docs_md", "guides"),
		dir,
	}, watcher.WatchList())
}

func TestInjectReloadScript(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"body", "<body>hi</body>", "<body>hi" + liveReloadScript + "</body>"},
		{"last body", "<pre></body></pre><body></body>", "<pre></body></pre><body>" + liveReloadScript + "</body>"},
		{"fragment", "<p>hi</p>", "<p>hi</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(injectReloadScript([]byte(tt.page))))
		})
	}
}

func TestHandlerSetsContentLengthForInjectedPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("<body></body>"), 0644))

	srv := httptest.NewServer(newHandler(newHub(quietLogger()), dir))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/page.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(len(body)), resp.ContentLength)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestWatchForChangesRebuildsOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watcher.Add(dir))

	var builds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchForChanges(ctx, watcher, newHub(quietLogger()), func() error {
		builds.Add(1)
		return nil
	}, quietLogger())

	page := filepath.Join(dir, "index.md")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(page, []byte(strings.Repeat("#", i+1)+" Hi"), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Never(t, func() bool { return builds.Load() > 1 }, 2*debounceDuration, 50*time.Millisecond)
}
