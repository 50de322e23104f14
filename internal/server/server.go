// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 500 * time.Millisecond

// Config describes a dev server run.
type Config struct {
	Addr string
	// OutputDir is served over HTTP.
	OutputDir string
	// WatchPaths are files or directories whose changes trigger Build.
	WatchPaths []string
	// Build regenerates the site.
	Build  func() error
	Logger *slog.Logger
}

// Run builds the site, then serves OutputDir with live reload until ctx is
// cancelled, rebuilding whenever a watched path changes.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Build(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, cfg.WatchPaths, logger); err != nil {
		return err
	}
	go watchForChanges(ctx, watcher, hub, cfg.Build, logger)

	srv := &http.Server{Addr: cfg.Addr, Handler: newHandler(hub, cfg.OutputDir)}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving site", "url", "http://localhost"+cfg.Addr, "dir", cfg.OutputDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func newHandler(hub *Hub, outputDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWs)
	mux.Handle("/", liveReload(http.FileServer(http.Dir(outputDir))))
	return mux
}

// addWatches registers every directory under the watch paths. Plain files
// are watched through their parent directory so editors that save by
// rename are still seen.
func addWatches(watcher *fsnotify.Watcher, paths []string, logger *slog.Logger) error {
	watched := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("could not watch directory", "dir", dir, "error", err)
			return
		}
		logger.Debug("watching directory", "dir", dir)
		watched[dir] = true
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			addWatch(filepath.Dir(path))
			continue
		}
		if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				addWatch(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return nil
}

func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, hub *Hub, build func() error, logger *slog.Logger) {
	rebuild := newDebouncer(debounceDuration, func() {
		logger.Info("change detected, rebuilding")
		if err := build(); err != nil {
			logger.Error("rebuild failed", "error", err)
			return
		}
		logger.Info("site rebuilt", "clients", hub.count())
		hub.broadcast([]byte(reloadMessage))
	})
	defer rebuild.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("could not watch directory", "dir", event.Name, "error", err)
					}
				}
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			rebuild.trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// liveReload disables caching and adds the reload script to html pages.
func liveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if !strings.HasSuffix(r.URL.Path, ".html") && !strings.HasSuffix(r.URL.Path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		rec := newBufferedResponse()
		next.ServeHTTP(rec, r)
		body := rec.body.Bytes()
		if rec.status == http.StatusOK {
			body = injectReloadScript(body)
		}
		rec.flush(w, body)
	})
}

// injectReloadScript places the script before the last </body>. Pages
// without one are returned unchanged.
func injectReloadScript(page []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return page
	}
	out := make([]byte, 0, len(page)+len(liveReloadScript))
	out = append(out, page[:i]...)
	out = append(out, liveReloadScript...)
	return append(out, page[i:]...)
}

// bufferedResponse captures a handler's response so the body can be
// rewritten before anything reaches the client.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (br *bufferedResponse) Header() http.Header { return br.header }

func (br *bufferedResponse) Write(b []byte) (int, error) { return br.body.Write(b) }

func (br *bufferedResponse) WriteHeader(status int) { br.status = status }

// flush sends the captured status and headers to w followed by body,
// replacing any Content-Length the handler computed for the original body.
func (br *bufferedResponse) flush(w http.ResponseWriter, body []byte) {
	dst := w.Header()
	for key, values := range br.header {
		dst[key] = append(dst[key], values...)
	}
	if br.status != http.StatusNotModified {
		dst.Set("Content-Length", strconv.Itoa(len(body)))
	}
	w.WriteHeader(br.status)
	w.Write(body)
}

const liveReloadScript = `
<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'mdsite serve'.");
    };
  })();
</script>
`
