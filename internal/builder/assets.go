// internal/builder/assets.go
package builder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"mdsite/internal/util"
)

// highlightCSS is where the code highlighting stylesheet lands, relative to
// the output directory. Sidecars reference it as "highlight.css".
var highlightCSS = filepath.Join("styles", "highlight.css")

// staticExts lists the file extensions copied from the static directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".woff": true, ".woff2": true,
}

// copyStaticAssets mirrors staticDir into outputDir. An empty staticDir is a no-op.
func copyStaticAssets(staticDir, outputDir string) error {
	if staticDir == "" {
		return nil
	}
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !staticExts[filepath.Ext(info.Name())] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(outputDir, rel))
	})
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeHighlightCSS exports the chroma style as class rules matching the
// markup emitted by the converter. Unknown style names fall back to chroma's
// default style.
func writeHighlightCSS(style, outputDir string) error {
	if style == "" {
		return nil
	}
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(style)); err != nil {
		return fmt.Errorf("failed to render highlight style %s: %w", style, err)
	}
	return util.WriteFile(filepath.Join(outputDir, highlightCSS), b.String())
}
