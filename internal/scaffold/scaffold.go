// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"mdsite/internal/builder"
	"mdsite/internal/config"
)

// CreateNewSite lays out a starter site under root using the default
// directory names.
func CreateNewSite(root string, logger *slog.Logger) error {
	logger.Info("scaffolding new site", "root", root)

	files := map[string]string{
		config.DefaultConfig:        siteYamlContent,
		config.DefaultTemplate:      masterTemplateContent,
		"docs_md/index.md":          indexMdContent,
		"docs_md/index.json":        indexJSONContent,
		"docs_md/guides/index.md":   guidesMdContent,
		"docs_md/guides/index.json": guidesJSONContent,
		"docs/styles/main.css":      mainCSSContent,
		"docs/scripts/main.js":      mainJSContent,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", rel, err)
		}
	}
	logger.Info("site scaffolded", "next", "mdsite -r "+root)
	return nil
}

// CreateNewPage writes a markdown page and its JSON sidecar at relPath under
// the input directory. Existing files are never overwritten.
func CreateNewPage(opts config.Options, relPath, title string, logger *slog.Logger) error {
	relPath = filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "..") {
		return fmt.Errorf("page path %s must stay inside the input directory", relPath)
	}
	if filepath.Ext(relPath) != ".md" {
		relPath += ".md"
	}
	mdPath := filepath.Join(opts.InputPath(), relPath)
	metaPath := strings.TrimSuffix(mdPath, ".md") + ".json"

	for _, p := range []string{mdPath, metaPath} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite %s", p)
		}
	}

	tmpl, err := template.New("page").Parse(pageArchetype)
	if err != nil {
		return fmt.Errorf("failed to parse page archetype: %w", err)
	}
	var md bytes.Buffer
	if err := tmpl.Execute(&md, struct{ Title string }{Title: title}); err != nil {
		return fmt.Errorf("failed to execute page archetype: %w", err)
	}

	meta, err := json.MarshalIndent(builder.PageMeta{
		Title:   title,
		Styles:  []string{"main.css", "highlight.css"},
		Scripts: []string{},
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(mdPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(mdPath, md.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(metaPath, append(meta, '\n'), 0644); err != nil {
		return err
	}
	logger.Info("created page", "markdown", mdPath, "metadata", metaPath)
	return nil
}

const pageArchetype = `# {{.Title}}

Write something meaningful here.
`

const siteYamlContent = `# Defaults for mdsite. Command line flags take precedence.
input_dir: docs_md/
output_dir: docs/
site_suffix: " | My Site"
`

const masterTemplateContent = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{title}</title>
{styles}</head>
<body>
  <nav>
    <ul>
{navigation}    </ul>
  </nav>
  <main>
{pageContent}  </main>
{scripts}</body>
</html>
`

const indexMdContent = `# Welcome

This site was generated by mdsite. Read the [guides](guides/index.md).
`

const indexJSONContent = `{
  "title": "Home",
  "styles": ["main.css", "highlight.css"],
  "scripts": ["main.js"]
}
`

const guidesMdContent = `# Guides

Every folder with an index.md gets its own entry in the navigation.
`

const guidesJSONContent = `{
  "title": "Guides",
  "styles": ["main.css", "highlight.css"],
  "scripts": []
}
`

const mainCSSContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
}
nav ul { list-style: none; padding: 0; display: flex; gap: 1em; }
.chroma { background: #f6f8fa; padding: 0.5em; overflow-x: auto; }
`

const mainJSContent = `// Site scripts go here.
`
