// internal/builder/builder.go
package builder

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mdsite/internal/config"
	"mdsite/internal/sitemap"
	"mdsite/internal/util"
)

// Builder renders markdown pages into the master template.
type Builder struct {
	opts config.Options
	conv *Converter
	log  *slog.Logger
}

// New returns a Builder for opts. A nil logger falls back to slog.Default.
func New(opts config.Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		opts: opts,
		conv: NewConverter(ConvertOptions{
			HighlightStyle: opts.HighlightStyle,
			Sanitize:       opts.Sanitize,
		}),
		log: logger,
	}
}

// LoadTemplate reads the master template from the site root.
func (b *Builder) LoadTemplate() (string, error) {
	tmpl, err := util.ReadFile(b.opts.TemplatePath())
	if err != nil {
		return "", fmt.Errorf("failed to load template: %w", err)
	}
	return tmpl, nil
}

// Navigation walks the input directory and renders the shared menu.
func (b *Builder) Navigation() (*sitemap.SiteMap, string, error) {
	m, err := sitemap.Build(b.opts.InputPath())
	if err != nil {
		return nil, "", err
	}
	return m, sitemap.FormatNavigation(m), nil
}

// BuildSite generates every page found under the input directory, writes the
// highlighting stylesheet and copies static assets. It returns the number of pages written.
func (b *Builder) BuildSite() (int, error) {
	tmpl, err := b.LoadTemplate()
	if err != nil {
		return 0, err
	}
	m, navigation, err := b.Navigation()
	if err != nil {
		return 0, err
	}
	b.log.Debug("site map built", "folders", len(m.Folders()), "pages", m.Len())

	pagesGenerated := 0
	for _, page := range m.Pages() {
		rel := page.RelPath()
		b.log.Info("generating html", "page", rel)
		if err := b.BuildPage(tmpl, navigation, rel); err != nil {
			return pagesGenerated, err
		}
		pagesGenerated++
	}

	if err := writeHighlightCSS(b.opts.HighlightStyle, b.opts.OutputPath()); err != nil {
		return pagesGenerated, err
	}
	if err := copyStaticAssets(b.opts.StaticPath(), b.opts.OutputPath()); err != nil {
		return pagesGenerated, err
	}
	return pagesGenerated, nil
}

// BuildSingle generates one page. The whole input tree is still walked so
// the page carries the same navigation as in a full build.
func (b *Builder) BuildSingle(relPath string) error {
	tmpl, err := b.LoadTemplate()
	if err != nil {
		return err
	}
	_, navigation, err := b.Navigation()
	if err != nil {
		return err
	}
	rel := filepath.ToSlash(filepath.Clean(relPath))
	b.log.Info("generating html", "page", rel)
	return b.BuildPage(tmpl, navigation, rel)
}

// BuildPage renders relPath (slash-separated, relative to the input
// directory) and writes it to the mirrored path under the output directory.
func (b *Builder) BuildPage(tmpl, navigation, relPath string) error {
	data, err := b.RenderPage(tmpl, navigation, relPath)
	if err != nil {
		return err
	}
	outputPath := filepath.Join(b.opts.OutputPath(), filepath.FromSlash(htmlName(relPath)))
	return util.WriteFile(outputPath, data)
}

// RenderPage returns the finished html for relPath without writing it.
func (b *Builder) RenderPage(tmpl, navigation, relPath string) (string, error) {
	sourcePath := filepath.Join(b.opts.InputPath(), filepath.FromSlash(relPath))
	md, err := util.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", sourcePath, err)
	}
	if !utf8.ValidString(md) {
		return "", fmt.Errorf("content file is not valid UTF-8: %s", sourcePath)
	}

	metaPath := strings.TrimSuffix(sourcePath, ".md") + ".json"
	rawMeta, err := util.ReadFile(metaPath)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata for %s: %w", relPath, err)
	}
	meta, err := ParsePageMeta([]byte(rawMeta))
	if err != nil {
		return "", fmt.Errorf("invalid metadata %s: %w", metaPath, err)
	}

	doc, err := b.conv.Convert([]byte(md))
	if err != nil {
		return "", fmt.Errorf("failed to process content for %s: %w", relPath, err)
	}
	if len(doc.Meta) > 0 {
		b.log.Debug("embedded metadata header", "page", relPath, "keys", len(doc.Meta))
	}

	backRef := util.ComputeBackRef(relPath)
	return RenderTemplate(tmpl, PageData{
		Title:       b.opts.SitePrefix + meta.Title + b.opts.SiteSuffix,
		BackRef:     backRef,
		Styles:      FormatStyles(meta.Styles, backRef),
		Scripts:     FormatScripts(meta.Scripts, backRef),
		Navigation:  navigation,
		PageContent: doc.HTML,
	}), nil
}

// htmlName maps "a/b/page.md" to "a/b/page.html".
func htmlName(relPath string) string {
	return strings.TrimSuffix(relPath, path.Ext(relPath)) + ".html"
}
