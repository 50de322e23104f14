// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ConvertOptions controls markdown conversion.
type ConvertOptions struct {
	// HighlightStyle is the chroma style name. Code is emitted with CSS
	// classes; BuildSite exports the matching rules to styles/highlight.css.
	HighlightStyle string
	// Sanitize runs the rendered fragment through a UGC policy.
	Sanitize bool
}

// Converter turns markdown sources into HTML fragments.
type Converter struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewConverter builds a goldmark pipeline for opts.
func NewConverter(opts ConvertOptions) *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.HighlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	c := &Converter{md: md}
	if opts.Sanitize {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		c.sanitizer = policy
	}
	return c
}

// Convert strips the optional metadata header from source and renders the
// remaining markdown.
func (c *Converter) Convert(source []byte) (Document, error) {
	meta, body, err := splitMetaHeader(source)
	if err != nil {
		return Document{}, err
	}

	var htmlBuffer bytes.Buffer
	if err := c.md.Convert(body, &htmlBuffer); err != nil {
		return Document{}, fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if c.sanitizer != nil {
		return Document{Meta: meta, HTML: string(c.sanitizer.SanitizeBytes(htmlBuffer.Bytes()))}, nil
	}
	return Document{Meta: meta, HTML: htmlBuffer.String()}, nil
}
