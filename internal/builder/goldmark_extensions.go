// internal/builder/goldmark_extensions.go
package builder

import (
	"bytes"
	"net/url"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// mdLinkTransformer points relative links at sibling markdown pages to the
// generated html file instead.
type mdLinkTransformer struct{}

func newMDLinkTransformer() parser.ASTTransformer {
	return &mdLinkTransformer{}
}

func (t *mdLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		link.Destination = rewriteMDLink(link.Destination)
		return ast.WalkContinue, nil
	})
}

// rewriteMDLink swaps a trailing ".md" for ".html", keeping any query or
// fragment. Absolute URLs are left alone.
func rewriteMDLink(dest []byte) []byte {
	u, err := url.Parse(string(dest))
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}
	path := []byte(u.Path)
	if !bytes.HasSuffix(path, []byte(".md")) {
		return dest
	}
	u.Path = string(bytes.TrimSuffix(path, []byte(".md"))) + ".html"
	return []byte(u.String())
}
