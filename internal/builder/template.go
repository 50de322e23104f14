// internal/builder/template.go
package builder

import (
	"fmt"
	"strings"
)

const (
	styleTag  = "<link rel=\"stylesheet\" type=\"text/css\" href=\"%sstyles/%s\">\n"
	scriptTag = "<script type=\"text/javascript\" src=\"%sscripts/%s\"></script>\n"
)

// FormatStyles renders one stylesheet link per entry, relative to backRef.
func FormatStyles(stylesheets []string, backRef string) string {
	var b strings.Builder
	for _, s := range stylesheets {
		fmt.Fprintf(&b, styleTag, backRef, s)
	}
	return b.String()
}

// FormatScripts renders one script tag per entry, relative to backRef.
func FormatScripts(scripts []string, backRef string) string {
	var b strings.Builder
	for _, s := range scripts {
		fmt.Fprintf(&b, scriptTag, backRef, s)
	}
	return b.String()
}

// RenderTemplate substitutes the {title}, {backRef}, {styles}, {scripts},
// {navigation} and {pageContent} tokens in tmpl. "{{" and "}}" produce literal
// braces; anything else is copied through unchanged.
func RenderTemplate(tmpl string, data PageData) string {
	r := strings.NewReplacer(
		"{{", "{",
		"}}", "}",
		"{title}", data.Title,
		"{backRef}", data.BackRef,
		"{styles}", data.Styles,
		"{scripts}", data.Scripts,
		"{navigation}", data.Navigation,
		"{pageContent}", data.PageContent,
	)
	return r.Replace(tmpl)
}
