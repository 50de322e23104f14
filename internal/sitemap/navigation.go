// internal/sitemap/navigation.go
package sitemap

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const navItem = "<li><a href=\"%s\">%s</a></li>\n"

// Link is one navigation entry.
type Link struct {
	Href  string
	Label string
}

// Links returns the navigation entries in site-map order. An index.md names
// its folder (or "Home" at the root); any other page is named after its file.
func Links(m *SiteMap) []Link {
	var links []Link
	for _, page := range m.Pages() {
		name := strings.TrimSuffix(page.Name, path.Ext(page.Name))
		href := "/" + path.Join(page.Folder, name+".html")

		var label string
		switch {
		case name == "index" && page.Folder == "":
			label = "Home"
		case name == "index":
			label = titleCase(path.Base(page.Folder))
		default:
			label = titleCase(name)
		}
		links = append(links, Link{Href: href, Label: label})
	}
	return links
}

// FormatNavigation renders the site map as a fragment of <li> items.
func FormatNavigation(m *SiteMap) string {
	var b strings.Builder
	for _, link := range Links(m) {
		fmt.Fprintf(&b, navItem, link.Href, link.Label)
	}
	return b.String()
}

// titleCase capitalizes every run of cased letters and lowercases the rest of
// the run, so word boundaries fall on any uncased rune ("setup2go" becomes
// "Setup2Go", "getting_started" becomes "Getting_Started").
func titleCase(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	start := -1
	for i, r := range s {
		if isCased(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
