// internal/sitemap/sitemap.go

// Package sitemap groups the markdown pages of a site by folder and renders
// the navigation menu shared by every page.
package sitemap

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// SiteMap is an ordered multi-map from folder path to the markdown files it
// directly contains. Folder keys are slash-separated and relative to the
// input root; the root itself is "". Folders appear in first-insertion order.
type SiteMap struct {
	folders []string
	files   map[string][]string
}

// New returns an empty site map.
func New() *SiteMap {
	return &SiteMap{files: make(map[string][]string)}
}

// Add appends file to folder, creating the folder entry on first use.
func (m *SiteMap) Add(folder, file string) {
	if _, ok := m.files[folder]; !ok {
		m.folders = append(m.folders, folder)
	}
	m.files[folder] = append(m.files[folder], file)
}

// Folders returns the folder keys in insertion order.
func (m *SiteMap) Folders() []string {
	return append([]string(nil), m.folders...)
}

// Files returns the files recorded for folder, in insertion order.
func (m *SiteMap) Files(folder string) []string {
	return append([]string(nil), m.files[folder]...)
}

// Len is the total number of pages.
func (m *SiteMap) Len() int {
	n := 0
	for _, files := range m.files {
		n += len(files)
	}
	return n
}

// Page is one markdown file located by its folder key.
type Page struct {
	Folder string
	Name   string
}

// RelPath is the slash-separated path of the page relative to the input root.
func (p Page) RelPath() string {
	return path.Join(p.Folder, p.Name)
}

// Pages flattens the map into folder order, then file order.
func (m *SiteMap) Pages() []Page {
	pages := make([]Page, 0, m.Len())
	for _, folder := range m.folders {
		for _, name := range m.files[folder] {
			pages = append(pages, Page{Folder: folder, Name: name})
		}
	}
	return pages
}

// Build walks inputDir top-down and records every regular file with a ".md"
// extension. Within a directory, files are recorded before subdirectories are
// visited, and entries are taken in lexical order.
func Build(inputDir string) (*SiteMap, error) {
	m := New()
	if err := walk(m, inputDir, ""); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", inputDir, err)
	}
	return m, nil
}

func walk(m *SiteMap, dir, folder string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var subdirs []fs.DirEntry
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, entry)
		case entry.Type().IsRegular() && filepath.Ext(entry.Name()) == ".md":
			m.Add(folder, entry.Name())
		}
	}
	for _, sub := range subdirs {
		if err := walk(m, filepath.Join(dir, sub.Name()), path.Join(folder, sub.Name())); err != nil {
			return err
		}
	}
	return nil
}
