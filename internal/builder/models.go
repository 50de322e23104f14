// internal/builder/models.go
package builder

import (
	"encoding/json"
	"fmt"
)

// requiredMetaKeys must be present in every sidecar file.
var requiredMetaKeys = []string{"title", "styles", "scripts"}

// PageMeta holds the contents of a page's JSON sidecar.
type PageMeta struct {
	Title   string   `json:"title"`
	Styles  []string `json:"styles"`
	Scripts []string `json:"scripts"`
}

// ParsePageMeta decodes a sidecar and checks that every required key is present.
func ParsePageMeta(data []byte) (PageMeta, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return PageMeta{}, fmt.Errorf("malformed metadata: %w", err)
	}
	for _, key := range requiredMetaKeys {
		if _, ok := raw[key]; !ok {
			return PageMeta{}, fmt.Errorf("metadata is missing required key %q", key)
		}
	}

	var meta PageMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return PageMeta{}, fmt.Errorf("malformed metadata: %w", err)
	}
	return meta, nil
}

// PageData is what gets substituted into the master template.
type PageData struct {
	Title       string
	BackRef     string
	Styles      string
	Scripts     string
	Navigation  string
	PageContent string
}

// Document is a converted markdown page.
type Document struct {
	// Meta is the embedded metadata header, if the source had one.
	Meta map[string]any
	HTML string
}
