// internal/builder/meta.go
package builder

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var (
	metaLineRe = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	metaMoreRe = regexp.MustCompile(`^[ ]{4,}(.*)$`)

	yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)
)

// splitMetaHeader separates an optional metadata header from the markdown
// body. A leading "---" block is parsed as YAML front matter. Otherwise a
// run of "Key: value" lines at the top of the file, ended by a blank line,
// is taken as the header; indented lines continue the previous key.
func splitMetaHeader(source []byte) (map[string]any, []byte, error) {
	if bytes.HasPrefix(source, []byte("---")) {
		meta := map[string]any{}
		body, err := frontmatter.Parse(bytes.NewReader(source), &meta, yamlFrontMatter)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
		}
		return meta, body, nil
	}
	return splitKeyValueHeader(source)
}

func splitKeyValueHeader(source []byte) (map[string]any, []byte, error) {
	values := map[string][]string{}
	var order []string
	var key string
	pos := 0

	for pos < len(source) {
		end := len(source)
		next := len(source)
		if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
			end = pos + i
			next = end + 1
		}
		line := string(bytes.TrimSuffix(source[pos:end], []byte("\r")))

		if strings.TrimSpace(line) == "" {
			if key != "" {
				pos = next
			}
			break
		}
		if m := metaLineRe.FindStringSubmatch(line); m != nil {
			key = strings.ToLower(m[1])
			if _, seen := values[key]; !seen {
				order = append(order, key)
			}
			values[key] = append(values[key], strings.TrimSpace(m[2]))
		} else if m := metaMoreRe.FindStringSubmatch(line); m != nil && key != "" {
			values[key] = append(values[key], strings.TrimSpace(m[1]))
		} else {
			break
		}
		pos = next
	}
	if key == "" {
		return nil, source, nil
	}

	meta := make(map[string]any, len(order))
	for _, k := range order {
		meta[k] = values[k]
	}
	return meta, source[pos:], nil
}
