// Package notes holds note content helpers used before content is sent to the vault.
package notes

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yaml.v3 decodes nested mappings as map[string]any, which encodes cleanly to JSON.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
}

// SplitFrontMatter separates a leading YAML front matter block from content.
// Content without a block is returned unchanged with a nil map.
func SplitFrontMatter(content string) (map[string]any, string, error) {
	var matter map[string]any
	body, err := frontmatter.Parse(bytes.NewReader([]byte(content)), &matter, formats...)
	if err != nil {
		return nil, "", fmt.Errorf("invalid front matter: %w", err)
	}
	return matter, string(body), nil
}

// MergeFrontMatter overlays explicit on top of parsed. Explicit keys win.
// The result is never nil.
func MergeFrontMatter(parsed, explicit map[string]any) map[string]any {
	merged := make(map[string]any, len(parsed)+len(explicit))
	for k, v := range parsed {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}
