package content

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// ParseFrontMatter splits a raw document into its YAML front-matter map and
// the body text.
//
// A preamble is recognized only when the document's first line is exactly
// "---"; the block runs until the next "---" line. Documents without a
// preamble return an empty map and the full text as body. A preamble that
// fails YAML decoding is treated the same as an absent one (empty map, body
// preserved) — malformed metadata never fails a document.
func ParseFrontMatter(raw string) (map[string]any, string) {
	rest, ok := strings.CutPrefix(raw, frontMatterFence+"\n")
	if !ok {
		return map[string]any{}, raw
	}

	block, body, ok := cutFence(rest)
	if !ok {
		// Unterminated preamble; treat the whole document as body.
		return map[string]any{}, raw
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil || meta == nil {
		return map[string]any{}, body
	}
	return meta, body
}

// cutFence splits s at the first line consisting of the closing fence.
// Returns the text before the fence, the text after it, and whether a
// fence line was found.
func cutFence(s string) (block, body string, ok bool) {
	if after, found := strings.CutPrefix(s, frontMatterFence+"\n"); found {
		return "", after, true
	}
	if s == frontMatterFence {
		return "", "", true
	}
	if before, after, found := strings.Cut(s, "\n"+frontMatterFence+"\n"); found {
		return before, after, true
	}
	if before, found := strings.CutSuffix(s, "\n"+frontMatterFence); found {
		return before, "", true
	}
	return "", "", false
}
