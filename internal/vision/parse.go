package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractSpan returns the first balanced open..close span in content.
// Vision models wrap their JSON in prose or markdown fences often enough
// that taking the payload verbatim is not an option.
func extractSpan(content string, open, closing byte) (string, error) {
	start := strings.IndexByte(content, open)
	if start < 0 {
		return "", fmt.Errorf("no %q found in response", string(open))
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced %q in response", string(open))
}

// parseIndices pulls a zero-based index list out of a model reply. Both a
// bare array and a {"selectedIndices": [...]} wrapper are accepted.
func parseIndices(content string) ([]int, error) {
	if span, err := extractSpan(content, '{', '}'); err == nil {
		var wrapper struct {
			SelectedIndices []int `json:"selectedIndices"`
		}
		if err := json.Unmarshal([]byte(span), &wrapper); err == nil && wrapper.SelectedIndices != nil {
			return wrapper.SelectedIndices, nil
		}
	}

	span, err := extractSpan(content, '[', ']')
	if err != nil {
		return nil, err
	}
	var indices []int
	if err := json.Unmarshal([]byte(span), &indices); err != nil {
		return nil, fmt.Errorf("response is not an index array: %w", err)
	}
	return indices, nil
}
