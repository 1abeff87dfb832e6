package llm

import (
	"encoding/json"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// ExtractJSONObject pulls the first JSON object out of raw model text. The
// whole text is tried first, then each balanced {...} span in order.
// Fields are left undecoded so callers can type-check them.
func ExtractJSONObject(raw string) (map[string]json.RawMessage, error) {
	text := stripFences(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, nil
	}

	for start := strings.IndexByte(text, '{'); start >= 0; {
		// An unclosed brace is skipped; a later span may still be complete.
		if end := matchingBrace(text, start); end >= 0 {
			obj = nil
			if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil && obj != nil {
				return obj, nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, domain.ErrMalformedModelOutput
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// matchingBrace returns the index of the brace closing the one at start,
// skipping braces inside string literals, or -1.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
