package eval

import "strings"

// ExtractJSONObject pulls the outermost JSON object out of model text,
// stripping code fences first. Returns nil when no balanced object exists.
func ExtractJSONObject(text string) []byte {
	return extractBalanced(text, '{', '}')
}

// ExtractJSONArray pulls the outermost JSON array out of model text.
func ExtractJSONArray(text string) []byte {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, close rune) []byte {
	s := strings.ReplaceAll(text, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	depth := 0
	start := -1
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth > 0 {
				depth--
			}
			if depth == 0 && start >= 0 {
				return []byte(s[start : i+1])
			}
		}
	}
	return nil
}
