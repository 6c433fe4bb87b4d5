package agent

import (
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced JSON object found in
// arbitrary text. Models wrap plans in prose or markdown fences more often
// than not; this tolerates leading BOM/whitespace, ```json fences, and
// trailing chatter, and understands strings and escapes so braces inside
// quoted values do not confuse the balance count.
func ExtractJSONObject(text string) (string, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object")
}
