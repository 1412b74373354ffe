package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedObjectPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")
	bareObjectPattern   = regexp.MustCompile(`(?s)\{.*\}`)
	trailingComma       = regexp.MustCompile(`,\s*([}\]])`)
)

// ErrNoJSON is returned when a completion carries no JSON object at all.
var ErrNoJSON = errors.New("no JSON object in completion")

// ExtractJSON pulls the first JSON object out of a completion, tolerating
// markdown fences, // comments and trailing commas.
func ExtractJSON(content string) string {
	raw := ""
	if m := fencedObjectPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else {
		raw = bareObjectPattern.FindString(content)
	}
	if raw == "" {
		return ""
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = stripComment(line)
	}
	return trailingComma.ReplaceAllString(strings.Join(lines, "\n"), "$1")
}

// DecodeJSON extracts and strictly decodes a JSON object into v.
// Unknown fields are ignored; type mismatches are errors.
func DecodeJSON(content string, v any) error {
	raw := ExtractJSON(content)
	if raw == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode completion JSON: %w", err)
	}
	return nil
}

// stripComment drops a trailing // comment that is outside a string literal.
func stripComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}
	inString, escaped := false, false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
