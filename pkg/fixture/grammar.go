package fixture

import "strings"

// ParseReferences parses a free-form reference string into identifiers.
//
// The grammar supports three shapes:
//
//	alice                  bare key, class inferred later
//	alice, bob             comma separated bare keys
//	User(alice, bob)       grouped keys under an explicit class
//
// Grouped patterns are scanned left to right and are non-overlapping; text
// between groups (separating punctuation) is ignored. Line breaks are
// stripped first so multi-line declarations collapse to one logical line.
// When the string contains no grouped pattern at all it is returned as a
// single bare identifier whose key may still hold a comma separated list;
// flattening splits and drops empties later.
func ParseReferences(s string) []Identifier {
	s = stripLineBreaks(s)

	var out []Identifier
	pos := 0
	for {
		class, keys, next, ok := scanGroup(s, pos)
		if !ok {
			break
		}
		for _, key := range SplitKeys(keys) {
			out = append(out, Identifier{ClassName: class, Key: key})
		}
		pos = next
	}

	if pos == 0 && out == nil {
		return []Identifier{{Key: strings.TrimSpace(s)}}
	}
	return out
}

// SplitKeys splits comma separated key lists, trimming whitespace and
// dropping empty tokens. "a, b,,c" yields [a b c].
func SplitKeys(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, key := range strings.Split(value, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out = append(out, key)
		}
	}
	return out
}

// scanGroup finds the next "Class(key, ...)" group at or after start. It
// returns the class name, the raw key list, and the scan position just past
// the closing parenthesis.
func scanGroup(s string, start int) (class, keys string, end int, ok bool) {
	for i := start; i < len(s); i++ {
		if s[i] != '(' {
			continue
		}

		// Class name: the word run immediately before the parenthesis.
		nameStart := i
		for nameStart > start && isWordByte(s[nameStart-1]) {
			nameStart--
		}
		if nameStart == i {
			continue
		}

		// Key list: word characters, commas, and whitespace up to ')'.
		listEnd := i + 1
		for listEnd < len(s) && isKeyByte(s[listEnd]) {
			listEnd++
		}
		if listEnd == i+1 || listEnd >= len(s) || s[listEnd] != ')' {
			continue
		}

		return s[nameStart:i], s[i+1 : listEnd], listEnd + 1, true
	}
	return "", "", 0, false
}

func stripLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isKeyByte(c byte) bool {
	return isWordByte(c) || c == ',' || c == ' ' || c == '\t'
}
