package anchor

import (
	"bytes"
	"strings"
)

// Table is a TOML table. HeaderStart is the offset of its `[name]` line,
// BodyStart the offset of the line after it, End the offset of the next
// table header (or the end of the file).
type Table struct {
	Name        string
	HeaderStart int
	BodyStart   int
	End         int
}

// LastLineEnd returns the offset just past the last non-blank line of the
// table, which is where a new key/value line is appended.
func (t Table) LastLineEnd(src []byte) int {
	body := bytes.TrimRight(src[t.BodyStart:t.End], " \t\r\n")
	if len(body) == 0 {
		return t.BodyStart
	}
	end := t.BodyStart + len(body)
	if nl := bytes.IndexByte(src[end:t.End], '\n'); nl >= 0 {
		return end + nl + 1
	}
	return t.End
}

// Tables returns every table header of a TOML document, in order.
func Tables(src []byte) []Table {
	var tables []Table
	depth := 0
	codeIndexes(src, 0, skipTOML, func(i int) bool {
		switch src[i] {
		case '[':
			if depth == 0 && onlySpaceBefore(src, i) {
				if t, ok := parseHeader(src, i); ok {
					if n := len(tables); n > 0 {
						tables[n-1].End = lineStart(src, i)
					}
					tables = append(tables, t)
					return true
				}
			}
			depth++
		case '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		}
		return true
	})
	if n := len(tables); n > 0 {
		tables[n-1].End = len(src)
	}
	return tables
}

func parseHeader(src []byte, i int) (Table, bool) {
	lineEnd := bytes.IndexByte(src[i:], '\n')
	var line []byte
	bodyStart := len(src)
	if lineEnd < 0 {
		line = src[i:]
	} else {
		line = src[i : i+lineEnd]
		bodyStart = i + lineEnd + 1
	}
	if hash := bytes.IndexByte(line, '#'); hash >= 0 {
		line = line[:hash]
	}
	text := strings.TrimSpace(string(line))
	text = strings.TrimPrefix(strings.TrimSuffix(text, "]]"), "[[")
	text = strings.TrimPrefix(strings.TrimSuffix(text, "]"), "[")
	if text == "" || strings.ContainsAny(text, "[]=") {
		return Table{}, false
	}
	return Table{Name: strings.TrimSpace(text), HeaderStart: lineStart(src, i), BodyStart: bodyStart}, true
}

// FindTable returns the first table named name.
func FindTable(src []byte, name string) (Table, error) {
	for _, t := range Tables(src) {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, &NotFoundError{Anchor: "[" + name + "]"}
}

// ArrayRegion locates the brackets of the array assigned to key in table t,
// e.g. `std = [ ... ]` in [features].
func ArrayRegion(src []byte, t Table, key string) (Region, error) {
	var found Region
	var err error
	ok := false
	codeIndexes(src, t.BodyStart, skipTOML, func(i int) bool {
		if i >= t.End {
			return false
		}
		if !wordStart(src, i) || !onlySpaceBefore(src, i) {
			return true
		}
		end, matched := matchTokens(src, i, skipTOML, key, "=", "[")
		if !matched {
			return true
		}
		var closeAt int
		closeAt, err = matchClose(src, end-1, skipTOML)
		if err == nil {
			found, ok = Region{Open: end - 1, Close: closeAt}, true
		}
		return false
	})
	if !ok {
		reason := ""
		if err != nil {
			reason = err.Error()
		}
		return Region{}, &NotFoundError{Anchor: key + " = [ ... ] in [" + t.Name + "]", Reason: reason}
	}
	return found, nil
}

// HasKey reports whether table t assigns key at the start of a line.
func HasKey(src []byte, t Table, key string) bool {
	found := false
	codeIndexes(src, t.BodyStart, skipTOML, func(i int) bool {
		if i >= t.End {
			return false
		}
		if wordStart(src, i) && onlySpaceBefore(src, i) {
			if _, ok := matchTokens(src, i, skipTOML, key, "="); ok {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
