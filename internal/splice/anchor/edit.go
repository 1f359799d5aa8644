package anchor

import (
	"bytes"
	"strings"
)

// Insert returns a copy of src with text inserted at offset at.
func Insert(src []byte, at int, text string) []byte {
	out := make([]byte, 0, len(src)+len(text))
	out = append(out, src[:at]...)
	out = append(out, text...)
	return append(out, src[at:]...)
}

// Replace returns a copy of src with src[start:end] replaced by text.
func Replace(src []byte, start, end int, text string) []byte {
	out := make([]byte, 0, len(src)-(end-start)+len(text))
	out = append(out, src[:start]...)
	out = append(out, text...)
	return append(out, src[end:]...)
}

// ChildIndent returns the indentation used by entries of region r: that of
// its last non-blank inner line, or the closing line's indentation plus a tab
// when the region has no inner lines.
func ChildIndent(src []byte, r Region) string {
	body := r.Body(src)
	lines := bytes.Split(body, []byte("\n"))
	// The first element shares its line with the opening bracket.
	for i := len(lines) - 1; i >= 1; i-- {
		if len(bytes.TrimSpace(lines[i])) == 0 {
			continue
		}
		line := lines[i]
		return string(line[:len(line)-len(bytes.TrimLeft(line, " \t"))])
	}
	return LineIndent(src, r.Close) + "\t"
}

// InsertBeforeClose appends text as new lines at the end of region r, just
// before its closing bracket. Every line of text is indented with
// ChildIndent.
func InsertBeforeClose(src []byte, r Region, text string) []byte {
	indent := ChildIndent(src, r)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if onlySpaceBefore(src, r.Close) {
		return Insert(src, lineStart(src, r.Close), b.String())
	}
	// Closing bracket shares a line with content, e.g. `[ "a" ]` or `{}`.
	return Insert(src, r.Close, "\n"+b.String()+LineIndent(src, r.Close))
}

// LineEnd returns the offset just past the newline ending the line that
// contains i, or len(src).
func LineEnd(src []byte, i int) int {
	if nl := bytes.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl + 1
	}
	return len(src)
}

// EnsureTrailingComma appends a comma after the last entry of region r of a
// Rust source if it lacks one, so that a new entry can follow it.
func EnsureTrailingComma(src []byte, r Region) []byte {
	return ensureTrailingComma(src, r, skipRust)
}

// EnsureTrailingCommaTOML is EnsureTrailingComma for TOML arrays.
func EnsureTrailingCommaTOML(src []byte, r Region) []byte {
	return ensureTrailingComma(src, r, skipTOML)
}

func ensureTrailingComma(src []byte, r Region, skip skipFunc) []byte {
	last, lastEnd := -1, -1
	for i := r.Open + 1; i < r.Close; {
		if j := skip(src, i); j != i {
			if src[i] != '/' && src[i] != '#' {
				last, lastEnd = i, j
			}
			i = j
			continue
		}
		switch src[i] {
		case ' ', '\t', '\r', '\n':
		default:
			last, lastEnd = i, i+1
		}
		i++
	}
	if last < 0 || src[last] == ',' {
		return src
	}
	return Insert(src, lastEnd, ",")
}
