package anchor

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Region is a bracketed region. Open and Close are the offsets of the opening
// and closing bracket, so the contents are src[Open+1 : Close].
type Region struct {
	Open  int
	Close int
}

// Body returns the bytes between the brackets.
func (r Region) Body(src []byte) []byte {
	return src[r.Open+1 : r.Close]
}

// NotFoundError reports an anchor that is absent or unbalanced.
type NotFoundError struct {
	Anchor string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("anchor %s not found", e.Anchor)
	}
	return fmt.Sprintf("anchor %s not found: %s", e.Anchor, e.Reason)
}

// skipFunc returns the offset just past the string literal or comment that
// starts at i, or i itself when none starts there.
type skipFunc func(src []byte, i int) int

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// matchClose returns the offset of the bracket closing the one at open.
func matchClose(src []byte, open int, skip skipFunc) (int, error) {
	var stack []byte
	for i := open; i < len(src); {
		if j := skip(src, i); j != i {
			i = j
			continue
		}
		c := src[i]
		switch c {
		case '(', '[', '{':
			stack = append(stack, closers[c])
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, fmt.Errorf("unbalanced %q at offset %d", c, i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
		i++
	}
	return 0, fmt.Errorf("bracket at offset %d is never closed", open)
}

// codeIndexes calls fn for every offset that is outside literals and
// comments, until fn returns false.
func codeIndexes(src []byte, from int, skip skipFunc, fn func(i int) bool) {
	for i := from; i < len(src); {
		if j := skip(src, i); j != i {
			i = j
			continue
		}
		if !fn(i) {
			return
		}
		i++
	}
}

// indexCode returns the first offset outside literals and comments where the
// tokens of needle follow each other, or -1. Tokens may be separated by any
// whitespace and comments.
func indexCode(src []byte, needle string, skip skipFunc) int {
	tokens := splitTokens(needle)
	if len(tokens) == 0 {
		return -1
	}
	found := -1
	codeIndexes(src, 0, skip, func(i int) bool {
		if isIdentByte(tokens[0][0]) && !wordStart(src, i) {
			return true
		}
		if _, ok := matchTokens(src, i, skip, tokens...); ok {
			found = i
			return false
		}
		return true
	})
	return found
}

// splitTokens splits s into identifiers and single punctuation bytes,
// dropping whitespace.
func splitTokens(s string) []string {
	var tokens []string
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		default:
			tokens = append(tokens, s[i:i+1])
			i++
		}
	}
	return tokens
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func wordStart(src []byte, i int) bool {
	return i == 0 || !isIdentByte(src[i-1])
}

func skipSpace(src []byte, i int, skip skipFunc) int {
	for i < len(src) {
		if j := skip(src, i); j != i {
			i = j
			continue
		}
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// matchTokens checks that tokens follow each other from i, separated only by
// whitespace and comments. Identifier tokens must end on a word boundary. It
// returns the offset just past the last token.
func matchTokens(src []byte, i int, skip skipFunc, tokens ...string) (int, bool) {
	for n, tok := range tokens {
		if n > 0 {
			i = skipSpace(src, i, skip)
		}
		if !bytes.HasPrefix(src[i:], []byte(tok)) {
			return 0, false
		}
		i += len(tok)
		if isIdentByte(tok[len(tok)-1]) && i < len(src) && isIdentByte(src[i]) {
			return 0, false
		}
	}
	return i, true
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(src []byte, i int) int {
	return bytes.LastIndexByte(src[:i], '\n') + 1
}

// LineIndent returns the leading whitespace of the line containing i.
func LineIndent(src []byte, i int) string {
	start := lineStart(src, i)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// onlySpaceBefore reports whether the line containing i has nothing but
// whitespace before i.
func onlySpaceBefore(src []byte, i int) bool {
	return len(bytes.TrimLeft(src[lineStart(src, i):i], " \t")) == 0
}

// skipRust skips Rust comments, string, byte string, raw string and char
// literals. Lifetimes are left alone.
func skipRust(src []byte, i int) int {
	n := len(src)
	switch c := src[i]; {
	case c == '/' && i+1 < n && src[i+1] == '/':
		if end := bytes.IndexByte(src[i:], '\n'); end >= 0 {
			return i + end
		}
		return n
	case c == '/' && i+1 < n && src[i+1] == '*':
		depth := 0
		for j := i; j < n-1; j++ {
			switch {
			case src[j] == '/' && src[j+1] == '*':
				depth++
				j++
			case src[j] == '*' && src[j+1] == '/':
				depth--
				j++
				if depth == 0 {
					return j + 1
				}
			}
		}
		return n
	case c == '"':
		return skipQuoted(src, i, '"')
	case c == 'r' && wordStart(src, i) && i+1 < n && (src[i+1] == '"' || src[i+1] == '#'):
		return skipRawString(src, i+1)
	case c == 'b' && wordStart(src, i) && i+1 < n && src[i+1] == '"':
		return skipQuoted(src, i+1, '"')
	case c == '\'':
		return skipCharLiteral(src, i)
	}
	return i
}

func skipQuoted(src []byte, i int, quote byte) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(src)
}

// skipRawString handles r"..." and r#"..."# starting at the first '"' or '#'.
func skipRawString(src []byte, i int) int {
	hashes := 0
	for i < len(src) && src[i] == '#' {
		hashes++
		i++
	}
	if i >= len(src) || src[i] != '"' {
		return i - hashes
	}
	closing := append([]byte{'"'}, bytes.Repeat([]byte{'#'}, hashes)...)
	if end := bytes.Index(src[i+1:], closing); end >= 0 {
		return i + 1 + end + len(closing)
	}
	return len(src)
}

// skipCharLiteral distinguishes 'x', '\n' and '\u{1F600}' from lifetimes
// such as 'a or 'static.
func skipCharLiteral(src []byte, i int) int {
	if i+1 >= len(src) {
		return i
	}
	if src[i+1] == '\\' {
		if end := bytes.IndexByte(src[i+2:], '\''); end >= 0 {
			return i + 2 + end + 1
		}
		return i
	}
	_, size := utf8.DecodeRune(src[i+1:])
	if i+1+size < len(src) && src[i+1+size] == '\'' {
		return i + 1 + size + 1
	}
	return i
}

// skipTOML skips TOML comments and basic, literal and multi-line strings.
func skipTOML(src []byte, i int) int {
	switch src[i] {
	case '#':
		if end := bytes.IndexByte(src[i:], '\n'); end >= 0 {
			return i + end
		}
		return len(src)
	case '"', '\'':
		q := src[i]
		triple := []byte{q, q, q}
		if bytes.HasPrefix(src[i:], triple) {
			if end := bytes.Index(src[i+3:], triple); end >= 0 {
				return i + 3 + end + 3
			}
			return len(src)
		}
		if q == '\'' {
			if end := bytes.IndexByte(src[i+1:], '\''); end >= 0 {
				return i + 1 + end + 1
			}
			return len(src)
		}
		return skipQuoted(src, i, '"')
	}
	return i
}
