package anchor

import (
	"bytes"
	"strings"
)

// ContainsCode reports whether the tokens of needle occur in src, in order,
// outside literals and comments. Whitespace and comments between tokens are
// ignored, so `impl  x::Config\n\tfor Runtime` matches
// "impl x::Config for Runtime".
func ContainsCode(src []byte, needle string) bool {
	return indexCode(src, needle, skipRust) >= 0
}

// RuntimeDecl is the construct-runtime declaration of a runtime source.
type RuntimeDecl struct {
	// Region holds the pallet entries.
	Region
	// Outer is the whole declaration; equal to Region for the module form.
	Outer Region
	// Macro is true for the `construct_runtime!` form, whose entries are
	// written as `Name: path = index,` inside its `pub enum Runtime { }`.
	Macro bool
}

// RuntimeRegion locates the construct-runtime declaration: the body of
// `mod runtime { ... }` (the #[frame_support::runtime] form), or the enum body
// inside a `construct_runtime!( ... )` invocation.
func RuntimeRegion(src []byte) (RuntimeDecl, error) {
	if r, ok := findItem(src, "mod", "runtime", "{"); ok {
		return RuntimeDecl{Region: r, Outer: r}, nil
	}
	if outer, ok := findMacro(src, "construct_runtime"); ok {
		inner := -1
		codeIndexes(src, outer.Open+1, skipRust, func(i int) bool {
			if i >= outer.Close {
				return false
			}
			if src[i] == '{' {
				inner = i
				return false
			}
			return true
		})
		if inner < 0 {
			return RuntimeDecl{}, &NotFoundError{Anchor: "construct-runtime", Reason: "no pallet list inside construct_runtime!"}
		}
		closeAt, err := matchClose(src, inner, skipRust)
		if err != nil {
			return RuntimeDecl{}, &NotFoundError{Anchor: "construct-runtime", Reason: err.Error()}
		}
		return RuntimeDecl{Region: Region{Open: inner, Close: closeAt}, Outer: outer, Macro: true}, nil
	}
	return RuntimeDecl{}, &NotFoundError{Anchor: "construct-runtime"}
}

// RuntimeAPIRegion locates the body of `impl_runtime_apis! { ... }`.
func RuntimeAPIRegion(src []byte) (Region, error) {
	if r, ok := findMacro(src, "impl_runtime_apis"); ok {
		return r, nil
	}
	return Region{}, &NotFoundError{Anchor: "impl_runtime_apis!"}
}

// GenesisRegion locates the object literal passed to the first `json!`
// invocation whose argument is an object, i.e. the braces of `json!({ ... })`.
func GenesisRegion(src []byte) (Region, error) {
	var found Region
	ok := false
	codeIndexes(src, 0, skipRust, func(i int) bool {
		if !wordStart(src, i) {
			return true
		}
		end, matched := matchTokens(src, i, skipRust, "json", "!")
		if !matched {
			return true
		}
		open := skipSpace(src, end, skipRust)
		if open >= len(src) || closers[src[open]] == 0 {
			return true
		}
		obj := skipSpace(src, open+1, skipRust)
		if obj >= len(src) || src[obj] != '{' {
			return true
		}
		closeAt, err := matchClose(src, obj, skipRust)
		if err != nil {
			return true
		}
		found, ok = Region{Open: obj, Close: closeAt}, true
		return false
	})
	if !ok {
		return Region{}, &NotFoundError{Anchor: "genesis json!({ ... })"}
	}
	return found, nil
}

// Field is a top-level `"key": value` entry of an object literal. Start is
// the offset of the key's opening quote; End is just past the value and its
// trailing comma, if any.
type Field struct {
	Start int
	End   int
}

// ObjectField finds the top-level entry named key in the object region obj.
func ObjectField(src []byte, obj Region, key string) (Field, bool) {
	quoted := []byte(`"` + key + `"`)
	depth := 0
	for i := obj.Open + 1; i < obj.Close; {
		c := src[i]
		if c == '"' && depth == 0 && bytes.HasPrefix(src[i:], quoted) {
			colon := skipSpace(src, i+len(quoted), skipRust)
			if colon < obj.Close && src[colon] == ':' {
				end := fieldValueEnd(src, colon+1, obj.Close)
				return Field{Start: i, End: end}, true
			}
		}
		if j := skipRust(src, i); j != i {
			i = j
			continue
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		i++
	}
	return Field{}, false
}

// fieldValueEnd returns the offset just past the value starting at i and its
// trailing comma, stopping at limit.
func fieldValueEnd(src []byte, i, limit int) int {
	depth := 0
	for i < limit {
		if j := skipRust(src, i); j != i {
			i = j
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return limit
}

// ImportPoint returns the offset at which new top-level imports are inserted:
// the start of the first top-level `use` line. Without one it falls back to
// the start of line fallbackLine (0-based), clamped to the end of src.
func ImportPoint(src []byte, fallbackLine int) int {
	point := -1
	depth := 0
	codeIndexes(src, 0, skipRust, func(i int) bool {
		switch src[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case 'u':
			if depth == 0 && wordStart(src, i) && onlySpaceBefore(src, i) {
				if _, ok := matchTokens(src, i, skipRust, "use"); ok {
					point = lineStart(src, i)
					return false
				}
			}
		}
		return true
	})
	if point >= 0 {
		return point
	}

	offset := 0
	for line := 0; line < fallbackLine && offset < len(src); line++ {
		next := bytes.IndexByte(src[offset:], '\n')
		if next < 0 {
			return len(src)
		}
		offset += next + 1
	}
	return offset
}

// HasLine reports whether src contains line as a whole line, ignoring
// surrounding whitespace.
func HasLine(src []byte, line string) bool {
	line = strings.TrimSpace(line)
	for _, l := range strings.Split(string(src), "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// findItem finds an item introduced by tokens whose last token is the
// opening brace, e.g. ("mod", "runtime", "{").
func findItem(src []byte, tokens ...string) (Region, bool) {
	var found Region
	ok := false
	codeIndexes(src, 0, skipRust, func(i int) bool {
		if !wordStart(src, i) {
			return true
		}
		end, matched := matchTokens(src, i, skipRust, tokens...)
		if !matched {
			return true
		}
		closeAt, err := matchClose(src, end-1, skipRust)
		if err != nil {
			return true
		}
		found, ok = Region{Open: end - 1, Close: closeAt}, true
		return false
	})
	return found, ok
}

// findMacro finds `name! ( ... )`, `name! { ... }` or `name! [ ... ]`.
func findMacro(src []byte, name string) (Region, bool) {
	var found Region
	ok := false
	codeIndexes(src, 0, skipRust, func(i int) bool {
		if !wordStart(src, i) {
			return true
		}
		end, matched := matchTokens(src, i, skipRust, name, "!")
		if !matched {
			return true
		}
		open := skipSpace(src, end, skipRust)
		if open >= len(src) || closers[src[open]] == 0 {
			return true
		}
		closeAt, err := matchClose(src, open, skipRust)
		if err != nil {
			return true
		}
		found, ok = Region{Open: open, Close: closeAt}, true
		return false
	})
	return found, ok
}
