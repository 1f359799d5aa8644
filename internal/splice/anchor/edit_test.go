package anchor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertBeforeClose(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		src      string
		text     string
		expected string
	}{
		{
			name:     "multi-line list keeps the element indent",
			src:      "std = [\n\t\"a/std\",\n]\n",
			text:     `"b/std",`,
			expected: "std = [\n\t\"a/std\",\n\t\"b/std\",\n]\n",
		},
		{
			name:     "empty block gets one level deeper than the close",
			src:      "\tmod runtime {\n\t}\n",
			text:     "pub type A = a;",
			expected: "\tmod runtime {\n\t\tpub type A = a;\n\t}\n",
		},
		{
			name:     "inline braces are split",
			src:      "x = {}\n",
			text:     "a",
			expected: "x = {\n\ta\n}\n",
		},
		{
			name:     "multi-line text is indented line by line",
			src:      "m! {\n\tfoo\n}",
			text:     "impl A {\n\tfn f() {}\n}\n",
			expected: "m! {\n\tfoo\n\timpl A {\n\t\tfn f() {}\n\t}\n}",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := []byte(tc.src)

			open := -1
			for i, c := range src {
				if c == '[' || c == '{' {
					open = i
					break
				}
			}
			closeAt, err := matchClose(src, open, skipRust)
			require.NoError(t, err)

			got := InsertBeforeClose(src, Region{Open: open, Close: closeAt}, tc.text)
			require.Equal(t, tc.expected, string(got))
		})
	}
}

func TestInsertAndReplace(t *testing.T) {
	t.Parallel()

	src := []byte("abcdef")
	require.Equal(t, "abXYcdef", string(Insert(src, 2, "XY")))
	require.Equal(t, "aZef", string(Replace(src, 1, 4, "Z")))
	require.Equal(t, "abcdef", string(src))
	require.Equal(t, 4, LineEnd([]byte("abc\ndef"), 1))
	require.Equal(t, 7, LineEnd([]byte("abc\ndef"), 5))
}

func TestEnsureTrailingComma(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"[\n\t\"a\",\n]":       "[\n\t\"a\",\n]",
		"[\n\t\"a\"\n]":        "[\n\t\"a\",\n]",
		"{\n\t\"k\": {}\n}":    "{\n\t\"k\": {},\n}",
		"[]":                   "[]",
		"(\n\tA: a // last\n)": "(\n\tA: a, // last\n)",
	}
	for in, expected := range testCases {
		src := []byte(in)
		closeAt, err := matchClose(src, 0, skipRust)
		require.NoError(t, err)
		require.Equal(t, expected, string(EnsureTrailingComma(src, Region{Open: 0, Close: closeAt})), "input %q", in)
	}
}

func TestEnsureTrailingCommaTOML(t *testing.T) {
	t.Parallel()

	src := []byte("[\n\t\"a/std\" # last\n]")
	closeAt, err := matchClose(src, 0, skipTOML)
	require.NoError(t, err)
	require.Equal(t, "[\n\t\"a/std\", # last\n]", string(EnsureTrailingCommaTOML(src, Region{Open: 0, Close: closeAt})))
}
