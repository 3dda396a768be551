package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"Math", "JSON", "Canvas", "fetch", "parseInt", "parseFloat", "isNaN"}

	got := SuggestSimilar("Cnavas", candidates)
	require.Len(t, got, 1)
	require.Equal(t, "Canvas", got[0].Value)

	got = SuggestSimilar("parseIn", candidates)
	require.Equal(t, []Suggestion{{Value: "parseInt", Distance: 1}}, got)

	require.Empty(t, SuggestSimilar("zzzzzz", candidates))
	require.Empty(t, SuggestSimilar("", candidates))
	require.Empty(t, SuggestSimilar("math", []string{"Math"}))
}

func TestSuggestShortNames(t *testing.T) {
	got := SuggestSimilar("mth", []string{"Math", "math1", "abc"})
	require.Equal(t, []Suggestion{{Value: "Math", Distance: 1}}, got)
}

func TestSuggestLimit(t *testing.T) {
	got := SuggestSimilar("abcd", []string{"abce", "abcf", "abcg", "abch", "xbcd"})
	require.Len(t, got, MaxSuggestions)
	require.Equal(t, "abce", got[0].Value)
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "Did you mean `x`?", FormatSuggestions([]Suggestion{{Value: "x"}}))
	require.Equal(t, "Did you mean one of: `a`, `b`?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestLevenshtein(t *testing.T) {
	require.Equal(t, 0, levenshtein("abc", "abc"))
	require.Equal(t, 3, levenshtein("", "abc"))
	require.Equal(t, 1, levenshtein("abc", "abd"))
	require.Equal(t, 3, levenshtein("kitten", "sitting"))
	require.Equal(t, 1, levenshtein("héllo", "hello"))
}
