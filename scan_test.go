package lycoris

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll tokenizes against a freshly seeded dictionary and renders each
// token canonically, words with their sigil and ":" for the guard separator.
func scanAll(t *testing.T, src string) ([]string, error) {
	t.Helper()
	e := New()
	toks, err := scan(src, &e.dict, e.maxExponent)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(toks))
	for i, tok := range toks {
		switch tok.kind {
		case tokenValue:
			out[i] = tok.val.String()
		case tokenWord:
			out[i] = tok.scope.sigil() + tok.name
		case tokenColon:
			out[i] = ":"
		}
	}
	return out, nil
}

func TestTokenize(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\r\n", nil},
		{"integers", "5 3", []string{"5", "3"}},
		{"negative and plus sign", "-4 +4", []string{"-4", "4"}},
		{"fraction reduces", "6/8", []string{"3/4"}},
		{"decimal is exact", "2.50", []string{"5/2"}},
		{"decimal small", "0.1", []string{"1/10"}},
		{"scientific", "1e61", []string{"1" + strings.Repeat("0", 61)}},
		{"scientific negative exponent", "15e-1", []string{"3/2"}},
		{"scientific signed base", "-1.5e2", []string{"-150"}},
		{"string", "'hello world'", []string{"'hello world'"}},
		{"empty string", "''", []string{"''"}},
		{"string keeps hash", "'# not a comment'", []string{"'# not a comment'"}},
		{"reserved literals", "true false nil", []string{"true", "false", "nil"}},
		{"words", "add mul", []string{"add", "mul"}},
		{"no whitespace needed", "2add3mul", []string{"2", "add", "3", "mul"}},
		{"longest match wins", "length", []string{"length"}},
		{"scope sigils", "@add *mul #length", []string{"@add", "*mul", "#length"}},
		{"comment", "1 # 2 3\n4", []string{"1", "4"}},
		{"comment to end", "1 # trailing", []string{"1"}},
		{"hash before word is global", "1 2#add", []string{"1", "2", "#add"}},
		{"guard separator", "true : 1 : 2", []string{"true", ":", "1", ":", "2"}},
		{"vector", "[1 2 3]", []string{"[1 2 3]"}},
		{"vector empty", "[]", []string{"[]"}},
		{"vector nested", "[1 [2 [3]]]", []string{"[1 [2 [3]]]"}},
		{"vector packed", "[1 2]2", []string{"[1 2]", "2"}},
		{"vector with words", "[dup mul]", []string{"[dup mul]"}},
		{"vector with sigil words", "[2 @mul]", []string{"[2 @mul]"}},
		{"vector defers unknown names", "[square]", []string{"[square]"}},
		{"vector mixed", "[1 'a' true nil add]", []string{"[1 'a' true nil add]"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scanAll(t, tc.src)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		kind Kind
		mess string
	}{
		{"unterminated string", "'abc", SyntaxError, "unterminated string at offset 0"},
		{"unmatched bracket", "[1 2", SyntaxError, "unmatched '[' at offset 0"},
		{"unknown token", "5 ^", SyntaxError, "unknown token at offset 2"},
		{"bare dot", "1. 2", SyntaxError, "unknown token at offset 1"},
		{"unknown name at top level", "bogus", SyntaxError, "unknown token at offset 0"},
		{"sigil without word", "3 @^", SyntaxError, "unknown token at offset 2"},
		{"zero denominator", "1/0", SyntaxError, "zero denominator at offset 1"},
		{"huge exponent literal", "1e2000000000", LimitExceeded, "exponent magnitude"},
		{"colon in vector", "[1 : 2]", SyntaxError, "':' not allowed inside a vector"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scanAll(t, tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "expected %v, got %v", tc.kind, err)
			assert.Contains(t, err.Error(), tc.mess)
		})
	}
}

// Tokenization must not depend on whitespace between tokens that are
// unambiguous longest matches.
func TestTokenizeWhitespaceIndependence(t *testing.T) {
	spaced, err := scanAll(t, "2 add 3 mul")
	require.NoError(t, err)
	packed, err := scanAll(t, "2add3mul")
	require.NoError(t, err)
	assert.Equal(t, spaced, packed)
}

// Canonical text of any scanned value must re-tokenize to an equal value.
func TestCanonicalRoundTrip(t *testing.T) {
	e := New()
	for _, src := range []string{
		"0", "-17", "3/4", "-3/4", "'text'", "''", "true", "false", "nil",
		"[]", "[1 2 3]", "[1 [2 ['x' nil]] true]", "[dup mul]", "[2 @mul *add]",
	} {
		toks, err := scan(src, &e.dict, e.maxExponent)
		require.NoError(t, err, "scan %q", src)
		require.Len(t, toks, 1, "scan %q", src)
		require.Equal(t, tokenValue, toks[0].kind, "scan %q", src)
		v := toks[0].val

		again, err := scan(v.String(), &e.dict, e.maxExponent)
		require.NoError(t, err, "rescan %q", v.String())
		require.Len(t, again, 1, "rescan %q", v.String())
		assert.True(t, equal(v, again[0].val), "round trip %q -> %q", src, v.String())
	}
}

// Vector nesting is pure data and is bounded only by available memory, not
// by the evaluator's recursion limit.
func TestDeepVectorNesting(t *testing.T) {
	const depth = 100000
	e := New(WithMaxDepth(8))
	deep := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	toks, err := scan(deep, &e.dict, e.maxExponent)
	require.NoError(t, err)
	require.Len(t, toks, 1)

	v := toks[0].val
	for i := 0; i < depth-1; i++ {
		vec, ok := v.(Vector)
		require.True(t, ok, "level %d", i)
		require.Len(t, vec, 1, "level %d", i)
		v = vec[0]
	}
	vec, ok := v.(Vector)
	require.True(t, ok)
	assert.Empty(t, vec)
}
