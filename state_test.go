package lycoris

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	e := New()
	_, err := e.Execute("[dup mul] 'square' def [square square] 'fourth' def 1 2 3")
	require.NoError(t, err)

	blob, err := e.SaveState()
	require.NoError(t, err)
	assert.Contains(t, string(blob), "square")

	fresh := New()
	errs := fresh.LoadState(blob)
	require.Empty(t, errs)
	assert.Equal(t, e.DictionarySnapshot(), fresh.DictionarySnapshot())

	// the stack is not persisted
	assert.Empty(t, fresh.StackSnapshot())

	_, err = fresh.Execute("3 fourth")
	require.NoError(t, err)
	assert.Equal(t, []string{"81"}, fresh.StackSnapshot())
}

func TestLoadStateCorruptEntry(t *testing.T) {
	blob := []byte(`words:
- name: good
  body: "[1 add]"
  color: green
- name: broken
  body: "[1 add"
  color: green
- name: alsogood
  body: "[2 mul]"
  color: green
`)
	e := New()
	errs := e.LoadState(blob)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], CorruptState))
	assert.Contains(t, errs[0].Error(), "broken")

	names := make([]string, 0, 2)
	for _, entry := range e.DictionarySnapshot() {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"good", "alsogood"}, names)

	_, err := e.Execute("10 good alsogood")
	require.NoError(t, err)
	assert.Equal(t, []string{"22"}, e.StackSnapshot())
}

func TestLoadStateBadBlob(t *testing.T) {
	e := New()
	errs := e.LoadState([]byte("{]"))
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], CorruptState))
}

func TestLoadStateNonVectorBody(t *testing.T) {
	blob := []byte(`words:
- name: scalar
  body: "42"
  color: green
`)
	e := New()
	errs := e.LoadState(blob)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], CorruptState))
	assert.Empty(t, e.DictionarySnapshot())
}

func TestLoadStateDefaultsColor(t *testing.T) {
	blob := []byte(`words:
- name: plain
  body: "[1]"
`)
	e := New()
	require.Empty(t, e.LoadState(blob))
	entries := e.DictionarySnapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, defaultWordColor, entries[0].Color)
}

func TestLoadStateForwardReference(t *testing.T) {
	// bodies are vectors, so names resolve at run time; order in the blob
	// does not matter for references between entries
	blob := []byte(`words:
- name: outer
  body: "[inner 1 add]"
  color: green
- name: inner
  body: "[10]"
  color: green
`)
	e := New()
	require.Empty(t, e.LoadState(blob))
	_, err := e.Execute("outer")
	require.NoError(t, err)
	assert.Equal(t, []string{"11"}, e.StackSnapshot())
}
