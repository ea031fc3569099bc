package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUGCStripsScripts(t *testing.T) {
	s, err := New(PolicyUGC)
	require.NoError(t, err)

	out := s.Sanitize(`Value of param <b>one</b>.<script>'Oh no, danger!'</script>`)
	assert.Equal(t, "Value of param <b>one</b>.", out)
}

func TestUGCStripsEventHandlers(t *testing.T) {
	out := Default().Sanitize(`<a href="javascript:alert(1)" onclick="x()">link</a><img src="a.png" onerror="x()">`)
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "link")
}

func TestStrictKeepsTextOnly(t *testing.T) {
	s, err := New(PolicyStrict)
	require.NoError(t, err)

	out := s.Sanitize(`<p>Hello <b>world</b></p>`)
	assert.False(t, strings.Contains(out, "<"), out)
	assert.Contains(t, out, "Hello")
}

func TestUnknownPolicy(t *testing.T) {
	_, err := New("lenient")
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	var s Sanitizer = Func(strings.ToUpper)
	assert.Equal(t, "ABC", s.Sanitize("abc"))
}
