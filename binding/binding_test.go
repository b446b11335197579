package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["a","b"]},"count":3}`)

	assert.Equal(t, "Hello, Ada!", Interpolate("Hello, ${user.name}!", data))
	assert.Equal(t, "tag b", Interpolate("tag ${ user.tags[1] }", data))
	assert.Equal(t, "3 items", Interpolate("${count} items", data))
	assert.Equal(t, "${user.missing}", Interpolate("${user.missing}", data))
	assert.Equal(t, "${user.tags[9]}", Interpolate("${user.tags[9]}", data))
	assert.Equal(t, "plain", Interpolate("plain", data))
	assert.Equal(t, "${user.name}", Interpolate("${user.name}", nil))
}

func TestLookupRejectsMalformedPaths(t *testing.T) {
	data := decode(t, `{"a":[[1,2],[3,4]]}`)

	v, ok := Lookup(data, "a[1][0]")
	require.True(t, ok)
	assert.Equal(t, float64(3), v)

	for _, path := range []string{"", "a[", "a[x]", "a..b", "a[0"} {
		_, ok := Lookup(data, path)
		assert.False(t, ok, path)
	}
}
