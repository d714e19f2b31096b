package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProperties_YAMLFlattensNestedKeys(t *testing.T) {
	path := writeTempFile(t, "service.yaml", `
http:
  port: 8080
  host: 0.0.0.0
app:
  tags:
    - a
    - b
`)
	props, err := loadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", props["http.port"])
	assert.Equal(t, "0.0.0.0", props["http.host"])
	assert.Equal(t, "a,b", props["app.tags"])
}

func TestLoadProperties_TOMLFlattensNestedKeys(t *testing.T) {
	path := writeTempFile(t, "service.toml", `
[http]
port = 9090
host = "127.0.0.1"
`)
	props, err := loadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", props["http.port"])
	assert.Equal(t, "127.0.0.1", props["http.host"])
}

func TestLoadProperties_EmptyPathReturnsEmptyMap(t *testing.T) {
	props, err := loadProperties("")
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestFlatten_NestedMaps(t *testing.T) {
	out := map[string]string{}
	flatten("", map[string]any{
		"a": map[string]any{"b": "c"},
		"d": 3,
	}, out)
	assert.Equal(t, "c", out["a.b"])
	assert.Equal(t, "3", out["d"])
}

func TestFlatten_NilLeafIsSkipped(t *testing.T) {
	out := map[string]string{}
	flatten("", map[string]any{"x": nil}, out)
	_, present := out["x"]
	assert.False(t, present)
}

func TestRenderProperties_SortedKeyValueLines(t *testing.T) {
	lines := renderProperties(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a=1", "b=2"}, lines)
}
