package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "llama-3.3-70b-versatile"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "llama-3.3-70b-versatile", val)

	_, ok = store.Get("llm.missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 7))
	require.NoError(t, store.Set("llm.temperature", 0.5))
	require.NoError(t, store.Set("index.persist", true))
	require.NoError(t, store.Set("llm.provider", "groq"))

	assert.Equal(t, 7, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 7.0, store.GetFloat("retrieval.top_k"))
	assert.Equal(t, 0.5, store.GetFloat("llm.temperature"))
	assert.True(t, store.GetBool("index.persist"))
	assert.Equal(t, "groq", store.GetString("llm.provider"))

	// Wrong types
	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 0, store.GetInt("llm.provider"))
	assert.Equal(t, 0.0, store.GetFloat("llm.provider"))
	assert.False(t, store.GetBool("llm.provider"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("chunking.chunk_size", 400))
	require.NoError(t, store.Set("chunking.overlap", 40))
	require.NoError(t, store.Set("llm.model", "m"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[chunking]")
	assert.Contains(t, string(data), "[llm]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 400, reloaded.GetInt("chunking.chunk_size"))
	assert.Equal(t, 40, reloaded.GetInt("chunking.overlap"))
	assert.Equal(t, "m", reloaded.GetString("llm.model"))
	assert.Equal(t, []string{"chunking.chunk_size", "chunking.overlap", "llm.model"}, reloaded.Keys())
}

func TestConfigStore_LoadsHandWrittenTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
[embedding]
provider = "ollama"
model = "nomic-embed-text"

[retrieval]
top_k = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[[ not toml"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": "x"},
		"d": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "d": true}, flattenMap(nested, ""))
}
