package cas_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/cas"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func entry(path string) domain.CacheEntry {
	return domain.CacheEntry{
		Path:      path,
		Access:    domain.Access{Type: domain.AccessNamed, Name: "Calculator"},
		Score:     42.5,
		MtimeMs:   1700000000000,
		ExpiresAt: 1700086400000,
	}
}

func TestStore_PutAndGet(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), ".seek", "discovery-cache.json")
	store := cas.NewStore(storePath, nil)

	require.NoError(t, store.Put("abc", entry("/root/src/Calculator.js")))

	got, err := store.Get("abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry("/root/src/Calculator.js"), *got)

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Persistence(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), ".seek", "discovery-cache.json")

	store1 := cas.NewStore(storePath, nil)
	require.NoError(t, store1.Put("k1", entry("/a.js")))

	store2 := cas.NewStore(storePath, nil)
	got, err := store2.Get("k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/a.js", got.Path)
}

func TestStore_WireFormat(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "cache.json")
	store := cas.NewStore(storePath, nil)
	require.NoError(t, store.Put("k1", entry("/a.js")))

	data, err := os.ReadFile(storePath)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "k1")
	for _, key := range []string{"path", "access", "score", "mtimeMs", "expiresAt"} {
		assert.Contains(t, raw["k1"], key)
	}
}

func TestStore_CorruptFileIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	storePath := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), domain.FilePerm))

	store := cas.NewStore(storePath, logger)
	assert.Empty(t, store.Entries())

	require.NoError(t, store.Put("k1", entry("/a.js")))
	reloaded := cas.NewStore(storePath, nil)
	assert.Len(t, reloaded.Entries(), 1)
}

func TestStore_Clear(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "cache.json")
	store := cas.NewStore(storePath, nil)
	require.NoError(t, store.Put("k1", entry("/a.js")))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Entries())
	_, err := os.Stat(storePath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestStore_ConcurrentPuts(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "cache.json")
	store := cas.NewStore(storePath, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Put(fmt.Sprintf("k%d", i), entry(fmt.Sprintf("/f%d.js", i))))
		}()
	}
	wg.Wait()

	reloaded := cas.NewStore(storePath, nil)
	assert.Len(t, reloaded.Entries(), 20)
}
