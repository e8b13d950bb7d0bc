package tokenstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	s := NewMemory()
	_, ok := s.Get(AccessToken)
	assert.False(t, ok)

	require.NoError(t, s.Set(AccessToken, "a"))
	require.NoError(t, s.Set(RefreshToken, "r"))
	v, ok := s.Get(AccessToken)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	require.NoError(t, Clear(s))
	_, ok = s.Get(RefreshToken)
	assert.False(t, ok)
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(AccessToken, "tok"))
	require.NoError(t, s.Set(UserData, `{"id":"1"}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := OpenFile(path)
	require.NoError(t, err)
	v, ok := again.Get(AccessToken)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, again.Delete(AccessToken))
	third, err := OpenFile(path)
	require.NoError(t, err)
	_, ok = third.Get(AccessToken)
	assert.False(t, ok)
	_, ok = third.Get(UserData)
	assert.True(t, ok)
}

func TestFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenFile(path)
	require.Error(t, err)
	require.NotNil(t, s)
	require.NoError(t, s.Reset())

	again, err := OpenFile(path)
	require.NoError(t, err)
	_, ok := again.Get(AccessToken)
	assert.False(t, ok)
}

func TestFile_ConcurrentSet(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Set(AccessToken, "x"))
		}()
	}
	wg.Wait()

	v, _ := s.Get(AccessToken)
	assert.Equal(t, "x", v)
}
