package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placement struct {
	ID string `json:"id"`
	X  int    `json:"x"`
}

func TestMemoryGetSetRemove(t *testing.T) {
	s := NewMemory()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("a", []byte(`1`)))
	v, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`1`), v)

	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Remove("a"), "removing twice is fine")
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFallsBackOnMalformedValue(t *testing.T) {
	s := NewMemory()
	def := []placement{}

	assert.Equal(t, def, Load(s, "positions", def), "missing key")

	require.NoError(t, s.Set("positions", []byte(`{not json`)))
	got, err := TryLoad(s, "positions", def)
	assert.Error(t, err)
	assert.Equal(t, def, got)

	require.NoError(t, s.Set("positions", []byte(`{"id": 3}`)))
	assert.Equal(t, def, Load(s, "positions", def), "wrong shape")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewMemory()
	want := []placement{{ID: "Notes", X: 40}}

	require.NoError(t, Save(s, "positions", want))
	assert.Equal(t, want, Load(s, "positions", []placement{}))
}

func TestNamespaceIsolation(t *testing.T) {
	base := NewMemory()
	icons := Namespace(base, "icons")
	prefs := Namespace(base, "prefs")

	require.NoError(t, icons.Set("key", []byte(`"icons"`)))
	require.NoError(t, prefs.Set("key", []byte(`"prefs"`)))

	v, err := icons.Get("key")
	require.NoError(t, err)
	assert.Equal(t, `"icons"`, string(v))

	keys, err := prefs.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"key"}, keys)

	all, err := base.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"icons/key", "prefs/key"}, all)
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	for _, name := range []string{"state.json", "state.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			f, err := OpenFile(path, nil)
			require.NoError(t, err)
			require.NoError(t, Save(f, "positions", []placement{{ID: "Clock", X: 120}}))
			require.NoError(t, f.Set("gone", []byte(`true`)))
			require.NoError(t, f.Remove("gone"))

			reopened, err := OpenFile(path, nil)
			require.NoError(t, err)
			assert.Equal(t, []placement{{ID: "Clock", X: 120}}, Load(reopened, "positions", []placement{}))

			keys, err := reopened.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"positions"}, keys)
		})
	}
}

func TestFileRejectsInvalidJSON(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "state.json"), nil)
	require.NoError(t, err)

	assert.Error(t, f.Set("k", []byte(`{oops`)))
	_, err = f.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileCorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	f, err := OpenFile(path, nil)
	require.NoError(t, err)

	keys, err := f.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, f.Set("k", []byte(`1`)))
	reopened, err := OpenFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, Load(reopened, "k", 0))
}
