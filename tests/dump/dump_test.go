package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type storageItem struct {
	kind string
	k, v []byte
}

func TestCreator(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "staging", Time: 1_700_000_000}

	m := Manifest{
		Version:  3_000,
		Base:     "base",
		Programs: map[string]string{"registry": "reg", "canvas": "cnv"},
	}

	items := []storageItem{
		{"record", []byte{1, 2, 3}, []byte("hello")},
		{"holding", []byte{0x11, 0xff}, []byte{}},
		{"native", []byte{0x12, 0}, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
	}

	c, err := NewCreator(dir, id, m)
	require.NoError(t, err)
	for _, it := range items {
		require.NoError(t, c.Write(it.kind, it.k, it.v))
	}
	require.NoError(t, c.Flush())
	c.Close()

	_, err = os.Stat(filepath.Join(dir, "staging-1700000000-storage.csv.zst"))
	require.NoError(t, err)

	_, err = NewCreator(dir, id, m)
	require.ErrorIs(t, err, os.ErrExist)

	var n int
	err = IterateDumps(dir, func(_id ID, r *Reader) {
		n++
		require.Equal(t, id, _id)

		mr := r.Manifest()
		require.Equal(t, m.Version, mr.Version)
		require.Equal(t, m.Base, mr.Base)
		require.Equal(t, m.Programs, mr.Programs)
		require.Equal(t, id.Time, mr.Time)

		var got []storageItem
		r.IterateStorageItems(func(kind string, k, v []byte) {
			got = append(got, storageItem{kind, k, v})
		})
		require.Equal(t, items, got)
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestIterateDumps(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		err := IterateDumps(filepath.Join(t.TempDir(), "none"), func(ID, *Reader) {
			t.Fatal("must not be called")
		})
		require.NoError(t, err)
	})

	t.Run("invalid name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("{}"), 0600))
		require.Error(t, IterateDumps(dir, func(ID, *Reader) {}))
	})

	t.Run("corrupted storage", func(t *testing.T) {
		dir := t.TempDir()
		id := ID{Label: "broken", Time: 1}

		c, err := NewCreator(dir, id, Manifest{})
		require.NoError(t, err)
		require.NoError(t, c.Flush())
		c.Close()

		p := filepath.Join(dir, "broken-1-storage.csv.zst")
		require.NoError(t, os.WriteFile(p, []byte("not zstd"), 0600))

		require.Error(t, IterateDumps(dir, func(ID, *Reader) {}))
	})
}

func TestID(t *testing.T) {
	id := ID{Label: "prod", Time: 42}
	require.Equal(t, "prod-42", id.String())

	var res ID
	require.NoError(t, res.decodeString("prod-42-manifest.json"))
	require.Equal(t, id, res)

	require.Error(t, res.decodeString("prod"))
	require.Error(t, res.decodeString("prod-x-manifest.json"))
}
