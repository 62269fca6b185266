package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// IterateDumps iterates over all snapshots made by the Creator in the
// specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var id ID
	var r Reader
	var streams dumpStreams

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, manifestFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", d.Name(), err)
		}

		err = initDumpStreams(&streams, filepath.Dir(path), id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		err = r.fromDumpStreams(streams.manifest, streams.storageItems)
		streams.close()
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		f(id, &r)

		return nil
	})
}

type item struct {
	kind string
	k, v []byte
}

// Reader reads the superior snapshot.
type Reader struct {
	manifest Manifest
	items    []item
}

func (x *Reader) fromDumpStreams(rManifest, rStorageItems io.Reader) error {
	x.manifest = Manifest{}
	err := json.NewDecoder(rManifest).Decode(&x.manifest)
	if err != nil {
		return fmt.Errorf("decode manifest from JSON: %w", err)
	}

	dec, err := zstd.NewReader(rStorageItems)
	if err != nil {
		return fmt.Errorf("init zstd decoder: %w", err)
	}
	defer dec.Close()

	var rec []string
	var it item

	_csv := csv.NewReader(dec)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	x.items = x.items[:0]

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		it.kind = rec[0]

		it.k, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		it.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.items = append(x.items, it)
	}
}

// Manifest returns manifest of the superior snapshot.
func (x *Reader) Manifest() Manifest {
	return x.manifest
}

// Len returns number of storage items in the superior snapshot.
func (x *Reader) Len() int {
	return len(x.items)
}

// IterateStorageItems passes storage items of the superior snapshot into f in
// the dump order.
func (x *Reader) IterateStorageItems(f func(kind string, key, value []byte)) {
	for i := range x.items {
		f(x.items[i].kind, x.items[i].k, x.items[i].v)
	}
}
