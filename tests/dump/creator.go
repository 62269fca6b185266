package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Creator dumps the world state into the files described in the package
// docs.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	manifest Manifest

	zstd            *zstd.Encoder
	storageItemsCSV *csv.Writer
	flushed         bool
}

// NewCreator returns Creator which dumps the state into given directory. The
// dump is identified by specified ID. Resulting Creator should be closed when
// finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID, m Manifest) (*Creator, error) {
	var res Creator

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.zstd, err = zstd.NewWriter(res.dumpStreams.storageItems)
	if err != nil {
		res.close()
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}

	res.manifest = m
	res.manifest.Time = id.Time
	res.storageItemsCSV = csv.NewWriter(res.zstd)

	return &res, nil
}

// Write writes storage item of the given kind to the resulting dump.
func (x *Creator) Write(kind string, key, value []byte) error {
	err := x.storageItemsCSV.Write([]string{
		kind,
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Flush flushes accumulated dump to the file system. The Creator must not be
// written to after Flush.
func (x *Creator) Flush() error {
	jEnc := json.NewEncoder(x.dumpStreams.manifest)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.manifest)
	if err != nil {
		return fmt.Errorf("encode manifest to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	x.flushed = true

	err = x.zstd.Close()
	if err != nil {
		return fmt.Errorf("flush zstd stream: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	if !x.flushed {
		_ = x.zstd.Close()
	}
	x.close()
}
