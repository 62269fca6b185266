package dump

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ID is a unique identifier of the snapshot.
type ID struct {
	// Label of the snapshot source (e.g. staging, production).
	Label string
	// Clock value at which the state was pulled.
	Time uint64
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(x.Time, 10)
}

// decodes ID fields from the hyphen-separated string.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	n, err := strconv.ParseUint(ss[1], 10, 64)
	if err != nil {
		return fmt.Errorf("decode time from '%s': %w", ss[1], err)
	}

	x.Label = ss[0]
	x.Time = n

	return nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

// Manifest describes the snapshot.
type Manifest struct {
	// Version of the record layouts the snapshot was taken with, see
	// common.Version.
	Version int `json:"version"`
	// Time is the clock value of the world.
	Time uint64 `json:"time"`
	// Base is the base58 identity of the world base.
	Base string `json:"base"`
	// Programs maps program and asset names to base58 identities.
	Programs map[string]string `json:"programs"`
}

// dumpStreams groups data streams for the manifest and storage items.
type dumpStreams struct {
	manifest, storageItems io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() {
	_ = x.storageItems.Close()
	_ = x.manifest.Close()
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with the manifest
	manifestFileSuffix = "manifest.json"
	// suffix of file with storage items
	storageFileSuffix = "storage.csv.zst"
)

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathStorage := filepath.Join(dir, strings.Join([]string{id.String(), storageFileSuffix}, sep))
	pathManifest := filepath.Join(dir, strings.Join([]string{id.String(), manifestFileSuffix}, sep))

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		for _, p := range []string{pathStorage, pathManifest} {
			if err = checkFileNotExists(p); err != nil {
				return err
			}
		}
		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	d.storageItems, err = os.OpenFile(pathStorage, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with storage items: %w", err)
	}

	d.manifest, err = os.OpenFile(pathManifest, flag, perm)
	if err != nil {
		_ = d.storageItems.Close()
		return fmt.Errorf("open manifest file: %w", err)
	}

	return nil
}

// checkFileNotExists makes sure the snapshot file is not overwritten.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if err == nil {
		return fmt.Errorf("snapshot file '%s': %w", p, os.ErrExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check snapshot file '%s': %w", p, err)
	}
	return nil
}
