package migration

import (
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/tests"
	"github.com/extend-xyz/spacegrid/tests/dump"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Options groups various options of Restore.
type Options struct {
	// Listener of storage items of the snapshot. Useful for working with raw
	// values that can not be accessed by the program readers.
	StorageDumpHandler func(kind string, key, value []byte)
}

// Restore constructs World from provided dump.Reader.
//
// The chain is initialized with all storage items of the snapshot, its clock
// is set to the snapshot time, and the programs are deployed at the
// identities recorded in the manifest. Restore fails the test if the snapshot
// was made by incompatible record layouts.
func Restore(tb testing.TB, d *dump.Reader, opts Options) *tests.World {
	m := d.Manifest()
	require.True(tb, common.CheckVersion(m.Version),
		"snapshot version %d is not compatible with %d", m.Version, common.Version)

	ids, err := m.ProgramsConfig().Identities()
	require.NoError(tb, err)

	base, err := common.DecodeAddress(m.Base)
	require.NoError(tb, err)

	c := chain.New(zaptest.NewLogger(tb), storage.NewMemoryStore(), ids.Token)
	tb.Cleanup(func() { _ = c.Close() })
	c.SetTime(m.Time)

	err = c.Genesis(func(g *chain.Genesis) error {
		var err error
		d.IterateStorageItems(func(kind string, key, value []byte) {
			if opts.StorageDumpHandler != nil {
				opts.StorageDumpHandler(kind, key, value)
			}
			if err == nil {
				err = g.PutRaw(key, value)
			}
		})
		return err
	})
	require.NoError(tb, err)

	return tests.Attach(tb, c, ids, base)
}
