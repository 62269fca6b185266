package dump

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
)

// World dumps the whole state of the chain into the given directory. The dump
// is identified by label and current clock of the chain.
func World(c *chain.Chain, ids chain.Identities, base common.Address, dir, label string) (ID, error) {
	id := ID{Label: label, Time: c.Now()}

	m := Manifest{
		Version:  common.Version,
		Base:     common.EncodeAddress(base),
		Programs: make(map[string]string),
	}
	for name, addr := range ids.Names() {
		m.Programs[name] = common.EncodeAddress(addr)
	}

	cr, err := NewCreator(dir, id, m)
	if err != nil {
		return ID{}, err
	}
	defer cr.Close()

	c.SeekRaw(func(k, v []byte) bool {
		err = cr.Write(chain.ItemKind(k), k, v)
		return err == nil
	})
	if err != nil {
		return ID{}, fmt.Errorf("write storage item: %w", err)
	}

	if err = cr.Flush(); err != nil {
		return ID{}, err
	}

	return id, nil
}

// ProgramsConfig returns configuration of program identities recorded in the
// manifest.
func (x Manifest) ProgramsConfig() chain.ProgramsConfig {
	return chain.ProgramsConfig{
		Registry:     x.Programs["registry"],
		Canvas:       x.Programs["canvas"],
		Rent:         x.Programs["rent"],
		Token:        x.Programs["token"],
		Metadata:     x.Programs["metadata"],
		PaymentAsset: x.Programs["payment_asset"],
	}
}
