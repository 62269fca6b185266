package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/registry"
	"github.com/extend-xyz/spacegrid/rent"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress(t *testing.T) {
	ids, err := chain.ProgramsConfig{}.Identities()
	require.NoError(t, err)
	base := hash.Sha256([]byte("base"))

	for _, tc := range []struct {
		kind    string
		program common.Address
		seeds   [][]byte
	}{
		{"neighborhood-list", ids.Registry, registry.NeighborhoodListSeeds(base)},
		{"neighborhood", ids.Registry, registry.NeighborhoodMetadataSeeds(base, 3, -4)},
		{"space", ids.Registry, registry.SpaceMetadataSeeds(base, 3, -4)},
		{"listing", ids.Rent, rent.ListingSeeds(base, 3, -4)},
		{"sell-delegate", ids.Registry, registry.SellDelegateSeeds(base)},
		{"voucher-mint", ids.Registry, registry.VoucherMintSeeds(base, 3, -4)},
		{"voucher-sink", ids.Registry, registry.VoucherSinkSeeds(base, 3, -4)},
	} {
		t.Run(tc.kind, func(t *testing.T) {
			exp, _, err := common.DiscoverAddress(tc.program, tc.seeds...)
			require.NoError(t, err)

			addr, err := deriveAddress(ids, base, tc.kind, 3, -4, 0)
			require.NoError(t, err)
			require.Equal(t, exp, addr)
		})
	}

	t.Run("frames", func(t *testing.T) {
		fb, err := deriveAddress(ids, base, "frame-base", 3, -4, 0)
		require.NoError(t, err)
		fp0, err := deriveAddress(ids, base, "frame-pointer", 3, -4, 0)
		require.NoError(t, err)
		fp1, err := deriveAddress(ids, base, "frame-pointer", 3, -4, 1)
		require.NoError(t, err)
		require.NotEqual(t, fb, fp0)
		require.NotEqual(t, fp0, fp1)
	})

	_, err = deriveAddress(ids, base, "", 0, 0, 0)
	require.Error(t, err)
	_, err = deriveAddress(ids, base, "unknown", 0, 0, 0)
	require.Error(t, err)
}

func TestAddressCommand(t *testing.T) {
	ids, err := chain.ProgramsConfig{}.Identities()
	require.NoError(t, err)
	base := hash.Sha256([]byte("base"))

	exp, _, err := common.DiscoverAddress(ids.Registry, registry.SpaceMetadataSeeds(base, 12, 34)...)
	require.NoError(t, err)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err = app.Run([]string{"spacegrid", "address", "--base", common.EncodeAddress(base), "--x", "12", "--y", "34", "space"})
	require.NoError(t, err)
	require.Equal(t, common.EncodeAddress(exp), strings.TrimSpace(out.String()))

	err = app.Run([]string{"spacegrid", "address", "space"})
	require.Error(t, err)
}
