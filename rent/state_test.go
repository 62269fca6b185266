package rent

import (
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

func TestListing(t *testing.T) {
	l := Listing{
		Disambig:     254,
		Mint:         hash.Sha256([]byte("mint")),
		Price:        10,
		MinDuration:  100,
		MaxDuration:  1000,
		MaxTimestamp: 1_700_000_500,
		Lister:       hash.Sha256([]byte("lister")),
		Lessee:       hash.Sha256([]byte("lessee")),
		RentEnd:      1_700_000_300,
	}

	data, err := common.EncodeRecord(&l)
	require.NoError(t, err)
	require.Len(t, data, 1+32+4*8+2*32+8)
	require.LessOrEqual(t, len(data), ListingReserve)

	var actual Listing
	require.NoError(t, common.DecodeRecord(append(data, make([]byte, ListingReserve-len(data))...), &actual))
	require.Equal(t, l, actual)

	require.True(t, l.Leased(1_700_000_299))
	require.False(t, l.Leased(1_700_000_300))
}

func TestArgs(t *testing.T) {
	set := SetRentArgs{X: -1, Y: 2, Price: 3, MinDuration: 4, MaxDuration: 5, MaxTimestamp: 6, Create: true}
	data, err := common.EncodeInstruction(TagSetRent, &set)
	require.NoError(t, err)
	require.EqualValues(t, TagSetRent, data[0])

	var actualSet SetRentArgs
	require.NoError(t, common.DecodeArgs(data[1:], &actualSet))
	require.Equal(t, set, actualSet)

	accept := AcceptRentArgs{X: 7, Y: -8, Price: 9, Duration: 10}
	data, err = common.EncodeInstruction(TagAcceptRent, &accept)
	require.NoError(t, err)

	var actualAccept AcceptRentArgs
	require.NoError(t, common.DecodeArgs(data[1:], &actualAccept))
	require.Equal(t, accept, actualAccept)

	require.ErrorIs(t, common.DecodeArgs(data[1:], &actualSet), common.ErrInvalidInstruction)
}
