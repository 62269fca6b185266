package common

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

func TestAssetMetadata(t *testing.T) {
	md := AssetMetadata{
		UpdateAuthority: hash.Sha256([]byte("authority")),
		Mint:            hash.Sha256([]byte("mint")),
		Name:            "Extend Space #(1, 2)",
		Symbol:          "SPACE",
		URI:             "https://example.org/1/2.json",
		SellerFee:       500,
		Creators: []Creator{
			{Address: hash.Sha256([]byte("creator")), Verified: true, Share: 100},
		},
	}

	data, err := EncodeRecord(&md)
	require.NoError(t, err)
	require.EqualValues(t, AssetMetadataKey, data[0])

	var actual AssetMetadata
	require.NoError(t, DecodeRecord(append(data, make([]byte, 64)...), &actual))
	require.Equal(t, md, actual)

	t.Run("no creators", func(t *testing.T) {
		md := md
		md.Creators = nil
		data, err := EncodeRecord(&md)
		require.NoError(t, err)

		var actual AssetMetadata
		require.NoError(t, DecodeRecord(data, &actual))
		require.Nil(t, actual.Creators)
	})
	t.Run("wrong key", func(t *testing.T) {
		data := append([]byte{}, data...)
		data[0] = AssetMetadataKey + 1
		require.ErrorIs(t, DecodeRecord(data, &actual), ErrInvalidRecordData)
	})
	t.Run("too many creators", func(t *testing.T) {
		md := md
		md.Creators = make([]Creator, maxCreators+1)
		data, err := EncodeRecord(&md)
		require.NoError(t, err)
		require.ErrorIs(t, DecodeRecord(data, &actual), ErrInvalidRecordData)
	})
}

func TestAssetMetadataAddress(t *testing.T) {
	program, mint := hash.Sha256([]byte("metadata")), hash.Sha256([]byte("mint"))

	a, err := AssetMetadataAddress(program, mint)
	require.NoError(t, err)
	require.False(t, IsOnCurve(a))

	b, err := AssetMetadataAddress(program, hash.Sha256([]byte("other")))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestBatchMintConfig(t *testing.T) {
	cfg := BatchMintConfig{
		Authority: hash.Sha256([]byte("authority")),
		FirstName: "Extend Space #(-200, 400)",
	}

	data := EncodeBatchMintConfig(cfg)
	require.Len(t, data, BatchMintConfigSize)

	actual, err := ParseBatchMintConfig(append(data, 1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, cfg, actual)

	_, err = ParseBatchMintConfig(data[:BatchMintConfigSize-1])
	require.ErrorIs(t, err, ErrInvalidRecordData)
}
