package common

import (
	"fmt"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/stretchr/testify/require"
)

type testArgs struct {
	X     int64
	Price uint64
}

func (a *testArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(a.Price)
}

func (a *testArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
}

func TestInstructionCodec(t *testing.T) {
	args := testArgs{X: -5, Price: 1000}

	data, err := EncodeInstruction(7, &args)
	require.NoError(t, err)
	require.Len(t, data, 17)

	tag, rest, err := SplitTag(data)
	require.NoError(t, err)
	require.EqualValues(t, 7, tag)

	var actual testArgs
	require.NoError(t, DecodeArgs(rest, &actual))
	require.Equal(t, args, actual)

	t.Run("empty", func(t *testing.T) {
		_, _, err := SplitTag(nil)
		require.ErrorIs(t, err, ErrInvalidInstruction)
	})
	t.Run("short", func(t *testing.T) {
		err := DecodeArgs(rest[:10], &actual)
		require.ErrorIs(t, err, ErrInvalidInstruction)
	})
	t.Run("trailing bytes", func(t *testing.T) {
		err := DecodeArgs(append(rest, 0), &actual)
		require.ErrorIs(t, err, ErrInvalidInstruction)
	})
	t.Run("no args", func(t *testing.T) {
		require.NoError(t, DecodeArgs(nil, &NoArgs{}))
		require.ErrorIs(t, DecodeArgs([]byte{1}, &NoArgs{}), ErrInvalidInstruction)
	})
}

func TestBindRecords(t *testing.T) {
	a, b := hash.Sha256([]byte{1}), hash.Sha256([]byte{2})

	var x, y Address
	require.NoError(t, BindRecords([]Address{a, b}, &x, &y))
	require.Equal(t, a, x)
	require.Equal(t, b, y)

	err := BindRecords([]Address{a}, &x, &y)
	require.ErrorIs(t, err, ErrRecordCount)

	err = BindRecords([]Address{a, b, a}, &x, &y)
	require.ErrorIs(t, err, ErrRecordCount)
}

func TestErrorCodes(t *testing.T) {
	all := []*Error{
		ErrInvalidInstruction, ErrRecordCount, ErrMissingSignature, ErrAddressMismatch,
		ErrWrongAuthority, ErrIdentityMismatch, ErrIncorrectOwner, ErrUninitialized,
		ErrAlreadyInitialized, ErrMintMismatch, ErrInvalidRecordData, ErrMissingTokenOwner,
		ErrNotListed, ErrPriceMismatch, ErrDurationOutOfBounds, ErrAlreadyLeased,
		ErrFrameOutOfRange, ErrCapacityExceeded, ErrCoordinatesMismatch, ErrOverflow,
		ErrSameParty, ErrPrivilegesRevoked, ErrCreatorNotVerified,
	}

	codes := make(map[uint32]struct{})
	for _, e := range all {
		_, ok := codes[e.Code]
		require.False(t, ok, "duplicate code %d", e.Code)
		codes[e.Code] = struct{}{}
		require.NotEqual(t, "unknown", e.Class.String())
	}

	wrapped := fmtWrap(ErrAlreadyLeased)
	require.EqualValues(t, 16, CodeOf(wrapped))
	require.Equal(t, ClassBusinessRule, ClassOf(wrapped))
	require.Zero(t, CodeOf(ErrOnCurve))
	require.Zero(t, ClassOf(nil))
}

func fmtWrap(err error) error {
	return fmt.Errorf("listing: %w", err)
}
