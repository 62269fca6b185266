package tests

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// RandomAddress returns random address. It is used for records and assets
// nobody signs for.
func RandomAddress() common.Address {
	a, _ := util.Uint256DecodeBytesBE(randomBytes(util.Uint256Size))
	return a
}

// RequireCode checks that err carries the code of the expected rejection.
func RequireCode(tb testing.TB, expected *common.Error, err error) {
	require.Error(tb, err)
	require.True(tb, errors.Is(err, expected), "expected %q, got %v", expected, err)
	require.Equal(tb, expected.Code, common.CodeOf(err))
}
