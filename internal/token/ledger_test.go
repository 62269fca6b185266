package token

import (
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

type signers map[common.Address]bool

func (s signers) CheckWitness(a common.Address) bool { return s[a] }

func (s signers) Authorize(byte, ...[]byte) (common.Address, error) {
	panic("not used by the ledger")
}

func addr(name string) common.Address {
	return hash.Sha256([]byte(name))
}

func newLedger(t *testing.T) (*Ledger, signers) {
	w := make(signers)
	return New(storage.NewMemCachedStore(storage.NewMemoryStore()), w, addr("token")), w
}

// newAsset creates asset class with the given mint authority and funds
// canonical holding of owner.
func newAsset(t *testing.T, l *Ledger, w signers, asset, owner common.Address, amount uint64) common.Address {
	w[asset], w[owner] = true, true
	defer func() { delete(w, asset); delete(w, owner) }()

	require.NoError(t, l.InitAsset(asset, owner, 0))
	h := l.HoldingAddress(owner, asset)
	require.NoError(t, l.InitHolding(h, owner, asset))
	require.NoError(t, l.MintTo(asset, h, owner, amount))
	return h
}

func TestInitAsset(t *testing.T) {
	l, w := newLedger(t)
	asset, authority := addr("asset"), addr("authority")

	err := l.InitAsset(asset, authority, 6)
	require.ErrorIs(t, err, common.ErrMissingSignature)

	w[asset] = true
	require.NoError(t, l.InitAsset(asset, authority, 6))

	a, err := l.Asset(asset)
	require.NoError(t, err)
	require.Equal(t, Asset{MintAuthority: authority, Decimals: 6}, a)

	err = l.InitAsset(asset, authority, 6)
	require.ErrorIs(t, err, common.ErrAlreadyInitialized)

	_, err = l.Asset(addr("missing"))
	require.ErrorIs(t, err, common.ErrUninitialized)
}

func TestInitHolding(t *testing.T) {
	l, w := newLedger(t)
	asset, owner := addr("asset"), addr("owner")

	err := l.InitHolding(l.HoldingAddress(owner, asset), owner, asset)
	require.ErrorIs(t, err, common.ErrUninitialized)

	w[asset] = true
	require.NoError(t, l.InitAsset(asset, owner, 0))

	canonical := l.HoldingAddress(owner, asset)
	require.Equal(t, HoldingAddress(addr("token"), owner, asset), canonical)
	require.NoError(t, l.InitHolding(canonical, owner, asset))

	h, err := l.Holding(canonical)
	require.NoError(t, err)
	require.Equal(t, common.Holding{Address: canonical, Owner: owner, Asset: asset}, h)

	err = l.InitHolding(canonical, owner, asset)
	require.ErrorIs(t, err, common.ErrAlreadyInitialized)

	t.Run("non-canonical", func(t *testing.T) {
		other := addr("other holding")
		err := l.InitHolding(other, owner, asset)
		require.ErrorIs(t, err, common.ErrMissingSignature)

		w[other] = true
		require.NoError(t, l.InitHolding(other, owner, asset))
	})
}

func TestMintTo(t *testing.T) {
	l, w := newLedger(t)
	asset, owner := addr("asset"), addr("owner")
	h := newAsset(t, l, w, asset, owner, 10)

	err := l.MintTo(asset, h, owner, 5)
	require.ErrorIs(t, err, common.ErrMissingSignature)

	w[addr("stranger")] = true
	err = l.MintTo(asset, h, addr("stranger"), 5)
	require.ErrorIs(t, err, common.ErrWrongAuthority)

	w[owner] = true
	require.NoError(t, l.MintTo(asset, h, owner, 5))

	hh, err := l.Holding(h)
	require.NoError(t, err)
	require.EqualValues(t, 15, hh.Amount)

	a, err := l.Asset(asset)
	require.NoError(t, err)
	require.EqualValues(t, 15, a.Supply)
}

func TestTransfer(t *testing.T) {
	l, w := newLedger(t)
	asset, alice, bob := addr("asset"), addr("alice"), addr("bob")
	src := newAsset(t, l, w, asset, alice, 100)
	dst := l.HoldingAddress(bob, asset)
	require.NoError(t, l.InitHolding(dst, bob, asset))

	err := l.Transfer(src, dst, alice, 10)
	require.ErrorIs(t, err, common.ErrMissingSignature)

	w[bob] = true
	err = l.Transfer(src, dst, bob, 10)
	require.ErrorIs(t, err, common.ErrWrongAuthority)

	w[alice] = true
	err = l.Transfer(src, dst, alice, 101)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, l.Transfer(src, dst, alice, 30))
	requireAmount(t, l, src, 70)
	requireAmount(t, l, dst, 30)

	t.Run("self", func(t *testing.T) {
		require.NoError(t, l.Transfer(src, src, alice, 70))
		requireAmount(t, l, src, 70)
	})
	t.Run("other asset", func(t *testing.T) {
		other := newAsset(t, l, w, addr("other"), bob, 1)
		err := l.Transfer(src, other, alice, 1)
		require.ErrorIs(t, err, common.ErrMintMismatch)
	})
}

func TestDelegate(t *testing.T) {
	l, w := newLedger(t)
	asset, alice, bob, delegate := addr("asset"), addr("alice"), addr("bob"), addr("delegate")
	src := newAsset(t, l, w, asset, alice, 1)
	dst := l.HoldingAddress(bob, asset)
	require.NoError(t, l.InitHolding(dst, bob, asset))

	err := l.Approve(src, delegate, alice, 1)
	require.ErrorIs(t, err, common.ErrMissingSignature)

	w[bob] = true
	err = l.Approve(src, delegate, bob, 1)
	require.ErrorIs(t, err, common.ErrIdentityMismatch)

	w[alice] = true
	require.NoError(t, l.Approve(src, delegate, alice, 1))
	delete(w, alice)

	h, err := l.Holding(src)
	require.NoError(t, err)
	require.True(t, h.HasDelegate(delegate))

	w[delegate] = true

	t.Run("self transfer keeps allowance", func(t *testing.T) {
		require.NoError(t, l.Transfer(src, src, delegate, 1))
		requireAmount(t, l, src, 1)

		h, err := l.Holding(src)
		require.NoError(t, err)
		require.True(t, h.HasDelegate(delegate))
		require.EqualValues(t, 1, h.DelegatedAmount)
	})

	require.NoError(t, l.Transfer(src, dst, delegate, 1))
	requireAmount(t, l, dst, 1)

	h, err = l.Holding(src)
	require.NoError(t, err)
	require.False(t, h.HasDelegate(delegate))
	require.Equal(t, common.Address{}, h.Delegate)

	t.Run("revoke", func(t *testing.T) {
		w[bob] = true
		require.NoError(t, l.Approve(dst, delegate, bob, 1))
		require.NoError(t, l.Revoke(dst, bob))

		err := l.Transfer(dst, src, delegate, 1)
		require.ErrorIs(t, err, common.ErrWrongAuthority)
	})
}

func TestBurn(t *testing.T) {
	l, w := newLedger(t)
	asset, owner := addr("asset"), addr("owner")
	h := newAsset(t, l, w, asset, owner, 10)

	w[owner] = true
	err := l.Burn(h, addr("other"), owner, 1)
	require.ErrorIs(t, err, common.ErrMintMismatch)

	err = l.Burn(h, asset, owner, 11)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, l.Burn(h, asset, owner, 4))
	requireAmount(t, l, h, 6)

	a, err := l.Asset(asset)
	require.NoError(t, err)
	require.EqualValues(t, 6, a.Supply)
}

func TestNative(t *testing.T) {
	l, w := newLedger(t)
	alice, bob := addr("alice"), addr("bob")

	b, err := l.Balance(alice)
	require.NoError(t, err)
	require.Zero(t, b)

	require.NoError(t, l.Credit(alice, 100))

	err = l.Pay(alice, bob, 10)
	require.ErrorIs(t, err, common.ErrMissingSignature)

	w[alice] = true
	err = l.Pay(alice, bob, 101)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, l.Pay(alice, bob, 30))
	require.NoError(t, l.Pay(alice, alice, 70))
	require.NoError(t, l.Pay(alice, bob, 0))

	b, err = l.Balance(alice)
	require.NoError(t, err)
	require.EqualValues(t, 70, b)

	b, err = l.Balance(bob)
	require.NoError(t, err)
	require.EqualValues(t, 30, b)
}

func requireAmount(t *testing.T, l *Ledger, h common.Address, amount uint64) {
	hh, err := l.Holding(h)
	require.NoError(t, err)
	require.Equal(t, amount, hh.Amount)
}
