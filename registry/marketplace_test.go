package registry_test

import (
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/tests"
	"github.com/stretchr/testify/require"
)

func TestMarketplace(t *testing.T) {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 0, 0)
	seller, buyer := w.NewWallet(t), w.NewWallet(t)
	mint := w.ClaimSpace(t, n, seller, 12, 34)

	t.Run("not listed", func(t *testing.T) {
		err := w.Registry.AcceptOffer(buyer, seller, 12, 34, 0)
		tests.RequireCode(t, common.ErrNotListed, err)
	})
	t.Run("zero price listing", func(t *testing.T) {
		err := w.Registry.ChangeOffer(seller, 12, 34, 0, true)
		tests.RequireCode(t, common.ErrPriceMismatch, err)
	})
	t.Run("list by stranger", func(t *testing.T) {
		err := w.Registry.ChangeOffer(buyer, 12, 34, 1000, true)
		tests.RequireCode(t, common.ErrUninitialized, err)
	})

	require.NoError(t, w.Registry.ChangeOffer(seller, 12, 34, 1000, true))

	s, err := w.Registry.SpaceMetadata(12, 34)
	require.NoError(t, err)
	require.EqualValues(t, 1000, s.Price)

	delegate, err := w.Registry.SellDelegate()
	require.NoError(t, err)
	h := w.Holding(t, seller, mint)
	require.True(t, h.HasDelegate(delegate))

	t.Run("price changed", func(t *testing.T) {
		err := w.Registry.AcceptOffer(buyer, seller, 12, 34, 999)
		tests.RequireCode(t, common.ErrPriceMismatch, err)
	})
	t.Run("wrong seller", func(t *testing.T) {
		err := w.Registry.AcceptOffer(buyer, n.Creator, 12, 34, 1000)
		tests.RequireCode(t, common.ErrUninitialized, err)
	})
	t.Run("buy own space", func(t *testing.T) {
		err := w.Registry.AcceptOffer(seller, seller, 12, 34, 1000)
		tests.RequireCode(t, common.ErrSameParty, err)

		h := w.Holding(t, seller, mint)
		require.True(t, h.HasDelegate(delegate))
		require.EqualValues(t, 1, h.Amount)
	})
	t.Run("wrong creator", func(t *testing.T) {
		ins, err := w.Registry.AcceptOfferInstruction(buyer, seller, 12, 34, 1000)
		require.NoError(t, err)
		ins.Records[2] = buyer
		err = w.Send([]common.Address{buyer}, ins)
		tests.RequireCode(t, common.ErrIdentityMismatch, err)
	})

	sellerNative := w.Native(t, seller)
	buyerNative := w.Native(t, buyer)
	creatorNative := w.Native(t, n.Creator)

	require.NoError(t, w.Registry.AcceptOffer(buyer, seller, 12, 34, 1000))

	require.Equal(t, sellerNative+990, w.Native(t, seller))
	require.Equal(t, buyerNative-1000, w.Native(t, buyer))
	require.Equal(t, creatorNative+10, w.Native(t, n.Creator))

	require.EqualValues(t, 0, w.Holding(t, seller, mint).Amount)
	require.EqualValues(t, 1, w.Holding(t, buyer, mint).Amount)

	s, err = w.Registry.SpaceMetadata(12, 34)
	require.NoError(t, err)
	require.Zero(t, s.Price)

	t.Run("sold twice", func(t *testing.T) {
		err := w.Registry.AcceptOffer(w.NewWallet(t), seller, 12, 34, 1000)
		tests.RequireCode(t, common.ErrNotListed, err)
	})

	t.Run("resale", func(t *testing.T) {
		require.NoError(t, w.Registry.ChangeOffer(buyer, 12, 34, 500, true))
		require.NoError(t, w.Registry.ChangeOffer(buyer, 12, 34, 0, false))

		s, err := w.Registry.SpaceMetadata(12, 34)
		require.NoError(t, err)
		require.Zero(t, s.Price)
		require.False(t, w.Holding(t, buyer, mint).HasDelegate(delegate))

		err = w.Registry.AcceptOffer(seller, buyer, 12, 34, 500)
		tests.RequireCode(t, common.ErrNotListed, err)
	})
}

func TestMarketplaceStaleDelegate(t *testing.T) {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 0, 0)
	seller, buyer := w.NewWallet(t), w.NewWallet(t)
	w.ClaimSpace(t, n, seller, 1, 1)

	require.NoError(t, w.Registry.ChangeOffer(seller, 1, 1, 100, true))

	// the owner revokes the delegation directly in the ledger, the price stays
	// in the record
	s, err := w.Registry.SpaceMetadata(1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Chain.Genesis(func(g *chain.Genesis) error {
		return g.Ledger.Revoke(g.Ledger.HoldingAddress(seller, s.Mint), seller)
	}))

	s, err = w.Registry.SpaceMetadata(1, 1)
	require.NoError(t, err)
	require.EqualValues(t, 100, s.Price)

	err = w.Registry.AcceptOffer(buyer, seller, 1, 1, 100)
	tests.RequireCode(t, common.ErrNotListed, err)
}

func TestMarketplaceInsufficientFunds(t *testing.T) {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 0, 0)
	seller, buyer := w.NewWallet(t), w.NewWallet(t)
	mint := w.ClaimSpace(t, n, seller, 1, 1)

	require.NoError(t, w.Registry.ChangeOffer(seller, 1, 1, tests.DefaultNative+1, true))

	err := w.Registry.AcceptOffer(buyer, seller, 1, 1, tests.DefaultNative+1)
	require.Error(t, err)

	require.EqualValues(t, 1, w.Holding(t, seller, mint).Amount)
	require.Equal(t, uint64(tests.DefaultNative), w.Native(t, buyer))
}
