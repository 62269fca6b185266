package rent_test

import (
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/rent"
	"github.com/extend-xyz/spacegrid/tests"
	"github.com/stretchr/testify/require"
)

type rentWorld struct {
	*tests.World
	lessor, lessee common.Address
}

func newRentWorld(t *testing.T) rentWorld {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 0, 0)
	lessor := w.NewWallet(t)
	w.ClaimSpace(t, n, lessor, 7, 8)
	return rentWorld{World: w, lessor: lessor, lessee: w.NewWallet(t)}
}

// list lists space (7, 8) for price per second with maximum timestamp
// now+window.
func (w rentWorld) list(t *testing.T, price, minDur, maxDur, window uint64) {
	require.NoError(t, w.Rent.SetRent(w.lessor, rent.SetRentArgs{
		X:            7,
		Y:            8,
		Price:        price,
		MinDuration:  minDur,
		MaxDuration:  maxDur,
		MaxTimestamp: w.Chain.Now() + window,
		Create:       true,
	}))
}

func (w rentWorld) accept(price, duration uint64) error {
	return w.Rent.AcceptRent(w.lessee, w.lessor, rent.AcceptRentArgs{X: 7, Y: 8, Price: price, Duration: duration})
}

func TestSetRent(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()

	t.Run("not an owner", func(t *testing.T) {
		err := w.Rent.SetRent(w.lessee, rent.SetRentArgs{X: 7, Y: 8, Price: 1, MaxTimestamp: now + 10, Create: true})
		tests.RequireCode(t, common.ErrUninitialized, err)
	})
	t.Run("minimum past maximum timestamp", func(t *testing.T) {
		err := w.Rent.SetRent(w.lessor, rent.SetRentArgs{
			X: 7, Y: 8, Price: 1, MinDuration: 11, MaxDuration: 20, MaxTimestamp: now + 10, Create: true,
		})
		tests.RequireCode(t, common.ErrDurationOutOfBounds, err)
	})
	t.Run("overflow", func(t *testing.T) {
		err := w.Rent.SetRent(w.lessor, rent.SetRentArgs{
			X: 7, Y: 8, Price: 1, MinDuration: ^uint64(0), MaxTimestamp: ^uint64(0), Create: true,
		})
		tests.RequireCode(t, common.ErrOverflow, err)
	})

	w.list(t, 10, 100, 1000, 500)

	mint, err := w.Registry.SpaceMetadata(7, 8)
	require.NoError(t, err)

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Equal(t, mint.Mint, l.Mint)
	require.Equal(t, w.lessor, l.Lister)
	require.EqualValues(t, 10, l.Price)
	require.EqualValues(t, 100, l.MinDuration)
	require.EqualValues(t, 1000, l.MaxDuration)
	require.Equal(t, now+500, l.MaxTimestamp)
	require.False(t, l.Leased(now))

	t.Run("update", func(t *testing.T) {
		w.list(t, 20, 1, 50, 100)

		l, err := w.Rent.Listing(7, 8)
		require.NoError(t, err)
		require.EqualValues(t, 20, l.Price)
		require.Equal(t, now+100, l.MaxTimestamp)
	})
}

func TestAcceptRentClamped(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()
	w.list(t, 10, 100, 1000, 500)

	lessorNative, lesseeNative := w.Native(t, w.lessor), w.Native(t, w.lessee)

	require.NoError(t, w.accept(10, 800))

	require.Equal(t, lessorNative+5000, w.Native(t, w.lessor))
	require.Equal(t, lesseeNative-5000, w.Native(t, w.lessee))

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Equal(t, now+500, l.RentEnd)
	require.Equal(t, w.lessee, l.Lessee)
	require.True(t, l.Leased(now+499))
	require.False(t, l.Leased(now+500))
}

func TestAcceptRent(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()
	w.list(t, 10, 100, 1000, 5000)

	t.Run("below minimum", func(t *testing.T) {
		tests.RequireCode(t, common.ErrDurationOutOfBounds, w.accept(10, 50))
	})
	t.Run("above maximum", func(t *testing.T) {
		tests.RequireCode(t, common.ErrDurationOutOfBounds, w.accept(10, 1001))
	})
	t.Run("price changed", func(t *testing.T) {
		tests.RequireCode(t, common.ErrPriceMismatch, w.accept(9, 200))
	})
	t.Run("same party", func(t *testing.T) {
		err := w.Rent.AcceptRent(w.lessor, w.lessor, rent.AcceptRentArgs{X: 7, Y: 8, Price: 10, Duration: 200})
		tests.RequireCode(t, common.ErrSameParty, err)
	})
	t.Run("insufficient funds", func(t *testing.T) {
		poor := w.NewWallet(t)
		w.list(t, tests.DefaultNative, 1, 1000, 5000)

		err := w.Rent.AcceptRent(poor, w.lessor, rent.AcceptRentArgs{X: 7, Y: 8, Price: tests.DefaultNative, Duration: 2})
		require.Error(t, err)

		l, err := w.Rent.Listing(7, 8)
		require.NoError(t, err)
		require.False(t, l.Leased(now))

		w.list(t, 10, 100, 1000, 5000)
	})

	require.NoError(t, w.accept(10, 200))

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Equal(t, now+200, l.RentEnd)

	t.Run("already leased", func(t *testing.T) {
		other := w.NewWallet(t)
		err := w.Rent.AcceptRent(other, w.lessor, rent.AcceptRentArgs{X: 7, Y: 8, Price: 10, Duration: 200})
		tests.RequireCode(t, common.ErrAlreadyLeased, err)
	})

	t.Run("after lease end", func(t *testing.T) {
		w.Chain.Advance(200)
		require.NoError(t, w.accept(10, 100))

		l, err := w.Rent.Listing(7, 8)
		require.NoError(t, err)
		require.Equal(t, now+300, l.RentEnd)
	})
}

func TestDelist(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()
	w.list(t, 10, 100, 1000, 5000)
	require.NoError(t, w.accept(10, 200))

	require.NoError(t, w.Rent.SetRent(w.lessor, rent.SetRentArgs{X: 7, Y: 8}))

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Zero(t, l.Price)
	require.Zero(t, l.MaxTimestamp)
	require.Equal(t, w.lessee, l.Lessee)
	require.Equal(t, now+200, l.RentEnd)

	w.Chain.Advance(300)
	tests.RequireCode(t, common.ErrDurationOutOfBounds, w.accept(0, 100))
}

func TestAcceptRentAfterSale(t *testing.T) {
	w := newRentWorld(t)
	w.list(t, 10, 100, 1000, 5000)

	buyer := w.NewWallet(t)
	require.NoError(t, w.Registry.ChangeOffer(w.lessor, 7, 8, 100, true))
	require.NoError(t, w.Registry.AcceptOffer(buyer, w.lessor, 7, 8, 100))

	t.Run("former owner", func(t *testing.T) {
		tests.RequireCode(t, common.ErrMissingTokenOwner, w.accept(10, 200))
	})
	t.Run("new owner did not list", func(t *testing.T) {
		err := w.Rent.AcceptRent(w.lessee, buyer, rent.AcceptRentArgs{X: 7, Y: 8, Price: 10, Duration: 200})
		tests.RequireCode(t, common.ErrIdentityMismatch, err)
	})
}

func TestListingExpired(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()
	w.list(t, 10, 100, 1000, 100)

	w.Chain.Advance(100)

	lessorNative, lesseeNative := w.Native(t, w.lessor), w.Native(t, w.lessee)
	require.NoError(t, w.accept(10, 50))
	require.Equal(t, lessorNative, w.Native(t, w.lessor))
	require.Equal(t, lesseeNative, w.Native(t, w.lessee))

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Equal(t, now+100, l.RentEnd)
	require.False(t, l.Leased(w.Chain.Now()))

	w.Chain.Advance(1)
	tests.RequireCode(t, common.ErrDurationOutOfBounds, w.accept(10, 50))
}

func TestAcceptRentMinimumExemption(t *testing.T) {
	w := newRentWorld(t)
	now := w.Chain.Now()
	w.list(t, 10, 100, 1000, 500)

	w.Chain.Advance(450)

	t.Run("inside the window", func(t *testing.T) {
		tests.RequireCode(t, common.ErrDurationOutOfBounds, w.accept(10, 50))
	})

	lessorNative := w.Native(t, w.lessor)
	require.NoError(t, w.accept(10, 80))
	require.Equal(t, lessorNative+500, w.Native(t, w.lessor))

	l, err := w.Rent.Listing(7, 8)
	require.NoError(t, err)
	require.Equal(t, now+500, l.RentEnd)
	require.Equal(t, w.lessee, l.Lessee)
}
