package rent

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/registry"
)

// Config groups identities the rent program depends on.
type Config struct {
	Program common.Address
	// RegistryProgram is the authority space metadata is derived under.
	RegistryProgram common.Address
}

// Contract is the rent program.
type Contract struct {
	cfg Config
}

// New returns rent program configured with the given identities.
func New(cfg Config) *Contract {
	return &Contract{cfg: cfg}
}

// SetRentRecords are records of SetRent in the wire order.
type SetRentRecords struct {
	Base          common.Address
	SpaceMetadata common.Address
	Listing       common.Address
	Lessor        common.Address
	LessorHolding common.Address
}

// SetRent lists the space for rent or withdraws the listing. Withdrawal
// does not end the current lease.
func (c *Contract) SetRent(env *common.Env, rs SetRentRecords, args SetRentArgs) error {
	if err := common.CheckWitness(env, rs.Lessor); err != nil {
		return fmt.Errorf("lessor: %w", err)
	}

	space, err := registry.LoadSpaceMetadata(env, c.cfg.RegistryProgram, rs.Base, rs.SpaceMetadata, args.X, args.Y)
	if err != nil {
		return err
	}

	if _, err := common.CheckCustody(env.Ledger, rs.LessorHolding, rs.Lessor, space.Mint); err != nil {
		return fmt.Errorf("lessor holding: %w", err)
	}

	seeds := ListingSeeds(rs.Base, args.X, args.Y)
	data, st, err := common.LoadSlot(env, rs.Listing, c.cfg.Program)
	if err != nil {
		return fmt.Errorf("rent listing: %w", err)
	}

	var l Listing
	switch st {
	case common.Uninitialized:
		if l.Disambig, err = common.DiscoverAndVerify(rs.Listing, c.cfg.Program, seeds...); err != nil {
			return fmt.Errorf("rent listing: %w", err)
		}
		l.Mint = space.Mint
		if err := env.Store.CreateRecord(rs.Listing, ListingReserve); err != nil {
			return fmt.Errorf("create rent listing: %w", err)
		}
	case common.Initialized:
		if err := common.DecodeRecord(data, &l); err != nil {
			return fmt.Errorf("rent listing: %w", err)
		}
		if err := common.VerifyAddress(rs.Listing, c.cfg.Program, l.Disambig, seeds...); err != nil {
			return fmt.Errorf("rent listing: %w", err)
		}
	}

	if args.Create {
		end, err := common.AddU64(env.Now, args.MinDuration)
		if err != nil {
			return err
		}
		if end > args.MaxTimestamp {
			return fmt.Errorf("%w: minimum lease ends at %d after %d", common.ErrDurationOutOfBounds, end, args.MaxTimestamp)
		}

		l.Price = args.Price
		l.MinDuration = args.MinDuration
		l.MaxDuration = args.MaxDuration
		l.MaxTimestamp = args.MaxTimestamp
		l.Lister = rs.Lessor
	} else {
		l.Price = 0
		l.MinDuration = 0
		l.MaxDuration = 0
		l.MaxTimestamp = 0
	}

	if err := common.PutRecord(env, rs.Listing, &l); err != nil {
		return fmt.Errorf("rent listing: %w", err)
	}

	if args.Create {
		env.Logf("space (%d, %d) listed for rent at %d per second", args.X, args.Y, args.Price)
	} else {
		env.Logf("space (%d, %d) delisted from rent", args.X, args.Y)
	}
	return nil
}

// AcceptRentRecords are records of AcceptRent in the wire order.
type AcceptRentRecords struct {
	Base          common.Address
	SpaceMetadata common.Address
	Listing       common.Address
	Lessee        common.Address
	Lessor        common.Address
	LessorHolding common.Address
}

// AcceptRent leases the space. The lease is cut to the listing's maximum
// timestamp and paid upfront.
func (c *Contract) AcceptRent(env *common.Env, rs AcceptRentRecords, args AcceptRentArgs) error {
	if err := common.CheckWitness(env, rs.Lessee); err != nil {
		return fmt.Errorf("lessee: %w", err)
	}
	if rs.Lessee.Equals(rs.Lessor) {
		return common.ErrSameParty
	}

	space, err := registry.LoadSpaceMetadata(env, c.cfg.RegistryProgram, rs.Base, rs.SpaceMetadata, args.X, args.Y)
	if err != nil {
		return err
	}

	if _, err := common.CheckCustody(env.Ledger, rs.LessorHolding, rs.Lessor, space.Mint); err != nil {
		return fmt.Errorf("lessor holding: %w", err)
	}

	var l Listing
	if err := common.GetRecord(env, rs.Listing, c.cfg.Program, &l); err != nil {
		return fmt.Errorf("rent listing: %w", err)
	}
	if err := common.VerifyAddress(rs.Listing, c.cfg.Program, l.Disambig, ListingSeeds(rs.Base, args.X, args.Y)...); err != nil {
		return fmt.Errorf("rent listing: %w", err)
	}

	now := env.Now
	if l.Leased(now) {
		return fmt.Errorf("%w: until %d", common.ErrAlreadyLeased, l.RentEnd)
	}
	if err := common.AssertEqual(l.Lister, rs.Lessor); err != nil {
		return fmt.Errorf("lister: %w", err)
	}
	// a listing ending right now still yields an empty lease
	if l.MaxTimestamp < now {
		return fmt.Errorf("%w: listing expired at %d", common.ErrDurationOutOfBounds, l.MaxTimestamp)
	}

	end, err := common.AddU64(now, args.Duration)
	if err != nil {
		return err
	}
	// leases running into the maximum timestamp are exempt from the minimum
	// duration
	if end <= l.MaxTimestamp && args.Duration < l.MinDuration {
		return fmt.Errorf("%w: %d is less than minimum %d", common.ErrDurationOutOfBounds, args.Duration, l.MinDuration)
	}
	if args.Duration > l.MaxDuration {
		return fmt.Errorf("%w: %d is greater than maximum %d", common.ErrDurationOutOfBounds, args.Duration, l.MaxDuration)
	}
	if args.Price != l.Price {
		return fmt.Errorf("%w: listed for %d, offered %d", common.ErrPriceMismatch, l.Price, args.Price)
	}

	effective := min(args.Duration, l.MaxTimestamp-now)
	total, err := common.MulU64(l.Price, effective)
	if err != nil {
		return err
	}
	if err := env.Ledger.Pay(rs.Lessee, rs.Lessor, total); err != nil {
		return fmt.Errorf("pay rent: %w", err)
	}

	l.RentEnd = now + effective
	l.Lessee = rs.Lessee
	if err := common.PutRecord(env, rs.Listing, &l); err != nil {
		return fmt.Errorf("rent listing: %w", err)
	}

	env.Logf("space (%d, %d) rented until %d for %d", args.X, args.Y, l.RentEnd, total)
	return nil
}
