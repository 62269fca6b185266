package registry

import (
	"errors"
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
)

// ChangeOfferRecords are records of ChangeOffer in the wire order.
type ChangeOfferRecords struct {
	Base          common.Address
	SpaceMetadata common.Address
	Owner         common.Address
	OwnerHolding  common.Address
	SellDelegate  common.Address
}

// ChangeOffer lists the space for sale or withdraws the listing. Listing
// approves a one-unit delegation of the owner holding to the sell delegate of
// the base.
func (c *Contract) ChangeOffer(env *common.Env, rs ChangeOfferRecords, args ChangeOfferArgs) error {
	if err := common.CheckWitness(env, rs.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}

	space, err := LoadSpaceMetadata(env, c.cfg.Program, rs.Base, rs.SpaceMetadata, args.X, args.Y)
	if err != nil {
		return err
	}

	if _, err := common.DiscoverAndVerify(rs.SellDelegate, c.cfg.Program, SellDelegateSeeds(rs.Base)...); err != nil {
		return fmt.Errorf("sell delegate: %w", err)
	}

	if _, err := common.CheckCustody(env.Ledger, rs.OwnerHolding, rs.Owner, space.Mint); err != nil {
		return fmt.Errorf("owner holding: %w", err)
	}

	if args.Create {
		if args.Price == 0 {
			return fmt.Errorf("%w: zero price", common.ErrPriceMismatch)
		}
		if err := env.Ledger.Approve(rs.OwnerHolding, rs.SellDelegate, rs.Owner, 1); err != nil {
			return fmt.Errorf("approve sell delegate: %w", err)
		}
		space.Price = args.Price
	} else {
		if err := env.Ledger.Revoke(rs.OwnerHolding, rs.Owner); err != nil {
			return fmt.Errorf("revoke sell delegate: %w", err)
		}
		space.Price = 0
	}

	if err := common.PutRecord(env, rs.SpaceMetadata, &space); err != nil {
		return fmt.Errorf("space metadata: %w", err)
	}

	if args.Create {
		env.Logf("space (%d, %d) listed for %d", args.X, args.Y, args.Price)
	} else {
		env.Logf("space (%d, %d) delisted", args.X, args.Y)
	}
	return nil
}

// AcceptOfferRecords are records of AcceptOffer in the wire order.
type AcceptOfferRecords struct {
	Base                 common.Address
	NeighborhoodMetadata common.Address
	NeighborhoodCreator  common.Address
	SpaceMetadata        common.Address
	Mint                 common.Address
	Buyer                common.Address
	BuyerHolding         common.Address
	Seller               common.Address
	SellerHolding        common.Address
	SellDelegate         common.Address
}

// AcceptOffer buys the listed space at the listed price. The sell delegate
// moves the asset to the buyer, the neighborhood creator gets the
// marketplace fee and the seller the rest.
func (c *Contract) AcceptOffer(env *common.Env, rs AcceptOfferRecords, args AcceptOfferArgs) error {
	if err := common.CheckWitness(env, rs.Buyer); err != nil {
		return fmt.Errorf("buyer: %w", err)
	}
	if rs.Buyer.Equals(rs.Seller) {
		return fmt.Errorf("%w: buyer is the seller", common.ErrSameParty)
	}

	space, err := LoadSpaceMetadata(env, c.cfg.Program, rs.Base, rs.SpaceMetadata, args.X, args.Y)
	if err != nil {
		return err
	}
	if !space.Mint.Equals(rs.Mint) {
		return fmt.Errorf("space asset: %w", common.ErrMintMismatch)
	}

	nx, ny := common.NeighborhoodOf(args.X, args.Y)
	nbhd, err := LoadNeighborhoodMetadata(env, c.cfg.Program, rs.Base, rs.NeighborhoodMetadata, nx, ny)
	if err != nil {
		return err
	}
	if err := common.AssertEqual(nbhd.Creator, rs.NeighborhoodCreator); err != nil {
		return fmt.Errorf("neighborhood creator: %w", err)
	}

	delegateSeeds := SellDelegateSeeds(rs.Base)
	disambig, err := common.DiscoverAndVerify(rs.SellDelegate, c.cfg.Program, delegateSeeds...)
	if err != nil {
		return fmt.Errorf("sell delegate: %w", err)
	}

	if err := ensureHolding(env, rs.BuyerHolding, rs.Buyer, rs.Mint); err != nil {
		return fmt.Errorf("buyer holding: %w", err)
	}
	if _, err := common.CheckCanonicalHolding(env.Ledger, rs.BuyerHolding, rs.Buyer, rs.Mint); err != nil {
		return fmt.Errorf("buyer holding: %w", err)
	}

	seller, err := common.CheckCanonicalHolding(env.Ledger, rs.SellerHolding, rs.Seller, rs.Mint)
	if err != nil {
		return fmt.Errorf("seller holding: %w", err)
	}
	if space.Price == 0 || !seller.HasDelegate(rs.SellDelegate) {
		return common.ErrNotListed
	}
	if space.Price != args.Price {
		return fmt.Errorf("%w: listed for %d, offered %d", common.ErrPriceMismatch, space.Price, args.Price)
	}

	if _, err := env.Witnesses.Authorize(disambig, delegateSeeds...); err != nil {
		return fmt.Errorf("authorize sell delegate: %w", err)
	}
	if err := env.Ledger.Transfer(rs.SellerHolding, rs.BuyerHolding, rs.SellDelegate, 1); err != nil {
		return fmt.Errorf("transfer space: %w", err)
	}

	fee, rest := common.SplitFee(space.Price)
	if err := env.Ledger.Pay(rs.Buyer, rs.Seller, rest); err != nil {
		return fmt.Errorf("pay seller: %w", err)
	}
	if err := env.Ledger.Pay(rs.Buyer, rs.NeighborhoodCreator, fee); err != nil {
		return fmt.Errorf("pay marketplace fee: %w", err)
	}

	space.Price = 0
	if err := common.PutRecord(env, rs.SpaceMetadata, &space); err != nil {
		return fmt.Errorf("space metadata: %w", err)
	}

	env.Logf("space (%d, %d) sold for %d, fee %d", args.X, args.Y, args.Price, fee)
	return nil
}

// ensureHolding creates the canonical holding of owner if it does not exist.
func ensureHolding(env *common.Env, holding, owner, asset common.Address) error {
	_, err := env.Ledger.Holding(holding)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrUninitialized) {
		return err
	}
	if expected := env.Ledger.HoldingAddress(owner, asset); !expected.Equals(holding) {
		return fmt.Errorf("%w: holding is not canonical", common.ErrAddressMismatch)
	}
	return env.Ledger.InitHolding(holding, owner, asset)
}
