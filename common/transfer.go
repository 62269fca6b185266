package common

import (
	"fmt"
	"math/bits"
)

// MarketplaceFeeDivisor defines the 1% marketplace fee paid to the
// neighborhood creator.
const MarketplaceFeeDivisor = 100

// CheckCustody checks that holding is the canonical holding of owner for the
// asset and contains exactly one unit.
func CheckCustody(l Ledger, holding, owner, asset Address) (Holding, error) {
	h, err := CheckCanonicalHolding(l, holding, owner, asset)
	if err != nil {
		return Holding{}, err
	}
	if h.Amount != 1 {
		return Holding{}, fmt.Errorf("%w: balance %d", ErrMissingTokenOwner, h.Amount)
	}
	return h, nil
}

// CheckCanonicalHolding checks that the holding exists, is canonical for
// owner and holds the asset. The balance is not checked.
func CheckCanonicalHolding(l Ledger, holding, owner, asset Address) (Holding, error) {
	if expected := l.HoldingAddress(owner, asset); !expected.Equals(holding) {
		return Holding{}, fmt.Errorf("%w: holding %s is not canonical for owner %s",
			ErrAddressMismatch, EncodeAddress(holding), EncodeAddress(owner))
	}

	h, err := l.Holding(holding)
	if err != nil {
		return Holding{}, fmt.Errorf("holding: %w", err)
	}
	if !h.Owner.Equals(owner) {
		return Holding{}, fmt.Errorf("holding owner: %w", ErrIdentityMismatch)
	}
	if !h.Asset.Equals(asset) {
		return Holding{}, fmt.Errorf("holding asset: %w", ErrMintMismatch)
	}

	return h, nil
}

// SplitFee returns marketplace fee and the seller's part of the price.
func SplitFee(price uint64) (fee, rest uint64) {
	fee = price / MarketplaceFeeDivisor
	return fee, price - fee
}

// MulU64 multiplies a and b failing with ErrOverflow.
func MulU64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return lo, nil
}

// AddU64 adds a and b failing with ErrOverflow.
func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}
