package registry

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
)

// VoucherSupply is the number of voucher units issued per neighborhood, one
// per space.
const VoucherSupply = common.NeighborhoodSize * common.NeighborhoodSize

// InitVoucherRecords are records of InitVoucherSystem in the wire order.
type InitVoucherRecords struct {
	Base                 common.Address
	NeighborhoodMetadata common.Address
	Creator              common.Address
	MintAuthority        common.Address
	VoucherMint          common.Address
	SourceHolding        common.Address
	SinkHolding          common.Address
}

// InitVoucherSystem issues the voucher asset of the neighborhood: the whole
// supply goes to the mint authority, the sink holding has no owner and
// collects spent vouchers. It can be done once per neighborhood.
func (c *Contract) InitVoucherSystem(env *common.Env, rs InitVoucherRecords, nx, ny int64) error {
	if err := common.CheckWitness(env, rs.Creator); err != nil {
		return fmt.Errorf("creator: %w", err)
	}
	if err := common.CheckWitness(env, rs.MintAuthority); err != nil {
		return fmt.Errorf("mint authority: %w", err)
	}

	nbhd, err := LoadNeighborhoodMetadata(env, c.cfg.Program, rs.Base, rs.NeighborhoodMetadata, nx, ny)
	if err != nil {
		return err
	}
	if err := common.AssertEqual(nbhd.Creator, rs.Creator); err != nil {
		return fmt.Errorf("creator: %w", err)
	}

	mintSeeds := VoucherMintSeeds(rs.Base, nx, ny)
	mintDisambig, err := common.DiscoverAndVerify(rs.VoucherMint, c.cfg.Program, mintSeeds...)
	if err != nil {
		return fmt.Errorf("voucher mint: %w", err)
	}
	sinkSeeds := VoucherSinkSeeds(rs.Base, nx, ny)
	sinkDisambig, err := common.DiscoverAndVerify(rs.SinkHolding, c.cfg.Program, sinkSeeds...)
	if err != nil {
		return fmt.Errorf("voucher sink: %w", err)
	}
	if expected := env.Ledger.HoldingAddress(rs.MintAuthority, rs.VoucherMint); !expected.Equals(rs.SourceHolding) {
		return fmt.Errorf("voucher source: %w", common.ErrAddressMismatch)
	}

	if _, err := env.Witnesses.Authorize(mintDisambig, mintSeeds...); err != nil {
		return fmt.Errorf("authorize voucher mint: %w", err)
	}
	if err := env.Ledger.InitAsset(rs.VoucherMint, rs.MintAuthority, 0); err != nil {
		return fmt.Errorf("create voucher asset: %w", err)
	}
	if err := env.Ledger.InitHolding(rs.SourceHolding, rs.MintAuthority, rs.VoucherMint); err != nil {
		return fmt.Errorf("create voucher source: %w", err)
	}

	if _, err := env.Witnesses.Authorize(sinkDisambig, sinkSeeds...); err != nil {
		return fmt.Errorf("authorize voucher sink: %w", err)
	}
	if err := env.Ledger.InitHolding(rs.SinkHolding, common.Address{}, rs.VoucherMint); err != nil {
		return fmt.Errorf("create voucher sink: %w", err)
	}

	if err := env.Ledger.MintTo(rs.VoucherMint, rs.SourceHolding, rs.MintAuthority, VoucherSupply); err != nil {
		return fmt.Errorf("mint vouchers: %w", err)
	}

	env.Logf("voucher system of neighborhood (%d, %d) initialized", nx, ny)
	return nil
}
