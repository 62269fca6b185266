package registry

import (
	"errors"
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
)

// Config groups identities the registry depends on.
type Config struct {
	// Program is the identity of the registry itself. Every record it
	// creates is derived under it.
	Program common.Address
	// PaymentAsset is the asset class burned on neighborhood creation.
	PaymentAsset common.Address
	// MetadataProgram keeps external asset metadata records.
	MetadataProgram common.Address
}

// Contract is the neighborhood registry program.
type Contract struct {
	cfg Config
}

// New returns registry program configured with the given identities.
func New(cfg Config) *Contract {
	return &Contract{cfg: cfg}
}

// Config returns configuration of the program.
func (c *Contract) Config() Config {
	return c.cfg
}

// InitBaseRecords are records of InitBase in the wire order.
type InitBaseRecords struct {
	Base             common.Address
	NeighborhoodList common.Address
	Payer            common.Address
}

// InitBase creates the base and its empty neighborhood list. Payer becomes
// base authority with privileges.
func (c *Contract) InitBase(env *common.Env, rs InitBaseRecords) error {
	if err := common.CheckWitness(env, rs.Base); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if err := common.CheckWitness(env, rs.Payer); err != nil {
		return fmt.Errorf("payer: %w", err)
	}

	disambig, err := common.DiscoverAndVerify(rs.NeighborhoodList, c.cfg.Program, NeighborhoodListSeeds(rs.Base)...)
	if err != nil {
		return fmt.Errorf("neighborhood list: %w", err)
	}

	base := Base{
		Authority:           rs.Payer,
		AuthorityPrivileges: true,
	}
	if err := common.CreateRecord(env, rs.Base, BaseReserve, &base); err != nil {
		return fmt.Errorf("create base: %w", err)
	}

	list := NeighborhoodList{Disambig: disambig}
	if err := common.CreateRecord(env, rs.NeighborhoodList, NeighborhoodListReserve, &list); err != nil {
		return fmt.Errorf("create neighborhood list: %w", err)
	}

	env.Logf("base %s created, authority %s", common.EncodeAddress(rs.Base), common.EncodeAddress(rs.Payer))
	return nil
}

// InitNeighborhoodRecords are records of InitNeighborhood in the wire order.
type InitNeighborhoodRecords struct {
	Base                  common.Address
	NeighborhoodMetadata  common.Address
	NeighborhoodList      common.Address
	BatchMintConfig       common.Address
	BatchMintAccount      common.Address
	Creator               common.Address
	CreatorPaymentHolding common.Address
}

// InitNeighborhood registers a new neighborhood. Creators other than the
// privileged base authority pay the creation price in the payment asset and
// must be the authority of the batch-mint config.
func (c *Contract) InitNeighborhood(env *common.Env, rs InitNeighborhoodRecords, args InitNeighborhoodArgs) error {
	if err := common.CheckWitness(env, rs.Creator); err != nil {
		return fmt.Errorf("creator: %w", err)
	}

	disambig, err := common.DiscoverAndVerify(rs.NeighborhoodMetadata, c.cfg.Program,
		NeighborhoodMetadataSeeds(rs.Base, args.X, args.Y)...)
	if err != nil {
		return fmt.Errorf("neighborhood metadata: %w", err)
	}

	list, err := LoadNeighborhoodList(env, c.cfg.Program, rs.Base, rs.NeighborhoodList)
	if err != nil {
		return err
	}

	base, err := LoadBase(env, c.cfg.Program, rs.Base)
	if err != nil {
		return err
	}

	cfgRecord, err := env.Store.Record(rs.BatchMintConfig)
	if err != nil {
		return fmt.Errorf("batch-mint config: %w", err)
	}
	mintCfg, err := common.ParseBatchMintConfig(cfgRecord.Data)
	if err != nil {
		return fmt.Errorf("batch-mint config: %w", err)
	}
	sx, sy, err := common.ParseNameCoords(mintCfg.FirstName)
	if err != nil {
		return fmt.Errorf("batch-mint config: %w", err)
	}
	if nx, ny := common.NeighborhoodOf(sx, sy); nx != args.X || ny != args.Y {
		return fmt.Errorf("%w: batch-mint config describes neighborhood (%d, %d)",
			common.ErrCoordinatesMismatch, nx, ny)
	}

	if !base.Privileged(rs.Creator) {
		if err := c.chargeCreation(env, rs, args); err != nil {
			return err
		}
		if err := common.AssertEqual(mintCfg.Authority, rs.Creator); err != nil {
			return fmt.Errorf("batch-mint authority: %w", err)
		}
	}

	if _, err := env.Store.Record(rs.BatchMintAccount); err == nil {
		return fmt.Errorf("batch-mint account: %w", common.ErrAlreadyInitialized)
	} else if !errors.Is(err, common.ErrUninitialized) {
		return fmt.Errorf("batch-mint account: %w", err)
	}

	if list.Len() >= MaxNeighborhoods {
		return fmt.Errorf("%w: base holds %d neighborhoods", common.ErrCapacityExceeded, list.Len())
	}

	meta := NeighborhoodMetadata{
		Disambig:         disambig,
		Creator:          rs.Creator,
		BatchMintConfig:  rs.BatchMintConfig,
		BatchMintAccount: rs.BatchMintAccount,
		Name:             args.Name,
	}
	if err := common.CreateRecord(env, rs.NeighborhoodMetadata, NeighborhoodMetadataReserve, &meta); err != nil {
		return fmt.Errorf("create neighborhood metadata: %w", err)
	}

	list.Xs = append(list.Xs, args.X)
	list.Ys = append(list.Ys, args.Y)
	if err := common.PutRecord(env, rs.NeighborhoodList, &list); err != nil {
		return fmt.Errorf("neighborhood list: %w", err)
	}

	base.NeighborhoodCount++
	if err := common.PutRecord(env, rs.Base, &base); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	env.Logf("neighborhood (%d, %d) %q created by %s", args.X, args.Y, meta.NameString(),
		common.EncodeAddress(rs.Creator))
	return nil
}

func (c *Contract) chargeCreation(env *common.Env, rs InitNeighborhoodRecords, args InitNeighborhoodArgs) error {
	if _, err := common.CheckCanonicalHolding(env.Ledger, rs.CreatorPaymentHolding, rs.Creator, c.cfg.PaymentAsset); err != nil {
		return fmt.Errorf("payment holding: %w", err)
	}

	price, err := common.CreationPrice(args.X, args.Y)
	if err != nil {
		return fmt.Errorf("creation price of (%d, %d): %w", args.X, args.Y, err)
	}
	if args.Price != price {
		return fmt.Errorf("%w: neighborhood costs %d, declared %d", common.ErrPriceMismatch, price, args.Price)
	}

	if err := env.Ledger.Burn(rs.CreatorPaymentHolding, c.cfg.PaymentAsset, rs.Creator, args.Price); err != nil {
		return fmt.Errorf("burn creation price: %w", err)
	}
	return nil
}

// InitSpaceRecords are records of InitSpace in the wire order.
type InitSpaceRecords struct {
	Base                 common.Address
	AssetMetadata        common.Address
	SpaceMetadata        common.Address
	Mint                 common.Address
	NeighborhoodMetadata common.Address
	Owner                common.Address
	OwnerHolding         common.Address
}

// InitSpace binds the unique asset to the space at (x, y). The asset must be
// minted by the neighborhood's batch-mint account and held by the owner.
func (c *Contract) InitSpace(env *common.Env, rs InitSpaceRecords, x, y int64) error {
	if err := common.CheckWitness(env, rs.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}

	if _, err := LoadBase(env, c.cfg.Program, rs.Base); err != nil {
		return err
	}

	nx, ny := common.NeighborhoodOf(x, y)
	nbhd, err := LoadNeighborhoodMetadata(env, c.cfg.Program, rs.Base, rs.NeighborhoodMetadata, nx, ny)
	if err != nil {
		return err
	}

	disambig, err := common.DiscoverAndVerify(rs.SpaceMetadata, c.cfg.Program, SpaceMetadataSeeds(rs.Base, x, y)...)
	if err != nil {
		return fmt.Errorf("space metadata: %w", err)
	}

	if _, err := common.CheckCustody(env.Ledger, rs.OwnerHolding, rs.Owner, rs.Mint); err != nil {
		return fmt.Errorf("owner holding: %w", err)
	}

	md, err := common.LoadAssetMetadata(env, c.cfg.MetadataProgram, rs.AssetMetadata, rs.Mint)
	if err != nil {
		return err
	}

	mx, my, err := common.ParseNameCoords(md.Name)
	if err != nil {
		return fmt.Errorf("asset name: %w", err)
	}
	if mx != x || my != y {
		return fmt.Errorf("%w: asset is space (%d, %d)", common.ErrCoordinatesMismatch, mx, my)
	}

	if len(md.Creators) == 0 {
		return fmt.Errorf("asset creators: %w", common.ErrCreatorNotVerified)
	}
	if err := common.AssertEqual(nbhd.BatchMintAccount, md.Creators[0].Address); err != nil {
		return fmt.Errorf("asset creator: %w", err)
	}
	if !md.Creators[0].Verified {
		return fmt.Errorf("asset creator: %w", common.ErrCreatorNotVerified)
	}

	space := SpaceMetadata{
		Disambig: disambig,
		Mint:     rs.Mint,
		X:        x,
		Y:        y,
	}
	if err := common.CreateRecord(env, rs.SpaceMetadata, SpaceMetadataReserve, &space); err != nil {
		return fmt.Errorf("create space metadata: %w", err)
	}

	env.Logf("space (%d, %d) bound to asset %s", x, y, common.EncodeAddress(rs.Mint))
	return nil
}

// RevokeAuthorityPrivileges permanently ends the privilege window of the
// base authority.
func (c *Contract) RevokeAuthorityPrivileges(env *common.Env, baseAddr, revoker common.Address) error {
	base, err := LoadBase(env, c.cfg.Program, baseAddr)
	if err != nil {
		return err
	}
	if err := common.CheckAuthority(env, base.Authority, revoker); err != nil {
		return err
	}
	if !base.AuthorityPrivileges {
		return common.ErrPrivilegesRevoked
	}

	base.AuthorityPrivileges = false
	if err := common.PutRecord(env, baseAddr, &base); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	env.Log("authority privileges revoked")
	return nil
}

// UpdateAuthority hands base authority over to next.
func (c *Contract) UpdateAuthority(env *common.Env, baseAddr, current, next common.Address) error {
	base, err := LoadBase(env, c.cfg.Program, baseAddr)
	if err != nil {
		return err
	}
	if err := common.CheckAuthority(env, base.Authority, current); err != nil {
		return err
	}

	base.Authority = next
	if err := common.PutRecord(env, baseAddr, &base); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	env.Logf("authority updated to %s", common.EncodeAddress(next))
	return nil
}

// ChangeNeighborhoodName replaces the name of the neighborhood. Only its
// creator may do it.
func (c *Contract) ChangeNeighborhoodName(env *common.Env, base, metaAddr, creator common.Address, args ChangeNameArgs) error {
	if err := common.CheckWitness(env, creator); err != nil {
		return fmt.Errorf("creator: %w", err)
	}

	meta, err := LoadNeighborhoodMetadata(env, c.cfg.Program, base, metaAddr, args.X, args.Y)
	if err != nil {
		return err
	}
	if err := common.AssertEqual(meta.Creator, creator); err != nil {
		return fmt.Errorf("creator: %w", err)
	}

	meta.Name = args.Name
	if err := common.PutRecord(env, metaAddr, &meta); err != nil {
		return fmt.Errorf("neighborhood metadata: %w", err)
	}

	env.Logf("neighborhood (%d, %d) renamed to %q", args.X, args.Y, meta.NameString())
	return nil
}
