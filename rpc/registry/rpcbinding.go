// Package registry contains client wrappers for the neighborhood registry
// program.
package registry

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/token"
	"github.com/extend-xyz/spacegrid/registry"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Invoker is used by ContractReader to read program records.
type Invoker interface {
	Record(addr common.Address) (common.Record, error)
}

// Actor is used by Contract to send transactions.
type Actor interface {
	Invoker
	Send(signers []common.Address, ins ...common.Instruction) error
}

// Coords are coordinates of a neighborhood or a space.
type Coords struct {
	X, Y int64
}

// ContractReader implements safe registry methods.
type ContractReader struct {
	invoker Invoker
	program common.Address
	base    common.Address
}

// Contract implements all registry methods.
type Contract struct {
	ContractReader
	actor Actor
	cfg   registry.Config
	token common.Address
}

// NewReader creates an instance of ContractReader for the world rooted at
// base.
func NewReader(invoker Invoker, program, base common.Address) *ContractReader {
	return &ContractReader{invoker: invoker, program: program, base: base}
}

// New creates an instance of Contract. Holding addresses are derived under
// tokenProgram.
func New(actor Actor, cfg registry.Config, tokenProgram, base common.Address) *Contract {
	return &Contract{
		ContractReader: *NewReader(actor, cfg.Program, base),
		actor:          actor,
		cfg:            cfg,
		token:          tokenProgram,
	}
}

func discover(program common.Address, seeds [][]byte) (common.Address, error) {
	addr, _, err := common.DiscoverAddress(program, seeds...)
	return addr, err
}

func (c *ContractReader) read(addr common.Address, v io.Serializable) error {
	rec, err := c.invoker.Record(addr)
	if err != nil {
		return err
	}
	if !rec.Owner.Equals(c.program) {
		return fmt.Errorf("%w: %s", common.ErrIncorrectOwner, common.EncodeAddress(addr))
	}
	return common.DecodeRecord(rec.Data, v)
}

// Base returns the base record.
func (c *ContractReader) Base() (registry.Base, error) {
	var b registry.Base
	return b, c.read(c.base, &b)
}

// NeighborhoodListAddress returns address of the neighborhood list.
func (c *ContractReader) NeighborhoodListAddress() (common.Address, error) {
	return discover(c.program, registry.NeighborhoodListSeeds(c.base))
}

// Neighborhoods returns coordinates of all neighborhoods in creation order.
func (c *ContractReader) Neighborhoods() ([]Coords, error) {
	addr, err := c.NeighborhoodListAddress()
	if err != nil {
		return nil, err
	}
	var l registry.NeighborhoodList
	if err := c.read(addr, &l); err != nil {
		return nil, fmt.Errorf("neighborhood list: %w", err)
	}

	res := make([]Coords, l.Len())
	for i := range res {
		res[i] = Coords{X: l.Xs[i], Y: l.Ys[i]}
	}
	return res, nil
}

// NeighborhoodMetadataAddress returns address of the neighborhood metadata.
func (c *ContractReader) NeighborhoodMetadataAddress(nx, ny int64) (common.Address, error) {
	return discover(c.program, registry.NeighborhoodMetadataSeeds(c.base, nx, ny))
}

// NeighborhoodMetadata returns metadata of the neighborhood.
func (c *ContractReader) NeighborhoodMetadata(nx, ny int64) (registry.NeighborhoodMetadata, error) {
	var m registry.NeighborhoodMetadata
	addr, err := c.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return m, err
	}
	return m, c.read(addr, &m)
}

// SpaceMetadataAddress returns address of the space metadata.
func (c *ContractReader) SpaceMetadataAddress(x, y int64) (common.Address, error) {
	return discover(c.program, registry.SpaceMetadataSeeds(c.base, x, y))
}

// SpaceMetadata returns metadata of the space.
func (c *ContractReader) SpaceMetadata(x, y int64) (registry.SpaceMetadata, error) {
	var m registry.SpaceMetadata
	addr, err := c.SpaceMetadataAddress(x, y)
	if err != nil {
		return m, err
	}
	return m, c.read(addr, &m)
}

// SellDelegate returns the marketplace delegate of the base.
func (c *ContractReader) SellDelegate() (common.Address, error) {
	return discover(c.program, registry.SellDelegateSeeds(c.base))
}

// VoucherMint returns the voucher asset of the neighborhood.
func (c *ContractReader) VoucherMint(nx, ny int64) (common.Address, error) {
	return discover(c.program, registry.VoucherMintSeeds(c.base, nx, ny))
}

// VoucherSink returns the voucher sink holding of the neighborhood.
func (c *ContractReader) VoucherSink(nx, ny int64) (common.Address, error) {
	return discover(c.program, registry.VoucherSinkSeeds(c.base, nx, ny))
}

func (c *Contract) holding(owner, asset common.Address) common.Address {
	return token.HoldingAddress(c.token, owner, asset)
}

func (c *Contract) instruction(tag byte, args io.Serializable, records ...common.Address) (common.Instruction, error) {
	data, err := common.EncodeInstruction(tag, args)
	if err != nil {
		return common.Instruction{}, err
	}
	return common.Instruction{Program: c.cfg.Program, Records: records, Data: data}, nil
}

// InitBaseInstruction creates instruction initializing the base. Both base
// and payer must sign it.
func (c *Contract) InitBaseInstruction(payer common.Address) (common.Instruction, error) {
	list, err := c.NeighborhoodListAddress()
	if err != nil {
		return common.Instruction{}, err
	}
	return c.instruction(registry.TagInitBase, &common.NoArgs{}, c.base, list, payer)
}

// InitBase initializes the base with payer as its authority.
func (c *Contract) InitBase(payer common.Address) error {
	ins, err := c.InitBaseInstruction(payer)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{c.base, payer}, ins)
}

// NeighborhoodParams are parameters of the new neighborhood.
type NeighborhoodParams struct {
	X, Y             int64
	Price            uint64
	Name             string
	BatchMintConfig  common.Address
	BatchMintAccount common.Address
}

// InitNeighborhoodInstruction creates instruction registering the
// neighborhood. Creator must sign it.
func (c *Contract) InitNeighborhoodInstruction(creator common.Address, p NeighborhoodParams) (common.Instruction, error) {
	meta, err := c.NeighborhoodMetadataAddress(p.X, p.Y)
	if err != nil {
		return common.Instruction{}, err
	}
	list, err := c.NeighborhoodListAddress()
	if err != nil {
		return common.Instruction{}, err
	}

	return c.instruction(registry.TagInitNeighborhood, &registry.InitNeighborhoodArgs{
		X:     p.X,
		Y:     p.Y,
		Price: p.Price,
		Name:  registry.NameFromString(p.Name),
	}, c.base, meta, list, p.BatchMintConfig, p.BatchMintAccount, creator, c.holding(creator, c.cfg.PaymentAsset))
}

// InitNeighborhood registers the neighborhood.
func (c *Contract) InitNeighborhood(creator common.Address, p NeighborhoodParams) error {
	ins, err := c.InitNeighborhoodInstruction(creator, p)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{creator}, ins)
}

// InitSpaceInstruction creates instruction binding the asset to the space.
// Owner must sign it.
func (c *Contract) InitSpaceInstruction(owner common.Address, x, y int64, mint common.Address) (common.Instruction, error) {
	assetMeta, err := common.AssetMetadataAddress(c.cfg.MetadataProgram, mint)
	if err != nil {
		return common.Instruction{}, err
	}
	space, err := c.SpaceMetadataAddress(x, y)
	if err != nil {
		return common.Instruction{}, err
	}
	nx, ny := common.NeighborhoodOf(x, y)
	nbhd, err := c.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}

	return c.instruction(registry.TagInitSpace, &registry.CoordsArgs{X: x, Y: y},
		c.base, assetMeta, space, mint, nbhd, owner, c.holding(owner, mint))
}

// InitSpace binds the asset to the space.
func (c *Contract) InitSpace(owner common.Address, x, y int64, mint common.Address) error {
	ins, err := c.InitSpaceInstruction(owner, x, y, mint)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{owner}, ins)
}

// ChangeOfferInstruction creates instruction listing or delisting the space.
// Owner must sign it.
func (c *Contract) ChangeOfferInstruction(owner common.Address, x, y int64, price uint64, create bool) (common.Instruction, error) {
	spaceAddr, err := c.SpaceMetadataAddress(x, y)
	if err != nil {
		return common.Instruction{}, err
	}
	space, err := c.SpaceMetadata(x, y)
	if err != nil {
		return common.Instruction{}, fmt.Errorf("space metadata: %w", err)
	}
	delegate, err := c.SellDelegate()
	if err != nil {
		return common.Instruction{}, err
	}

	return c.instruction(registry.TagChangeOffer, &registry.ChangeOfferArgs{X: x, Y: y, Price: price, Create: create},
		c.base, spaceAddr, owner, c.holding(owner, space.Mint), delegate)
}

// ChangeOffer lists (create) or delists the space.
func (c *Contract) ChangeOffer(owner common.Address, x, y int64, price uint64, create bool) error {
	ins, err := c.ChangeOfferInstruction(owner, x, y, price, create)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{owner}, ins)
}

// AcceptOfferInstruction creates instruction buying the space. Buyer must
// sign it.
func (c *Contract) AcceptOfferInstruction(buyer, seller common.Address, x, y int64, price uint64) (common.Instruction, error) {
	spaceAddr, err := c.SpaceMetadataAddress(x, y)
	if err != nil {
		return common.Instruction{}, err
	}
	space, err := c.SpaceMetadata(x, y)
	if err != nil {
		return common.Instruction{}, fmt.Errorf("space metadata: %w", err)
	}
	nx, ny := common.NeighborhoodOf(x, y)
	nbhdAddr, err := c.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	nbhd, err := c.NeighborhoodMetadata(nx, ny)
	if err != nil {
		return common.Instruction{}, fmt.Errorf("neighborhood metadata: %w", err)
	}
	delegate, err := c.SellDelegate()
	if err != nil {
		return common.Instruction{}, err
	}

	return c.instruction(registry.TagAcceptOffer, &registry.AcceptOfferArgs{X: x, Y: y, Price: price},
		c.base, nbhdAddr, nbhd.Creator, spaceAddr, space.Mint,
		buyer, c.holding(buyer, space.Mint), seller, c.holding(seller, space.Mint), delegate)
}

// AcceptOffer buys the space from seller.
func (c *Contract) AcceptOffer(buyer, seller common.Address, x, y int64, price uint64) error {
	ins, err := c.AcceptOfferInstruction(buyer, seller, x, y, price)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{buyer}, ins)
}

// InitVoucherSystemInstruction creates instruction issuing vouchers of the
// neighborhood. Creator and mint authority must sign it.
func (c *Contract) InitVoucherSystemInstruction(creator, mintAuthority common.Address, nx, ny int64) (common.Instruction, error) {
	nbhd, err := c.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	mint, err := c.VoucherMint(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	sink, err := c.VoucherSink(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}

	return c.instruction(registry.TagInitVoucherSystem, &registry.CoordsArgs{X: nx, Y: ny},
		c.base, nbhd, creator, mintAuthority, mint, c.holding(mintAuthority, mint), sink)
}

// InitVoucherSystem issues vouchers of the neighborhood.
func (c *Contract) InitVoucherSystem(creator, mintAuthority common.Address, nx, ny int64) error {
	ins, err := c.InitVoucherSystemInstruction(creator, mintAuthority, nx, ny)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{creator, mintAuthority}, ins)
}

// RevokeAuthorityPrivileges ends privileges of the base authority.
func (c *Contract) RevokeAuthorityPrivileges(authority common.Address) error {
	ins, err := c.instruction(registry.TagRevokeAuthorityPrivileges, &common.NoArgs{}, c.base, authority)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{authority}, ins)
}

// UpdateAuthority hands base authority over to next.
func (c *Contract) UpdateAuthority(current, next common.Address) error {
	ins, err := c.instruction(registry.TagUpdateAuthority, &common.NoArgs{}, c.base, current, next)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{current}, ins)
}

// ChangeNeighborhoodName renames the neighborhood.
func (c *Contract) ChangeNeighborhoodName(creator common.Address, nx, ny int64, name string) error {
	meta, err := c.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return err
	}
	ins, err := c.instruction(registry.TagChangeNeighborhoodName, &registry.ChangeNameArgs{
		X:    nx,
		Y:    ny,
		Name: registry.NameFromString(name),
	}, c.base, meta, creator)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{creator}, ins)
}
