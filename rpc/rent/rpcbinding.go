// Package rent contains client wrappers for the rent program.
package rent

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/token"
	"github.com/extend-xyz/spacegrid/rent"
	rpcregistry "github.com/extend-xyz/spacegrid/rpc/registry"
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

// ContractReader implements safe rent methods.
type ContractReader struct {
	invoker  Invoker
	program  common.Address
	base     common.Address
	registry *rpcregistry.ContractReader
}

// Contract implements all rent methods.
type Contract struct {
	ContractReader
	actor Actor
	token common.Address
}

// NewReader creates an instance of ContractReader for the world rooted at
// base.
func NewReader(invoker Invoker, cfg rent.Config, base common.Address) *ContractReader {
	return &ContractReader{
		invoker:  invoker,
		program:  cfg.Program,
		base:     base,
		registry: rpcregistry.NewReader(invoker, cfg.RegistryProgram, base),
	}
}

// New creates an instance of Contract. Holding addresses are derived under
// tokenProgram.
func New(actor Actor, cfg rent.Config, tokenProgram, base common.Address) *Contract {
	return &Contract{
		ContractReader: *NewReader(actor, cfg, base),
		actor:          actor,
		token:          tokenProgram,
	}
}

// ListingAddress returns address of the rent listing of the space.
func (c *ContractReader) ListingAddress(x, y int64) (common.Address, error) {
	addr, _, err := common.DiscoverAddress(c.program, rent.ListingSeeds(c.base, x, y)...)
	return addr, err
}

// Listing returns rent listing of the space.
func (c *ContractReader) Listing(x, y int64) (rent.Listing, error) {
	addr, err := c.ListingAddress(x, y)
	if err != nil {
		return rent.Listing{}, err
	}
	rec, err := c.invoker.Record(addr)
	if err != nil {
		return rent.Listing{}, err
	}
	if !rec.Owner.Equals(c.program) {
		return rent.Listing{}, fmt.Errorf("%w: %s", common.ErrIncorrectOwner, common.EncodeAddress(addr))
	}
	var l rent.Listing
	return l, common.DecodeRecord(rec.Data, &l)
}

func (c *Contract) spaceRecords(holder common.Address, x, y int64) (space, listing, holding common.Address, err error) {
	if space, err = c.registry.SpaceMetadataAddress(x, y); err != nil {
		return
	}
	meta, err := c.registry.SpaceMetadata(x, y)
	if err != nil {
		err = fmt.Errorf("space metadata: %w", err)
		return
	}
	if listing, err = c.ListingAddress(x, y); err != nil {
		return
	}
	holding = token.HoldingAddress(c.token, holder, meta.Mint)
	return
}

// SetRentInstruction creates instruction listing (args.Create) or delisting
// the space. Lessor must sign it.
func (c *Contract) SetRentInstruction(lessor common.Address, args rent.SetRentArgs) (common.Instruction, error) {
	space, listing, holding, err := c.spaceRecords(lessor, args.X, args.Y)
	if err != nil {
		return common.Instruction{}, err
	}
	data, err := common.EncodeInstruction(rent.TagSetRent, &args)
	if err != nil {
		return common.Instruction{}, err
	}
	return common.Instruction{
		Program: c.program,
		Records: []common.Address{c.base, space, listing, lessor, holding},
		Data:    data,
	}, nil
}

// SetRent lists or delists the space.
func (c *Contract) SetRent(lessor common.Address, args rent.SetRentArgs) error {
	ins, err := c.SetRentInstruction(lessor, args)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{lessor}, ins)
}

// AcceptRentInstruction creates instruction leasing the space. Lessee must
// sign it.
func (c *Contract) AcceptRentInstruction(lessee, lessor common.Address, args rent.AcceptRentArgs) (common.Instruction, error) {
	space, listing, holding, err := c.spaceRecords(lessor, args.X, args.Y)
	if err != nil {
		return common.Instruction{}, err
	}
	data, err := common.EncodeInstruction(rent.TagAcceptRent, &args)
	if err != nil {
		return common.Instruction{}, err
	}
	return common.Instruction{
		Program: c.program,
		Records: []common.Address{c.base, space, listing, lessee, lessor, holding},
		Data:    data,
	}, nil
}

// AcceptRent leases the space.
func (c *Contract) AcceptRent(lessee, lessor common.Address, args rent.AcceptRentArgs) error {
	ins, err := c.AcceptRentInstruction(lessee, lessor, args)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{lessee}, ins)
}
