// Package canvas contains client wrappers for the canvas program.
package canvas

import (
	"errors"
	"fmt"
	"math"

	"github.com/extend-xyz/spacegrid/canvas"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/token"
	rpcregistry "github.com/extend-xyz/spacegrid/rpc/registry"
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

// ContractReader implements safe canvas methods.
type ContractReader struct {
	invoker  Invoker
	program  common.Address
	base     common.Address
	registry *rpcregistry.ContractReader
}

// Contract implements all canvas methods.
type Contract struct {
	ContractReader
	actor Actor
	token common.Address
}

// NewReader creates an instance of ContractReader for the world rooted at
// base.
func NewReader(invoker Invoker, cfg canvas.Config, base common.Address) *ContractReader {
	return &ContractReader{
		invoker:  invoker,
		program:  cfg.Program,
		base:     base,
		registry: rpcregistry.NewReader(invoker, cfg.RegistryProgram, base),
	}
}

// New creates an instance of Contract. Holding addresses are derived under
// tokenProgram.
func New(actor Actor, cfg canvas.Config, tokenProgram, base common.Address) *Contract {
	return &Contract{
		ContractReader: *NewReader(actor, cfg, base),
		actor:          actor,
		token:          tokenProgram,
	}
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

// FrameBaseAddress returns address of the frame base of the neighborhood.
func (c *ContractReader) FrameBaseAddress(nx, ny int64) (common.Address, error) {
	addr, _, err := common.DiscoverAddress(c.program, canvas.FrameBaseSeeds(c.base, nx, ny)...)
	return addr, err
}

// FramePointerAddress returns address of the pointer to the frame.
func (c *ContractReader) FramePointerAddress(nx, ny int64, frame uint64) (common.Address, error) {
	addr, _, err := common.DiscoverAddress(c.program, canvas.FramePointerSeeds(c.base, nx, ny, frame)...)
	return addr, err
}

// Frames returns number of frames of the neighborhood. Neighborhoods without
// frames have no frame base, zero is returned for them.
func (c *ContractReader) Frames(nx, ny int64) (uint64, error) {
	addr, err := c.FrameBaseAddress(nx, ny)
	if err != nil {
		return 0, err
	}
	var fb canvas.FrameBase
	if err := c.read(addr, &fb); err != nil {
		if errors.Is(err, common.ErrUninitialized) {
			return 0, nil
		}
		return 0, err
	}
	return fb.Frames, nil
}

// FrameBlock returns address of the canvas block of the frame.
func (c *ContractReader) FrameBlock(nx, ny int64, frame uint64) (common.Address, error) {
	addr, err := c.FramePointerAddress(nx, ny, frame)
	if err != nil {
		return common.Address{}, err
	}
	var fp canvas.FramePointer
	if err := c.read(addr, &fp); err != nil {
		return common.Address{}, fmt.Errorf("frame pointer: %w", err)
	}
	return fp.Block, nil
}

// Frame returns decoded canvas block of the frame.
func (c *ContractReader) Frame(nx, ny int64, frame uint64) (canvas.Block, error) {
	addr, err := c.FrameBlock(nx, ny, frame)
	if err != nil {
		return canvas.Block{}, err
	}
	rec, err := c.invoker.Record(addr)
	if err != nil {
		return canvas.Block{}, fmt.Errorf("canvas block: %w", err)
	}
	return canvas.DecodeBlock(rec.Data)
}

// InitFrameInstruction creates instruction appending the block as the next
// frame of the neighborhood. Payer must sign it.
func (c *Contract) InitFrameInstruction(payer common.Address, nx, ny int64, block common.Address) (common.Instruction, error) {
	frames, err := c.Frames(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	fb, err := c.FrameBaseAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	fp, err := c.FramePointerAddress(nx, ny, frames)
	if err != nil {
		return common.Instruction{}, err
	}
	meta, err := c.registry.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}

	data, err := common.EncodeInstruction(canvas.TagInitFrame, &canvas.InitFrameArgs{X: nx, Y: ny})
	if err != nil {
		return common.Instruction{}, err
	}
	return common.Instruction{
		Program: c.program,
		Records: []common.Address{c.base, block, fb, fp, meta, payer},
		Data:    data,
	}, nil
}

// InitFrame appends the block as the next frame of the neighborhood.
func (c *Contract) InitFrame(payer common.Address, nx, ny int64, block common.Address) error {
	ins, err := c.InitFrameInstruction(payer, nx, ny, block)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{payer}, ins)
}

// ChangeColorInstruction creates instruction painting the space. The brief
// encoding is used when arguments fit it. Owner must sign it.
func (c *Contract) ChangeColorInstruction(owner common.Address, args canvas.ChangeColorArgs) (common.Instruction, error) {
	nx, ny := common.NeighborhoodOf(args.X, args.Y)

	block, err := c.FrameBlock(nx, ny, args.Frame)
	if err != nil {
		return common.Instruction{}, err
	}
	fb, err := c.FrameBaseAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	fp, err := c.FramePointerAddress(nx, ny, args.Frame)
	if err != nil {
		return common.Instruction{}, err
	}
	meta, err := c.registry.NeighborhoodMetadataAddress(nx, ny)
	if err != nil {
		return common.Instruction{}, err
	}
	spaceAddr, err := c.registry.SpaceMetadataAddress(args.X, args.Y)
	if err != nil {
		return common.Instruction{}, err
	}
	space, err := c.registry.SpaceMetadata(args.X, args.Y)
	if err != nil {
		return common.Instruction{}, fmt.Errorf("space metadata: %w", err)
	}

	var data []byte
	if fitsInt16(args.X) && fitsInt16(args.Y) && args.Frame <= math.MaxUint8 {
		data, err = common.EncodeInstruction(canvas.TagChangeColorBrief, &canvas.ChangeColorBriefArgs{
			X:     int16(args.X),
			Y:     int16(args.Y),
			Frame: uint8(args.Frame),
			R:     args.R,
			G:     args.G,
			B:     args.B,
		})
	} else {
		data, err = common.EncodeInstruction(canvas.TagChangeColor, &args)
	}
	if err != nil {
		return common.Instruction{}, err
	}

	return common.Instruction{
		Program: c.program,
		Records: []common.Address{c.base, block, fb, fp, meta, spaceAddr, owner,
			token.HoldingAddress(c.token, owner, space.Mint)},
		Data: data,
	}, nil
}

// ChangeColor paints the space.
func (c *Contract) ChangeColor(owner common.Address, args canvas.ChangeColorArgs) error {
	ins, err := c.ChangeColorInstruction(owner, args)
	if err != nil {
		return err
	}
	return c.actor.Send([]common.Address{owner}, ins)
}

func fitsInt16(v int64) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}
