package canvas

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/registry"
)

// Config groups identities the canvas program depends on.
type Config struct {
	Program common.Address
	// RegistryProgram is the authority neighborhood and space metadata are
	// derived under.
	RegistryProgram common.Address
}

// Contract is the canvas program.
type Contract struct {
	cfg Config
}

// New returns canvas program configured with the given identities.
func New(cfg Config) *Contract {
	return &Contract{cfg: cfg}
}

// InitFrameRecords are records of InitFrame in the wire order.
type InitFrameRecords struct {
	Base                 common.Address
	Block                common.Address
	FrameBase            common.Address
	FramePointer         common.Address
	NeighborhoodMetadata common.Address
	Payer                common.Address
}

// InitFrame appends a new frame to the neighborhood canvas. The block must be
// allocated beforehand with BlockSize bytes and owned by the canvas program.
func (c *Contract) InitFrame(env *common.Env, rs InitFrameRecords, nx, ny int64) error {
	if err := common.CheckWitness(env, rs.Payer); err != nil {
		return fmt.Errorf("payer: %w", err)
	}

	if _, err := registry.LoadNeighborhoodMetadata(env, c.cfg.RegistryProgram, rs.Base,
		rs.NeighborhoodMetadata, nx, ny); err != nil {
		return err
	}

	fb, err := c.loadOrCreateFrameBase(env, rs.Base, rs.FrameBase, nx, ny)
	if err != nil {
		return err
	}
	if fb.Frames >= MaxFrames {
		return fmt.Errorf("%w: neighborhood has %d frames", common.ErrCapacityExceeded, fb.Frames)
	}

	disambig, err := common.DiscoverAndVerify(rs.FramePointer, c.cfg.Program,
		FramePointerSeeds(rs.Base, nx, ny, fb.Frames)...)
	if err != nil {
		return fmt.Errorf("frame pointer: %w", err)
	}

	data, err := common.LoadRecord(env, rs.Block, c.cfg.Program)
	if err != nil {
		return fmt.Errorf("canvas block: %w", err)
	}
	block, err := DecodeBlock(data)
	if err != nil {
		return fmt.Errorf("canvas block: %w", err)
	}
	if block.Initialized {
		return fmt.Errorf("canvas block: %w", common.ErrAlreadyInitialized)
	}

	fp := FramePointer{Disambig: disambig, Block: rs.Block}
	if err := common.CreateRecord(env, rs.FramePointer, FramePointerReserve, &fp); err != nil {
		return fmt.Errorf("create frame pointer: %w", err)
	}

	stampBlock(data, nx, ny)
	if err := env.Store.WriteRecord(rs.Block, data); err != nil {
		return fmt.Errorf("canvas block: %w", err)
	}

	frame := fb.Frames
	fb.Frames++
	if err := common.PutRecord(env, rs.FrameBase, &fb); err != nil {
		return fmt.Errorf("frame base: %w", err)
	}

	env.Logf("frame %d of neighborhood (%d, %d) initialized", frame, nx, ny)
	return nil
}

func (c *Contract) loadOrCreateFrameBase(env *common.Env, base, addr common.Address, nx, ny int64) (FrameBase, error) {
	seeds := FrameBaseSeeds(base, nx, ny)

	data, st, err := common.LoadSlot(env, addr, c.cfg.Program)
	if err != nil {
		return FrameBase{}, fmt.Errorf("frame base: %w", err)
	}

	var fb FrameBase
	switch st {
	case common.Uninitialized:
		if fb.Disambig, err = common.DiscoverAndVerify(addr, c.cfg.Program, seeds...); err != nil {
			return FrameBase{}, fmt.Errorf("frame base: %w", err)
		}
		if err := common.CreateRecord(env, addr, FrameBaseReserve, &fb); err != nil {
			return FrameBase{}, fmt.Errorf("create frame base: %w", err)
		}
	case common.Initialized:
		if err := common.DecodeRecord(data, &fb); err != nil {
			return FrameBase{}, fmt.Errorf("frame base: %w", err)
		}
		if err := common.VerifyAddress(addr, c.cfg.Program, fb.Disambig, seeds...); err != nil {
			return FrameBase{}, fmt.Errorf("frame base: %w", err)
		}
	}

	return fb, nil
}

// ChangeColorRecords are records of ChangeColor in the wire order.
type ChangeColorRecords struct {
	Base                 common.Address
	Block                common.Address
	FrameBase            common.Address
	FramePointer         common.Address
	NeighborhoodMetadata common.Address
	SpaceMetadata        common.Address
	Owner                common.Address
	OwnerHolding         common.Address
}

// ChangeColor paints the space cell of the frame. Only the holder of the
// space asset may do it.
func (c *Contract) ChangeColor(env *common.Env, rs ChangeColorRecords, args ChangeColorArgs) error {
	if err := common.CheckWitness(env, rs.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}

	nx, ny := common.NeighborhoodOf(args.X, args.Y)

	var fb FrameBase
	if err := common.GetRecord(env, rs.FrameBase, c.cfg.Program, &fb); err != nil {
		return fmt.Errorf("frame base: %w", err)
	}
	if err := common.VerifyAddress(rs.FrameBase, c.cfg.Program, fb.Disambig, FrameBaseSeeds(rs.Base, nx, ny)...); err != nil {
		return fmt.Errorf("frame base: %w", err)
	}

	var fp FramePointer
	if err := common.GetRecord(env, rs.FramePointer, c.cfg.Program, &fp); err != nil {
		return fmt.Errorf("frame pointer: %w", err)
	}
	if err := common.VerifyAddress(rs.FramePointer, c.cfg.Program, fp.Disambig,
		FramePointerSeeds(rs.Base, nx, ny, args.Frame)...); err != nil {
		return fmt.Errorf("frame pointer: %w", err)
	}

	if _, err := registry.LoadNeighborhoodMetadata(env, c.cfg.RegistryProgram, rs.Base,
		rs.NeighborhoodMetadata, nx, ny); err != nil {
		return err
	}
	space, err := registry.LoadSpaceMetadata(env, c.cfg.RegistryProgram, rs.Base, rs.SpaceMetadata, args.X, args.Y)
	if err != nil {
		return err
	}

	if _, err := common.CheckCustody(env.Ledger, rs.OwnerHolding, rs.Owner, space.Mint); err != nil {
		return fmt.Errorf("owner holding: %w", err)
	}

	if args.Frame >= fb.Frames {
		return fmt.Errorf("%w: frame %d of %d", common.ErrFrameOutOfRange, args.Frame, fb.Frames)
	}
	if !fp.Block.Equals(rs.Block) {
		return fmt.Errorf("canvas block: %w", common.ErrAddressMismatch)
	}

	data, err := common.LoadRecord(env, rs.Block, c.cfg.Program)
	if err != nil {
		return fmt.Errorf("canvas block: %w", err)
	}
	if len(data) != BlockSize {
		return fmt.Errorf("%w: canvas block is %d bytes long", common.ErrInvalidRecordData, len(data))
	}

	off := CellOffset(args.X, args.Y)
	data[off], data[off+1], data[off+2] = args.R, args.G, args.B
	if err := env.Store.WriteRecord(rs.Block, data); err != nil {
		return fmt.Errorf("canvas block: %w", err)
	}

	env.Logf("space (%d, %d) of frame %d painted #%02x%02x%02x", args.X, args.Y, args.Frame, args.R, args.G, args.B)
	return nil
}
