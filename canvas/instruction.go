package canvas

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Operation tags of the canvas program.
const (
	TagInitFrame byte = iota
	TagChangeColor
	TagChangeColorBrief
)

// InitFrameArgs are arguments of InitFrame.
type InitFrameArgs struct {
	X int64
	Y int64
}

// EncodeBinary implements io.Serializable.
func (a *InitFrameArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
}

// DecodeBinary implements io.Serializable.
func (a *InitFrameArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
}

// ChangeColorArgs are arguments of ChangeColor.
type ChangeColorArgs struct {
	X       int64
	Y       int64
	Frame   uint64
	R, G, B uint8
}

// EncodeBinary implements io.Serializable.
func (a *ChangeColorArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Frame)
	w.WriteB(a.R)
	w.WriteB(a.G)
	w.WriteB(a.B)
}

// DecodeBinary implements io.Serializable.
func (a *ChangeColorArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Frame = r.ReadU64LE()
	a.R = r.ReadB()
	a.G = r.ReadB()
	a.B = r.ReadB()
}

// ChangeColorBriefArgs is the compact form of ChangeColorArgs.
type ChangeColorBriefArgs struct {
	X       int16
	Y       int16
	Frame   uint8
	R, G, B uint8
}

// EncodeBinary implements io.Serializable.
func (a *ChangeColorBriefArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU16LE(uint16(a.X))
	w.WriteU16LE(uint16(a.Y))
	w.WriteB(a.Frame)
	w.WriteB(a.R)
	w.WriteB(a.G)
	w.WriteB(a.B)
}

// DecodeBinary implements io.Serializable.
func (a *ChangeColorBriefArgs) DecodeBinary(r *io.BinReader) {
	a.X = int16(r.ReadU16LE())
	a.Y = int16(r.ReadU16LE())
	a.Frame = r.ReadB()
	a.R = r.ReadB()
	a.G = r.ReadB()
	a.B = r.ReadB()
}

// Full widens brief arguments.
func (a ChangeColorBriefArgs) Full() ChangeColorArgs {
	return ChangeColorArgs{
		X:     int64(a.X),
		Y:     int64(a.Y),
		Frame: uint64(a.Frame),
		R:     a.R,
		G:     a.G,
		B:     a.B,
	}
}

// Process implements common.Handler.
func (c *Contract) Process(env *common.Env, records []common.Address, data []byte) error {
	tag, args, err := common.SplitTag(data)
	if err != nil {
		return err
	}

	switch tag {
	case TagInitFrame:
		env.Log("Instruction: InitFrame")
		var a InitFrameArgs
		if err := common.DecodeArgs(args, &a); err != nil {
			return err
		}
		var rs InitFrameRecords
		if err := common.BindRecords(records, &rs.Base, &rs.Block, &rs.FrameBase, &rs.FramePointer,
			&rs.NeighborhoodMetadata, &rs.Payer); err != nil {
			return err
		}
		return c.InitFrame(env, rs, a.X, a.Y)

	case TagChangeColor, TagChangeColorBrief:
		var a ChangeColorArgs
		if tag == TagChangeColor {
			env.Log("Instruction: ChangeColor")
			if err := common.DecodeArgs(args, &a); err != nil {
				return err
			}
		} else {
			env.Log("Instruction: ChangeColorBrief")
			var brief ChangeColorBriefArgs
			if err := common.DecodeArgs(args, &brief); err != nil {
				return err
			}
			a = brief.Full()
		}
		var rs ChangeColorRecords
		if err := common.BindRecords(records, &rs.Base, &rs.Block, &rs.FrameBase, &rs.FramePointer,
			&rs.NeighborhoodMetadata, &rs.SpaceMetadata, &rs.Owner, &rs.OwnerHolding); err != nil {
			return err
		}
		return c.ChangeColor(env, rs, a)

	default:
		return fmt.Errorf("%w: unknown canvas tag %d", common.ErrInvalidInstruction, tag)
	}
}
