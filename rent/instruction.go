package rent

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Operation tags of the rent program.
const (
	TagSetRent byte = iota
	TagAcceptRent
)

// SetRentArgs are arguments of SetRent.
type SetRentArgs struct {
	X            int64
	Y            int64
	Price        uint64
	MinDuration  uint64
	MaxDuration  uint64
	MaxTimestamp uint64
	Create       bool
}

// EncodeBinary implements io.Serializable.
func (a *SetRentArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Price)
	w.WriteU64LE(a.MinDuration)
	w.WriteU64LE(a.MaxDuration)
	w.WriteU64LE(a.MaxTimestamp)
	w.WriteBool(a.Create)
}

// DecodeBinary implements io.Serializable.
func (a *SetRentArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
	a.MinDuration = r.ReadU64LE()
	a.MaxDuration = r.ReadU64LE()
	a.MaxTimestamp = r.ReadU64LE()
	a.Create = r.ReadBool()
}

// AcceptRentArgs are arguments of AcceptRent.
type AcceptRentArgs struct {
	X        int64
	Y        int64
	Price    uint64
	Duration uint64
}

// EncodeBinary implements io.Serializable.
func (a *AcceptRentArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Price)
	w.WriteU64LE(a.Duration)
}

// DecodeBinary implements io.Serializable.
func (a *AcceptRentArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
	a.Duration = r.ReadU64LE()
}

// Process implements common.Handler.
func (c *Contract) Process(env *common.Env, records []common.Address, data []byte) error {
	tag, args, err := common.SplitTag(data)
	if err != nil {
		return err
	}

	switch tag {
	case TagSetRent:
		env.Log("Instruction: SetRent")
		var a SetRentArgs
		if err := common.DecodeArgs(args, &a); err != nil {
			return err
		}
		var rs SetRentRecords
		if err := common.BindRecords(records, &rs.Base, &rs.SpaceMetadata, &rs.Listing, &rs.Lessor,
			&rs.LessorHolding); err != nil {
			return err
		}
		return c.SetRent(env, rs, a)

	case TagAcceptRent:
		env.Log("Instruction: AcceptRent")
		var a AcceptRentArgs
		if err := common.DecodeArgs(args, &a); err != nil {
			return err
		}
		var rs AcceptRentRecords
		if err := common.BindRecords(records, &rs.Base, &rs.SpaceMetadata, &rs.Listing, &rs.Lessee,
			&rs.Lessor, &rs.LessorHolding); err != nil {
			return err
		}
		return c.AcceptRent(env, rs, a)

	default:
		return fmt.Errorf("%w: unknown rent tag %d", common.ErrInvalidInstruction, tag)
	}
}
