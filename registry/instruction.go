package registry

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Operation tags of the registry program.
const (
	TagInitBase byte = iota
	TagInitNeighborhood
	TagInitSpace
	TagChangeOffer
	TagAcceptOffer
	TagInitVoucherSystem
	TagRevokeAuthorityPrivileges
	TagUpdateAuthority
	TagChangeNeighborhoodName
)

// CoordsArgs carries coordinates of a space or a neighborhood.
type CoordsArgs struct {
	X int64
	Y int64
}

// EncodeBinary implements io.Serializable.
func (a *CoordsArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
}

// DecodeBinary implements io.Serializable.
func (a *CoordsArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
}

// InitNeighborhoodArgs are arguments of InitNeighborhood.
type InitNeighborhoodArgs struct {
	X     int64
	Y     int64
	Price uint64
	Name  [NameSize]byte
}

// EncodeBinary implements io.Serializable.
func (a *InitNeighborhoodArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Price)
	w.WriteBytes(a.Name[:])
}

// DecodeBinary implements io.Serializable.
func (a *InitNeighborhoodArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
	r.ReadBytes(a.Name[:])
}

// ChangeOfferArgs are arguments of ChangeOffer.
type ChangeOfferArgs struct {
	X      int64
	Y      int64
	Price  uint64
	Create bool
}

// EncodeBinary implements io.Serializable.
func (a *ChangeOfferArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Price)
	w.WriteBool(a.Create)
}

// DecodeBinary implements io.Serializable.
func (a *ChangeOfferArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
	a.Create = r.ReadBool()
}

// AcceptOfferArgs are arguments of AcceptOffer.
type AcceptOfferArgs struct {
	X     int64
	Y     int64
	Price uint64
}

// EncodeBinary implements io.Serializable.
func (a *AcceptOfferArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteU64LE(a.Price)
}

// DecodeBinary implements io.Serializable.
func (a *AcceptOfferArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	a.Price = r.ReadU64LE()
}

// ChangeNameArgs are arguments of ChangeNeighborhoodName.
type ChangeNameArgs struct {
	X    int64
	Y    int64
	Name [NameSize]byte
}

// EncodeBinary implements io.Serializable.
func (a *ChangeNameArgs) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.X))
	w.WriteU64LE(uint64(a.Y))
	w.WriteBytes(a.Name[:])
}

// DecodeBinary implements io.Serializable.
func (a *ChangeNameArgs) DecodeBinary(r *io.BinReader) {
	a.X = int64(r.ReadU64LE())
	a.Y = int64(r.ReadU64LE())
	r.ReadBytes(a.Name[:])
}

// Process implements common.Handler. Record order of every operation is
// documented on the corresponding *Records structure.
func (c *Contract) Process(env *common.Env, records []common.Address, data []byte) error {
	tag, args, err := common.SplitTag(data)
	if err != nil {
		return err
	}

	switch tag {
	case TagInitBase:
		env.Log("Instruction: InitBase")
		var rs InitBaseRecords
		if err := decode(records, args, &common.NoArgs{}, &rs.Base, &rs.NeighborhoodList, &rs.Payer); err != nil {
			return err
		}
		return c.InitBase(env, rs)

	case TagInitNeighborhood:
		env.Log("Instruction: InitNeighborhood")
		var (
			rs InitNeighborhoodRecords
			a  InitNeighborhoodArgs
		)
		if err := decode(records, args, &a, &rs.Base, &rs.NeighborhoodMetadata, &rs.NeighborhoodList,
			&rs.BatchMintConfig, &rs.BatchMintAccount, &rs.Creator, &rs.CreatorPaymentHolding); err != nil {
			return err
		}
		return c.InitNeighborhood(env, rs, a)

	case TagInitSpace:
		env.Log("Instruction: InitSpace")
		var (
			rs InitSpaceRecords
			a  CoordsArgs
		)
		if err := decode(records, args, &a, &rs.Base, &rs.AssetMetadata, &rs.SpaceMetadata, &rs.Mint,
			&rs.NeighborhoodMetadata, &rs.Owner, &rs.OwnerHolding); err != nil {
			return err
		}
		return c.InitSpace(env, rs, a.X, a.Y)

	case TagChangeOffer:
		env.Log("Instruction: ChangeOffer")
		var (
			rs ChangeOfferRecords
			a  ChangeOfferArgs
		)
		if err := decode(records, args, &a, &rs.Base, &rs.SpaceMetadata, &rs.Owner, &rs.OwnerHolding,
			&rs.SellDelegate); err != nil {
			return err
		}
		return c.ChangeOffer(env, rs, a)

	case TagAcceptOffer:
		env.Log("Instruction: AcceptOffer")
		var (
			rs AcceptOfferRecords
			a  AcceptOfferArgs
		)
		if err := decode(records, args, &a, &rs.Base, &rs.NeighborhoodMetadata, &rs.NeighborhoodCreator,
			&rs.SpaceMetadata, &rs.Mint, &rs.Buyer, &rs.BuyerHolding, &rs.Seller, &rs.SellerHolding,
			&rs.SellDelegate); err != nil {
			return err
		}
		return c.AcceptOffer(env, rs, a)

	case TagInitVoucherSystem:
		env.Log("Instruction: InitVoucherSystem")
		var (
			rs InitVoucherRecords
			a  CoordsArgs
		)
		if err := decode(records, args, &a, &rs.Base, &rs.NeighborhoodMetadata, &rs.Creator,
			&rs.MintAuthority, &rs.VoucherMint, &rs.SourceHolding, &rs.SinkHolding); err != nil {
			return err
		}
		return c.InitVoucherSystem(env, rs, a.X, a.Y)

	case TagRevokeAuthorityPrivileges:
		env.Log("Instruction: RevokeAuthorityPrivileges")
		var base, revoker common.Address
		if err := decode(records, args, &common.NoArgs{}, &base, &revoker); err != nil {
			return err
		}
		return c.RevokeAuthorityPrivileges(env, base, revoker)

	case TagUpdateAuthority:
		env.Log("Instruction: UpdateAuthority")
		var base, current, next common.Address
		if err := decode(records, args, &common.NoArgs{}, &base, &current, &next); err != nil {
			return err
		}
		return c.UpdateAuthority(env, base, current, next)

	case TagChangeNeighborhoodName:
		env.Log("Instruction: ChangeNeighborhoodName")
		var (
			base, meta, creator common.Address
			a                   ChangeNameArgs
		)
		if err := decode(records, args, &a, &base, &meta, &creator); err != nil {
			return err
		}
		return c.ChangeNeighborhoodName(env, base, meta, creator, a)

	default:
		return fmt.Errorf("%w: unknown registry tag %d", common.ErrInvalidInstruction, tag)
	}
}

func decode(records []common.Address, data []byte, args io.Serializable, dst ...*common.Address) error {
	if err := common.DecodeArgs(data, args); err != nil {
		return err
	}
	return common.BindRecords(records, dst...)
}
