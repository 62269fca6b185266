package registry

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Reserved record sizes. Records are allocated once, so the reserve must fit
// the record at its maximum size.
const (
	BaseReserve                 = 2048
	NeighborhoodListReserve     = 10240
	NeighborhoodMetadataReserve = 512
	SpaceMetadataReserve        = 128
)

// MaxNeighborhoods is the capacity of the neighborhood list of one base.
const MaxNeighborhoods = 8

// NameSize is the size of the neighborhood name field.
const NameSize = 64

// Derivation tags of the records kept by the registry.
var (
	neighborhoodListTag     = []byte("neighborhood_list")
	neighborhoodMetadataTag = []byte("neighborhood_metadata")
	spaceMetadataTag        = []byte("space_metadata")
	sellDelegateTag         = []byte("sell_delegate")
	voucherMintTag          = []byte("voucher_mint")
	voucherSinkTag          = []byte("voucher_sink")
)

// Base is the root record of the world. It lives at the signing identity
// which created it.
type Base struct {
	NeighborhoodCount   uint64
	Authority           common.Address
	AuthorityPrivileges bool
}

// EncodeBinary implements io.Serializable.
func (b *Base) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(b.NeighborhoodCount)
	w.WriteBytes(b.Authority.BytesBE())
	w.WriteBool(b.AuthorityPrivileges)
}

// DecodeBinary implements io.Serializable.
func (b *Base) DecodeBinary(r *io.BinReader) {
	b.NeighborhoodCount = r.ReadU64LE()
	common.ReadAddress(r, &b.Authority)
	b.AuthorityPrivileges = r.ReadBool()
}

// Privileged checks whether a is the base authority within its privilege
// window.
func (b *Base) Privileged(a common.Address) bool {
	return b.AuthorityPrivileges && b.Authority.Equals(a)
}

// NeighborhoodList is the append-only list of neighborhoods of the base.
type NeighborhoodList struct {
	Disambig byte
	Xs       []int64
	Ys       []int64
}

// EncodeBinary implements io.Serializable.
func (l *NeighborhoodList) EncodeBinary(w *io.BinWriter) {
	w.WriteB(l.Disambig)
	writeCoords(w, l.Xs)
	writeCoords(w, l.Ys)
}

// DecodeBinary implements io.Serializable.
func (l *NeighborhoodList) DecodeBinary(r *io.BinReader) {
	l.Disambig = r.ReadB()
	l.Xs = readCoords(r)
	l.Ys = readCoords(r)
	if r.Err == nil && len(l.Xs) != len(l.Ys) {
		r.Err = fmt.Errorf("coordinate lists differ in length: %d != %d", len(l.Xs), len(l.Ys))
	}
}

// Len returns number of neighborhoods in the list.
func (l *NeighborhoodList) Len() int {
	return len(l.Xs)
}

func writeCoords(w *io.BinWriter, cs []int64) {
	w.WriteU32LE(uint32(len(cs)))
	for _, c := range cs {
		w.WriteU64LE(uint64(c))
	}
}

func readCoords(r *io.BinReader) []int64 {
	n := r.ReadU32LE()
	if r.Err != nil {
		return nil
	}
	if n > MaxNeighborhoods {
		r.Err = fmt.Errorf("too many neighborhoods: %d", n)
		return nil
	}
	cs := make([]int64, n)
	for i := range cs {
		cs[i] = int64(r.ReadU64LE())
	}
	return cs
}

// NeighborhoodMetadata describes one neighborhood.
type NeighborhoodMetadata struct {
	Disambig         byte
	Creator          common.Address
	BatchMintConfig  common.Address
	BatchMintAccount common.Address
	Name             [NameSize]byte
}

// EncodeBinary implements io.Serializable.
func (m *NeighborhoodMetadata) EncodeBinary(w *io.BinWriter) {
	w.WriteB(m.Disambig)
	w.WriteBytes(m.Creator.BytesBE())
	w.WriteBytes(m.BatchMintConfig.BytesBE())
	w.WriteBytes(m.BatchMintAccount.BytesBE())
	w.WriteBytes(m.Name[:])
}

// DecodeBinary implements io.Serializable.
func (m *NeighborhoodMetadata) DecodeBinary(r *io.BinReader) {
	m.Disambig = r.ReadB()
	common.ReadAddress(r, &m.Creator)
	common.ReadAddress(r, &m.BatchMintConfig)
	common.ReadAddress(r, &m.BatchMintAccount)
	r.ReadBytes(m.Name[:])
}

// NameString returns the name without zero padding.
func (m *NeighborhoodMetadata) NameString() string {
	n := 0
	for n < len(m.Name) && m.Name[n] != 0 {
		n++
	}
	return string(m.Name[:n])
}

// SpaceMetadata binds a space to its unique asset and keeps the sale price.
type SpaceMetadata struct {
	Disambig byte
	Mint     common.Address
	// Price is zero when the space is not listed.
	Price uint64
	X     int64
	Y     int64
}

// EncodeBinary implements io.Serializable.
func (m *SpaceMetadata) EncodeBinary(w *io.BinWriter) {
	w.WriteB(m.Disambig)
	w.WriteBytes(m.Mint.BytesBE())
	w.WriteU64LE(m.Price)
	w.WriteU64LE(uint64(m.X))
	w.WriteU64LE(uint64(m.Y))
}

// DecodeBinary implements io.Serializable.
func (m *SpaceMetadata) DecodeBinary(r *io.BinReader) {
	m.Disambig = r.ReadB()
	common.ReadAddress(r, &m.Mint)
	m.Price = r.ReadU64LE()
	m.X = int64(r.ReadU64LE())
	m.Y = int64(r.ReadU64LE())
}

// NameFromString converts s into the fixed-size name field truncating it if
// necessary.
func NameFromString(s string) [NameSize]byte {
	var n [NameSize]byte
	copy(n[:], s)
	return n
}

// NeighborhoodListSeeds returns derivation seeds of the neighborhood list.
func NeighborhoodListSeeds(base common.Address) [][]byte {
	return [][]byte{base.BytesBE(), neighborhoodListTag}
}

// NeighborhoodMetadataSeeds returns derivation seeds of the neighborhood
// metadata.
func NeighborhoodMetadataSeeds(base common.Address, nx, ny int64) [][]byte {
	return [][]byte{base.BytesBE(), neighborhoodMetadataTag, common.CoordSeed(nx), common.CoordSeed(ny)}
}

// SpaceMetadataSeeds returns derivation seeds of the space metadata.
func SpaceMetadataSeeds(base common.Address, x, y int64) [][]byte {
	return [][]byte{base.BytesBE(), spaceMetadataTag, common.CoordSeed(x), common.CoordSeed(y)}
}

// SellDelegateSeeds returns derivation seeds of the marketplace delegate.
func SellDelegateSeeds(base common.Address) [][]byte {
	return [][]byte{base.BytesBE(), sellDelegateTag}
}

// VoucherMintSeeds returns derivation seeds of the neighborhood voucher asset.
func VoucherMintSeeds(base common.Address, nx, ny int64) [][]byte {
	return [][]byte{base.BytesBE(), voucherMintTag, common.CoordSeed(nx), common.CoordSeed(ny)}
}

// VoucherSinkSeeds returns derivation seeds of the voucher sink holding.
func VoucherSinkSeeds(base common.Address, nx, ny int64) [][]byte {
	return [][]byte{base.BytesBE(), voucherSinkTag, common.CoordSeed(nx), common.CoordSeed(ny)}
}

// LoadBase reads the base record kept by the registry program.
func LoadBase(env *common.Env, program, base common.Address) (Base, error) {
	var b Base
	if err := common.GetRecord(env, base, program, &b); err != nil {
		return Base{}, fmt.Errorf("base: %w", err)
	}
	return b, nil
}

// LoadNeighborhoodMetadata reads neighborhood metadata kept by the registry
// program and checks its address.
func LoadNeighborhoodMetadata(env *common.Env, program, base, addr common.Address, nx, ny int64) (NeighborhoodMetadata, error) {
	var m NeighborhoodMetadata
	if err := common.GetRecord(env, addr, program, &m); err != nil {
		return NeighborhoodMetadata{}, fmt.Errorf("neighborhood metadata: %w", err)
	}
	if err := common.VerifyAddress(addr, program, m.Disambig, NeighborhoodMetadataSeeds(base, nx, ny)...); err != nil {
		return NeighborhoodMetadata{}, fmt.Errorf("neighborhood metadata: %w", err)
	}
	return m, nil
}

// LoadSpaceMetadata reads space metadata kept by the registry program and
// checks its address.
func LoadSpaceMetadata(env *common.Env, program, base, addr common.Address, x, y int64) (SpaceMetadata, error) {
	var m SpaceMetadata
	if err := common.GetRecord(env, addr, program, &m); err != nil {
		return SpaceMetadata{}, fmt.Errorf("space metadata: %w", err)
	}
	if err := common.VerifyAddress(addr, program, m.Disambig, SpaceMetadataSeeds(base, x, y)...); err != nil {
		return SpaceMetadata{}, fmt.Errorf("space metadata: %w", err)
	}
	return m, nil
}

// LoadNeighborhoodList reads the neighborhood list of the base.
func LoadNeighborhoodList(env *common.Env, program, base, addr common.Address) (NeighborhoodList, error) {
	var l NeighborhoodList
	if err := common.GetRecord(env, addr, program, &l); err != nil {
		return NeighborhoodList{}, fmt.Errorf("neighborhood list: %w", err)
	}
	if err := common.VerifyAddress(addr, program, l.Disambig, NeighborhoodListSeeds(base)...); err != nil {
		return NeighborhoodList{}, fmt.Errorf("neighborhood list: %w", err)
	}
	return l, nil
}
