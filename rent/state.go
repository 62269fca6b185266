package rent

import (
	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// ListingReserve is the reserved size of the rent listing record.
const ListingReserve = 256

var listingTag = []byte("rent_account")

// Listing keeps rent terms of one space and the current lease.
type Listing struct {
	Disambig byte
	Mint     common.Address
	// Price is paid per second of the lease.
	Price        uint64
	MinDuration  uint64
	MaxDuration  uint64
	MaxTimestamp uint64
	Lister       common.Address
	Lessee       common.Address
	RentEnd      uint64
}

// EncodeBinary implements io.Serializable.
func (l *Listing) EncodeBinary(w *io.BinWriter) {
	w.WriteB(l.Disambig)
	w.WriteBytes(l.Mint.BytesBE())
	w.WriteU64LE(l.Price)
	w.WriteU64LE(l.MinDuration)
	w.WriteU64LE(l.MaxDuration)
	w.WriteU64LE(l.MaxTimestamp)
	w.WriteBytes(l.Lister.BytesBE())
	w.WriteBytes(l.Lessee.BytesBE())
	w.WriteU64LE(l.RentEnd)
}

// DecodeBinary implements io.Serializable.
func (l *Listing) DecodeBinary(r *io.BinReader) {
	l.Disambig = r.ReadB()
	common.ReadAddress(r, &l.Mint)
	l.Price = r.ReadU64LE()
	l.MinDuration = r.ReadU64LE()
	l.MaxDuration = r.ReadU64LE()
	l.MaxTimestamp = r.ReadU64LE()
	common.ReadAddress(r, &l.Lister)
	common.ReadAddress(r, &l.Lessee)
	l.RentEnd = r.ReadU64LE()
}

// Leased checks whether the space is rented out at the moment.
func (l *Listing) Leased(now uint64) bool {
	return l.RentEnd > now
}

// ListingSeeds returns derivation seeds of the rent listing of the space.
func ListingSeeds(base common.Address, x, y int64) [][]byte {
	return [][]byte{base.BytesBE(), listingTag, common.CoordSeed(x), common.CoordSeed(y)}
}
