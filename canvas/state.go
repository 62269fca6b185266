package canvas

import (
	"encoding/binary"
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// MaxFrames is the maximum number of frames of one neighborhood.
const MaxFrames = 10

// Canvas block layout: RGB cells row by row (x-major), then the trailer with
// neighborhood coordinates and the initialized flag.
const (
	pixelsSize = 3 * common.NeighborhoodSize * common.NeighborhoodSize

	trailerX           = pixelsSize
	trailerY           = trailerX + 8
	trailerInitialized = trailerY + 8

	// BlockSize is the exact size of a canvas block record.
	BlockSize = trailerInitialized + 1
)

// Reserved record sizes.
const (
	FrameBaseReserve    = 1 + 8
	FramePointerReserve = 1 + 32
)

var (
	frameBaseTag    = []byte("neighborhood_frame_base")
	framePointerTag = []byte("neighborhood_frame_pointer")
)

// FrameBase counts frames of the neighborhood.
type FrameBase struct {
	Disambig byte
	Frames   uint64
}

// EncodeBinary implements io.Serializable.
func (b *FrameBase) EncodeBinary(w *io.BinWriter) {
	w.WriteB(b.Disambig)
	w.WriteU64LE(b.Frames)
}

// DecodeBinary implements io.Serializable.
func (b *FrameBase) DecodeBinary(r *io.BinReader) {
	b.Disambig = r.ReadB()
	b.Frames = r.ReadU64LE()
}

// FramePointer binds frame number to the canvas block holding it.
type FramePointer struct {
	Disambig byte
	Block    common.Address
}

// EncodeBinary implements io.Serializable.
func (p *FramePointer) EncodeBinary(w *io.BinWriter) {
	w.WriteB(p.Disambig)
	w.WriteBytes(p.Block.BytesBE())
}

// DecodeBinary implements io.Serializable.
func (p *FramePointer) DecodeBinary(r *io.BinReader) {
	p.Disambig = r.ReadB()
	common.ReadAddress(r, &p.Block)
}

// FrameBaseSeeds returns derivation seeds of the neighborhood frame base.
func FrameBaseSeeds(base common.Address, nx, ny int64) [][]byte {
	return [][]byte{base.BytesBE(), frameBaseTag, common.CoordSeed(nx), common.CoordSeed(ny)}
}

// FramePointerSeeds returns derivation seeds of the pointer to the frame.
func FramePointerSeeds(base common.Address, nx, ny int64, frame uint64) [][]byte {
	return [][]byte{base.BytesBE(), framePointerTag, common.CoordSeed(nx), common.CoordSeed(ny), common.U64Seed(frame)}
}

// CellOffset returns offset of the RGB triple of the space inside the block.
func CellOffset(x, y int64) int {
	cx := common.FloorMod(x, common.NeighborhoodSize)
	cy := common.FloorMod(y, common.NeighborhoodSize)
	return int(3*common.NeighborhoodSize*cx + 3*cy)
}

// Block is a decoded canvas block.
type Block struct {
	Pixels      []byte
	X, Y        int64
	Initialized bool
}

// DecodeBlock parses canvas block record body.
func DecodeBlock(data []byte) (Block, error) {
	if len(data) != BlockSize {
		return Block{}, fmt.Errorf("%w: canvas block is %d bytes long", common.ErrInvalidRecordData, len(data))
	}
	return Block{
		Pixels:      data[:pixelsSize],
		X:           int64(binary.LittleEndian.Uint64(data[trailerX:])),
		Y:           int64(binary.LittleEndian.Uint64(data[trailerY:])),
		Initialized: data[trailerInitialized] != 0,
	}, nil
}

// Color returns color of the space cell.
func (b Block) Color(x, y int64) (r, g, bl uint8) {
	off := CellOffset(x, y)
	return b.Pixels[off], b.Pixels[off+1], b.Pixels[off+2]
}

// stampBlock zeroes data and writes the trailer of the neighborhood.
func stampBlock(data []byte, nx, ny int64) {
	clear(data)
	binary.LittleEndian.PutUint64(data[trailerX:], uint64(nx))
	binary.LittleEndian.PutUint64(data[trailerY:], uint64(ny))
	data[trailerInitialized] = 1
}
