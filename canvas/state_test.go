package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/stretchr/testify/require"
)

func TestCellOffset(t *testing.T) {
	require.Equal(t, 3*200*50+3*195, CellOffset(250, -5))
	require.Equal(t, 0, CellOffset(0, 0))
	require.Equal(t, 0, CellOffset(-200, 400))
	require.Equal(t, pixelsSize-3, CellOffset(-1, -1))
	require.Equal(t, CellOffset(7, 9), CellOffset(7-200, 9+600))
}

func TestBlock(t *testing.T) {
	data := make([]byte, BlockSize)

	b, err := DecodeBlock(data)
	require.NoError(t, err)
	require.False(t, b.Initialized)

	data[5] = 0xaa
	stampBlock(data, -3, 4)
	b, err = DecodeBlock(data)
	require.NoError(t, err)
	require.True(t, b.Initialized)
	require.EqualValues(t, -3, b.X)
	require.EqualValues(t, 4, b.Y)
	require.Zero(t, data[5])

	off := CellOffset(-550, 801)
	data[off], data[off+1], data[off+2] = 1, 2, 3
	r, g, bl := b.Color(-550, 801)
	require.Equal(t, []uint8{1, 2, 3}, []uint8{r, g, bl})

	_, err = DecodeBlock(data[:BlockSize-1])
	require.ErrorIs(t, err, common.ErrInvalidRecordData)
	_, err = DecodeBlock(append(data, 0))
	require.ErrorIs(t, err, common.ErrInvalidRecordData)
}

func TestRender(t *testing.T) {
	data := make([]byte, BlockSize)
	stampBlock(data, 0, 0)
	off := CellOffset(12, 34)
	data[off], data[off+1], data[off+2] = 0x10, 0x20, 0x30

	b, err := DecodeBlock(data)
	require.NoError(t, err)

	img := Render(b)
	require.Equal(t, common.NeighborhoodSize, img.Bounds().Dx())
	c := img.NRGBAAt(12, 34)
	require.EqualValues(t, 0x10, c.R)
	require.EqualValues(t, 0x20, c.G)
	require.EqualValues(t, 0x30, c.B)
	require.EqualValues(t, 0xff, c.A)
	require.Zero(t, img.NRGBAAt(34, 12).R)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, WritePNG(buf, b))
	decoded, err := png.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), decoded.Bounds())

	b.Initialized = false
	require.ErrorIs(t, WritePNG(buf, b), common.ErrUninitialized)
}

func TestBriefArgs(t *testing.T) {
	brief := ChangeColorBriefArgs{X: -300, Y: 32767, Frame: 9, R: 1, G: 2, B: 3}

	data, err := common.EncodeInstruction(TagChangeColorBrief, &brief)
	require.NoError(t, err)
	require.Len(t, data, 1+2+2+1+3)

	var actual ChangeColorBriefArgs
	require.NoError(t, common.DecodeArgs(data[1:], &actual))
	require.Equal(t, brief, actual)
	require.Equal(t, ChangeColorArgs{X: -300, Y: 32767, Frame: 9, R: 1, G: 2, B: 3}, actual.Full())

	var full ChangeColorArgs
	require.ErrorIs(t, common.DecodeArgs(data[1:], &full), common.ErrInvalidInstruction)
}
