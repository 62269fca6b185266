package canvas_test

import (
	"testing"

	"github.com/extend-xyz/spacegrid/canvas"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/tests"
	"github.com/stretchr/testify/require"
)

func TestInitFrame(t *testing.T) {
	w := tests.NewWorld(t)
	w.CreateNeighborhood(t, 1, -1)
	payer := w.NewWallet(t)

	frames, err := w.Canvas.Frames(1, -1)
	require.NoError(t, err)
	require.Zero(t, frames)

	t.Run("missing neighborhood", func(t *testing.T) {
		err := w.Canvas.InitFrame(payer, 0, 0, w.NewBlock(t))
		tests.RequireCode(t, common.ErrUninitialized, err)
	})
	t.Run("foreign block", func(t *testing.T) {
		block := tests.RandomAddress()
		require.NoError(t, w.Chain.Genesis(func(g *chain.Genesis) error {
			return g.CreateAccount(block, w.IDs.Registry, canvas.BlockSize)
		}))
		err := w.Canvas.InitFrame(payer, 1, -1, block)
		tests.RequireCode(t, common.ErrIncorrectOwner, err)
	})
	t.Run("short block", func(t *testing.T) {
		block := tests.RandomAddress()
		require.NoError(t, w.Chain.Genesis(func(g *chain.Genesis) error {
			return g.CreateAccount(block, w.IDs.Canvas, canvas.BlockSize-1)
		}))
		err := w.Canvas.InitFrame(payer, 1, -1, block)
		tests.RequireCode(t, common.ErrInvalidRecordData, err)
	})

	first := w.NewBlock(t)
	require.NoError(t, w.Canvas.InitFrame(payer, 1, -1, first))

	b, err := w.Canvas.Frame(1, -1, 0)
	require.NoError(t, err)
	require.True(t, b.Initialized)
	require.EqualValues(t, 1, b.X)
	require.EqualValues(t, -1, b.Y)

	t.Run("block reuse", func(t *testing.T) {
		err := w.Canvas.InitFrame(payer, 1, -1, first)
		tests.RequireCode(t, common.ErrAlreadyInitialized, err)

		frames, err := w.Canvas.Frames(1, -1)
		require.NoError(t, err)
		require.EqualValues(t, 1, frames)
	})

	t.Run("wrong pointer", func(t *testing.T) {
		ins, err := w.Canvas.InitFrameInstruction(payer, 1, -1, w.NewBlock(t))
		require.NoError(t, err)

		ins.Records[3], err = w.Canvas.FramePointerAddress(1, -1, 0)
		require.NoError(t, err)
		err = w.Send([]common.Address{payer}, ins)
		tests.RequireCode(t, common.ErrAddressMismatch, err)
	})

	for i := 1; i < canvas.MaxFrames; i++ {
		require.NoError(t, w.Canvas.InitFrame(payer, 1, -1, w.NewBlock(t)))
	}

	frames, err = w.Canvas.Frames(1, -1)
	require.NoError(t, err)
	require.EqualValues(t, canvas.MaxFrames, frames)

	err = w.Canvas.InitFrame(payer, 1, -1, w.NewBlock(t))
	tests.RequireCode(t, common.ErrCapacityExceeded, err)

	last, err := w.Canvas.FrameBlock(1, -1, canvas.MaxFrames-1)
	require.NoError(t, err)
	require.NotEqual(t, first, last)
}

func TestChangeColor(t *testing.T) {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 1, -1)
	owner := w.NewWallet(t)
	w.ClaimSpace(t, n, owner, 250, -5)

	require.NoError(t, w.Canvas.InitFrame(owner, 1, -1, w.NewBlock(t)))
	require.NoError(t, w.Canvas.InitFrame(owner, 1, -1, w.NewBlock(t)))

	require.NoError(t, w.Canvas.ChangeColor(owner, canvas.ChangeColorArgs{X: 250, Y: -5, Frame: 1, R: 0xff, G: 0x80, B: 0x01}))

	b, err := w.Canvas.Frame(1, -1, 1)
	require.NoError(t, err)
	off := 3*200*50 + 3*195
	require.Equal(t, []byte{0xff, 0x80, 0x01}, b.Pixels[off:off+3])

	b, err = w.Canvas.Frame(1, -1, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0}, b.Pixels[off:off+3])

	t.Run("not an owner", func(t *testing.T) {
		err := w.Canvas.ChangeColor(w.NewWallet(t), canvas.ChangeColorArgs{X: 250, Y: -5})
		tests.RequireCode(t, common.ErrUninitialized, err)
	})
	t.Run("unclaimed space", func(t *testing.T) {
		_, err := w.Canvas.ChangeColorInstruction(owner, canvas.ChangeColorArgs{X: 251, Y: -5})
		require.ErrorIs(t, err, common.ErrUninitialized)
	})
	t.Run("missing frame", func(t *testing.T) {
		_, err := w.Canvas.ChangeColorInstruction(owner, canvas.ChangeColorArgs{X: 250, Y: -5, Frame: 2})
		require.ErrorIs(t, err, common.ErrUninitialized)
	})
	t.Run("other frame block", func(t *testing.T) {
		ins, err := w.Canvas.ChangeColorInstruction(owner, canvas.ChangeColorArgs{X: 250, Y: -5, Frame: 1})
		require.NoError(t, err)

		ins.Records[1], err = w.Canvas.FrameBlock(1, -1, 0)
		require.NoError(t, err)
		err = w.Send([]common.Address{owner}, ins)
		tests.RequireCode(t, common.ErrAddressMismatch, err)
	})
	t.Run("sold space", func(t *testing.T) {
		buyer := w.NewWallet(t)
		require.NoError(t, w.Registry.ChangeOffer(owner, 250, -5, 100, true))
		require.NoError(t, w.Registry.AcceptOffer(buyer, owner, 250, -5, 100))

		err := w.Canvas.ChangeColor(owner, canvas.ChangeColorArgs{X: 250, Y: -5})
		tests.RequireCode(t, common.ErrMissingTokenOwner, err)

		require.NoError(t, w.Canvas.ChangeColor(buyer, canvas.ChangeColorArgs{X: 250, Y: -5, G: 7}))
		b, err := w.Canvas.Frame(1, -1, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{0, 7, 0}, b.Pixels[off:off+3])
	})
}

func TestChangeColorWide(t *testing.T) {
	w := tests.NewWorld(t)
	n := w.CreateNeighborhood(t, 200, 0)
	owner := w.NewWallet(t)
	w.ClaimSpace(t, n, owner, 40001, 3)

	require.NoError(t, w.Canvas.InitFrame(owner, 200, 0, w.NewBlock(t)))

	args := canvas.ChangeColorArgs{X: 40001, Y: 3, R: 9, G: 8, B: 7}
	ins, err := w.Canvas.ChangeColorInstruction(owner, args)
	require.NoError(t, err)
	require.Equal(t, canvas.TagChangeColor, ins.Data[0])

	require.NoError(t, w.Send([]common.Address{owner}, ins))

	b, err := w.Canvas.Frame(200, 0, 0)
	require.NoError(t, err)
	r, g, bl := b.Color(40001, 3)
	require.Equal(t, []uint8{9, 8, 7}, []uint8{r, g, bl})
}
