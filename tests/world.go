package tests

import (
	"fmt"
	"testing"

	"github.com/extend-xyz/spacegrid/canvas"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/registry"
	"github.com/extend-xyz/spacegrid/rent"
	rpccanvas "github.com/extend-xyz/spacegrid/rpc/canvas"
	rpcregistry "github.com/extend-xyz/spacegrid/rpc/registry"
	rpcrent "github.com/extend-xyz/spacegrid/rpc/rent"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// DefaultNative is the native balance of wallets created by World.NewWallet.
const DefaultNative = 1_000_000_000

// World is a chain with all programs deployed and the base initialized.
type World struct {
	Chain *chain.Chain
	IDs   chain.Identities

	RegistryConfig registry.Config
	CanvasConfig   canvas.Config
	RentConfig     rent.Config

	// Base is the identity of the base, Authority is its initial authority.
	Base      common.Address
	Authority common.Address
	// BatchMintProgram owns batch-mint config records.
	BatchMintProgram common.Address

	Registry *rpcregistry.Contract
	Canvas   *rpccanvas.Contract
	Rent     *rpcrent.Contract
}

// NewWorld deploys programs on the in-memory chain and initializes the base.
func NewWorld(tb testing.TB) *World {
	ids, err := chain.ProgramsConfig{}.Identities()
	require.NoError(tb, err)

	c := chain.New(zaptest.NewLogger(tb), storage.NewMemoryStore(), ids.Token)
	tb.Cleanup(func() { _ = c.Close() })
	c.SetTime(1_700_000_000)

	w := newWorld(c, ids)

	treasury := w.NewWallet(tb)
	require.NoError(tb, c.Genesis(func(g *chain.Genesis) error {
		return g.Ledger.InitAsset(ids.PaymentAsset, treasury, 6)
	}))

	w.bind(w.NewWallet(tb))
	w.Authority = w.NewWallet(tb)

	require.NoError(tb, w.Registry.InitBase(w.Authority))

	return w
}

// Attach deploys programs on the chain which already carries the world rooted
// at base, e.g. restored from a snapshot. Authority is read from the base.
func Attach(tb testing.TB, c *chain.Chain, ids chain.Identities, base common.Address) *World {
	w := newWorld(c, ids)
	w.bind(base)

	b, err := w.Registry.Base()
	require.NoError(tb, err)
	w.Authority = b.Authority

	return w
}

func newWorld(c *chain.Chain, ids chain.Identities) *World {
	w := &World{
		Chain: c,
		IDs:   ids,
		RegistryConfig: registry.Config{
			Program:         ids.Registry,
			PaymentAsset:    ids.PaymentAsset,
			MetadataProgram: ids.Metadata,
		},
		CanvasConfig:     canvas.Config{Program: ids.Canvas, RegistryProgram: ids.Registry},
		RentConfig:       rent.Config{Program: ids.Rent, RegistryProgram: ids.Registry},
		BatchMintProgram: chain.ProgramID("batch-mint"),
	}

	c.Register("registry", ids.Registry, registry.New(w.RegistryConfig))
	c.Register("canvas", ids.Canvas, canvas.New(w.CanvasConfig))
	c.Register("rent", ids.Rent, rent.New(w.RentConfig))

	return w
}

func (w *World) bind(base common.Address) {
	w.Base = base
	w.Registry = rpcregistry.New(w.Chain, w.RegistryConfig, w.IDs.Token, base)
	w.Canvas = rpccanvas.New(w.Chain, w.CanvasConfig, w.IDs.Token, base)
	w.Rent = rpcrent.New(w.Chain, w.RentConfig, w.IDs.Token, base)
}

// NewWallet creates a wallet with DefaultNative balance.
func (w *World) NewWallet(tb testing.TB) common.Address {
	_, addr, err := chain.NewWallet()
	require.NoError(tb, err)
	w.Credit(tb, addr, DefaultNative)
	return addr
}

// Credit issues native currency to the address.
func (w *World) Credit(tb testing.TB, addr common.Address, amount uint64) {
	require.NoError(tb, w.Chain.Genesis(func(g *chain.Genesis) error {
		return g.Ledger.Credit(addr, amount)
	}))
}

// Native returns native balance of the address.
func (w *World) Native(tb testing.TB, addr common.Address) uint64 {
	b, err := w.Chain.Ledger().Balance(addr)
	require.NoError(tb, err)
	return b
}

// FundPayment mints payment asset into the canonical holding of owner.
func (w *World) FundPayment(tb testing.TB, owner common.Address, amount uint64) common.Address {
	var holding common.Address
	require.NoError(tb, w.Chain.Genesis(func(g *chain.Genesis) (err error) {
		holding, err = g.Fund(w.IDs.PaymentAsset, owner, amount)
		return err
	}))
	return holding
}

// Holding returns the canonical holding of owner for the asset.
func (w *World) Holding(tb testing.TB, owner, asset common.Address) common.Holding {
	l := w.Chain.Ledger()
	h, err := l.Holding(l.HoldingAddress(owner, asset))
	require.NoError(tb, err)
	return h
}

// SpaceName returns asset name of the space at (x, y).
func SpaceName(x, y int64) string {
	return fmt.Sprintf("Extend Space #(%d, %d)", x, y)
}

// BatchMint writes batch-mint config of the neighborhood with the given
// authority and returns its address and the address of the batch-mint
// account (the creator of all space assets of the neighborhood).
func (w *World) BatchMint(tb testing.TB, authority common.Address, nx, ny int64) (config, account common.Address) {
	return w.BatchMintNamed(tb, authority, SpaceName(nx*common.NeighborhoodSize, ny*common.NeighborhoodSize))
}

// BatchMintNamed is BatchMint with the explicit name of the first asset. It
// is used for coordinates whose SpaceName does not fit the config.
func (w *World) BatchMintNamed(tb testing.TB, authority common.Address, firstName string) (config, account common.Address) {
	config, account = RandomAddress(), RandomAddress()
	data := common.EncodeBatchMintConfig(common.BatchMintConfig{
		Authority: authority,
		FirstName: firstName,
	})
	require.NoError(tb, w.Chain.Genesis(func(g *chain.Genesis) error {
		g.PutRecord(config, w.BatchMintProgram, data)
		return nil
	}))
	return config, account
}

// Neighborhood is a created neighborhood.
type Neighborhood struct {
	X, Y    int64
	Creator common.Address
	// Account is the batch-mint account of the neighborhood.
	Account common.Address
}

// CreateNeighborhood creates neighborhood (nx, ny) on behalf of the base
// authority.
func (w *World) CreateNeighborhood(tb testing.TB, nx, ny int64) Neighborhood {
	cfg, acc := w.BatchMint(tb, w.Authority, nx, ny)
	require.NoError(tb, w.Registry.InitNeighborhood(w.Authority, rpcregistry.NeighborhoodParams{
		X:                nx,
		Y:                ny,
		Name:             fmt.Sprintf("Neighborhood %d:%d", nx, ny),
		BatchMintConfig:  cfg,
		BatchMintAccount: acc,
	}))
	return Neighborhood{X: nx, Y: ny, Creator: w.Authority, Account: acc}
}

// MintSpace mints unique asset of the space (x, y) to owner with metadata
// listing creator as the first creator.
func (w *World) MintSpace(tb testing.TB, owner, creator common.Address, verified bool, x, y int64) common.Address {
	var mint common.Address
	require.NoError(tb, w.Chain.Genesis(func(g *chain.Genesis) error {
		var err error
		if mint, _, err = g.MintUnique(owner); err != nil {
			return err
		}

		md := common.AssetMetadata{
			UpdateAuthority: creator,
			Mint:            mint,
			Name:            SpaceName(x, y),
			Symbol:          "SPACE",
			URI:             fmt.Sprintf("https://example.org/space/%d/%d.json", x, y),
			Creators:        []common.Creator{{Address: creator, Verified: verified, Share: 100}},
		}
		data, err := common.EncodeRecord(&md)
		if err != nil {
			return err
		}

		addr, err := common.AssetMetadataAddress(w.IDs.Metadata, mint)
		if err != nil {
			return err
		}
		g.PutRecord(addr, w.IDs.Metadata, data)
		return nil
	}))
	return mint
}

// ClaimSpace mints the space asset of the neighborhood to owner and binds it
// to the space.
func (w *World) ClaimSpace(tb testing.TB, n Neighborhood, owner common.Address, x, y int64) common.Address {
	mint := w.MintSpace(tb, owner, n.Account, true, x, y)
	require.NoError(tb, w.Registry.InitSpace(owner, x, y, mint))
	return mint
}

// NewBlock allocates canvas block owned by the canvas program.
func (w *World) NewBlock(tb testing.TB) common.Address {
	addr := RandomAddress()
	require.NoError(tb, w.Chain.Genesis(func(g *chain.Genesis) error {
		return g.CreateAccount(addr, w.IDs.Canvas, canvas.BlockSize)
	}))
	return addr
}

// Send submits instructions signed by signers.
func (w *World) Send(signers []common.Address, ins ...common.Instruction) error {
	return w.Chain.Send(signers, ins...)
}
