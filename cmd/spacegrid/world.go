package main

import (
	"fmt"

	"github.com/extend-xyz/spacegrid/canvas"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/registry"
	"github.com/extend-xyz/spacegrid/rent"
	"github.com/extend-xyz/spacegrid/tests/dump"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var baseFlag = cli.StringFlag{
	Name:   "base",
	Usage:  "Base58 identity of the world base",
	EnvVar: "SPACEGRID_BASE",
}

// world groups the opened chain with deployed programs.
type world struct {
	log   *zap.Logger
	chain *chain.Chain
	ids   chain.Identities

	registry registry.Config
	canvas   canvas.Config
	rent     rent.Config
}

// openWorld reads configuration referenced by the global flags, opens the
// configured storage and deploys the programs.
func openWorld(ctx *cli.Context) (*world, error) {
	cfg, err := chain.LoadConfig(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	log, err := cfg.Logger.NewLogger()
	if err != nil {
		return nil, err
	}

	c, ids, err := chain.NewFromConfig(log, cfg)
	if err != nil {
		return nil, err
	}

	w := &world{
		log:   log,
		chain: c,
		ids:   ids,
		registry: registry.Config{
			Program:         ids.Registry,
			PaymentAsset:    ids.PaymentAsset,
			MetadataProgram: ids.Metadata,
		},
		canvas: canvas.Config{Program: ids.Canvas, RegistryProgram: ids.Registry},
		rent:   rent.Config{Program: ids.Rent, RegistryProgram: ids.Registry},
	}

	c.Register("registry", ids.Registry, registry.New(w.registry))
	c.Register("canvas", ids.Canvas, canvas.New(w.canvas))
	c.Register("rent", ids.Rent, rent.New(w.rent))

	return w, nil
}

func (w *world) close() {
	if err := w.chain.Close(); err != nil {
		w.log.Warn("failed to close storage", zap.Error(err))
	}
	_ = w.log.Sync()
}

// load writes storage items of the snapshot into the chain storage.
func (w *world) load(id dump.ID, r *dump.Reader) error {
	m := r.Manifest()
	if !common.CheckVersion(m.Version) {
		return fmt.Errorf("snapshot %s: incompatible version %d", id, m.Version)
	}

	ids, err := m.ProgramsConfig().Identities()
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", id, err)
	}
	if ids != w.ids {
		return fmt.Errorf("snapshot %s: program identities differ from the configured ones", id)
	}

	return w.chain.Genesis(func(g *chain.Genesis) error {
		var err error
		r.IterateStorageItems(func(_ string, k, v []byte) {
			if err == nil {
				err = g.PutRaw(k, v)
			}
		})
		return err
	})
}

func baseFromFlag(ctx *cli.Context) (common.Address, error) {
	s := ctx.String(baseFlag.Name)
	if s == "" {
		return common.Address{}, fmt.Errorf("missing --%s", baseFlag.Name)
	}
	base, err := common.DecodeAddress(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode base: %w", err)
	}
	return base, nil
}
