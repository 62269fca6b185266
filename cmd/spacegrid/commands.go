package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/extend-xyz/spacegrid/canvas"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/chain"
	"github.com/extend-xyz/spacegrid/rent"
	rpccanvas "github.com/extend-xyz/spacegrid/rpc/canvas"
	rpcregistry "github.com/extend-xyz/spacegrid/rpc/registry"
	rpcrent "github.com/extend-xyz/spacegrid/rpc/rent"
	"github.com/extend-xyz/spacegrid/tests/dump"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func dumpCommand() cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "Dump the whole world state into snapshot files",
		Flags: []cli.Flag{
			baseFlag,
			cli.StringFlag{Name: "label", Usage: "Label of the world environment (e.g. 'staging')"},
			cli.StringFlag{Name: "dir", Usage: "Directory to put snapshot files into", Value: "testdata"},
		},
		Action: func(ctx *cli.Context) error {
			label := ctx.String("label")
			if label == "" {
				return errors.New("missing world label")
			}
			base, err := baseFromFlag(ctx)
			if err != nil {
				return err
			}

			w, err := openWorld(ctx)
			if err != nil {
				return err
			}
			defer w.close()

			dir := ctx.String("dir")
			if err := os.MkdirAll(dir, 0700); err != nil {
				return fmt.Errorf("create root dir: %w", err)
			}

			id, err := dump.World(w.chain, w.ids, base, dir, label)
			if err != nil {
				return fmt.Errorf("dump world: %w", err)
			}

			w.log.Info("world is successfully dumped", zap.String("dir", dir), zap.Stringer("id", id))
			return nil
		},
	}
}

func restoreCommand() cli.Command {
	return cli.Command{
		Name:  "restore",
		Usage: "Load the latest snapshot with the given label into the configured storage",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "label", Usage: "Label of the world environment"},
			cli.StringFlag{Name: "dir", Usage: "Directory with snapshot files", Value: "testdata"},
		},
		Action: func(ctx *cli.Context) error {
			label := ctx.String("label")
			if label == "" {
				return errors.New("missing world label")
			}

			w, err := openWorld(ctx)
			if err != nil {
				return err
			}
			defer w.close()

			var (
				latest  dump.ID
				found   bool
				items   int
				loadErr error
			)

			dir := ctx.String("dir")

			err = dump.IterateDumps(dir, func(id dump.ID, _ *dump.Reader) {
				if id.Label == label && (!found || id.Time > latest.Time) {
					latest, found = id, true
				}
			})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no snapshots labeled '%s'", label)
			}

			err = dump.IterateDumps(dir, func(id dump.ID, r *dump.Reader) {
				if id == latest {
					loadErr = w.load(id, r)
					items = r.Len()
				}
			})
			if err == nil {
				err = loadErr
			}
			if err != nil {
				return err
			}

			w.log.Info("world is successfully restored", zap.Stringer("id", latest), zap.Int("items", items))
			return nil
		},
	}
}

func neighborhoodsCommand() cli.Command {
	return cli.Command{
		Name:  "neighborhoods",
		Usage: "List neighborhoods of the world",
		Flags: []cli.Flag{baseFlag},
		Action: func(ctx *cli.Context) error {
			base, err := baseFromFlag(ctx)
			if err != nil {
				return err
			}

			w, err := openWorld(ctx)
			if err != nil {
				return err
			}
			defer w.close()

			reg := rpcregistry.NewReader(w.chain, w.ids.Registry, base)
			cnv := rpccanvas.NewReader(w.chain, w.canvas, base)

			list, err := reg.Neighborhoods()
			if err != nil {
				return fmt.Errorf("read neighborhood list: %w", err)
			}

			for _, n := range list {
				meta, err := reg.NeighborhoodMetadata(n.X, n.Y)
				if err != nil {
					return fmt.Errorf("neighborhood (%d, %d): %w", n.X, n.Y, err)
				}
				frames, err := cnv.Frames(n.X, n.Y)
				if err != nil {
					return fmt.Errorf("neighborhood (%d, %d) frames: %w", n.X, n.Y, err)
				}
				fmt.Fprintf(ctx.App.Writer, "(%d, %d)\t%q\tcreator=%s\tframes=%d\n",
					n.X, n.Y, meta.NameString(), common.EncodeAddress(meta.Creator), frames)
			}

			return nil
		},
	}
}

func renderCommand() cli.Command {
	return cli.Command{
		Name:  "render",
		Usage: "Render canvas frame of the neighborhood into PNG file",
		Flags: []cli.Flag{
			baseFlag,
			cli.Int64Flag{Name: "x", Usage: "Neighborhood X coordinate"},
			cli.Int64Flag{Name: "y", Usage: "Neighborhood Y coordinate"},
			cli.Uint64Flag{Name: "frame", Usage: "Frame index"},
			cli.StringFlag{Name: "out", Usage: "Output file", Value: "frame.png"},
		},
		Action: func(ctx *cli.Context) error {
			base, err := baseFromFlag(ctx)
			if err != nil {
				return err
			}

			w, err := openWorld(ctx)
			if err != nil {
				return err
			}
			defer w.close()

			nx, ny, frame := ctx.Int64("x"), ctx.Int64("y"), ctx.Uint64("frame")

			b, err := rpccanvas.NewReader(w.chain, w.canvas, base).Frame(nx, ny, frame)
			if err != nil {
				return fmt.Errorf("read frame: %w", err)
			}

			f, err := os.OpenFile(ctx.String("out"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
			if err != nil {
				return fmt.Errorf("open output file: %w", err)
			}

			if err = canvas.WritePNG(f, b); err != nil {
				_ = f.Close()
				return fmt.Errorf("encode frame: %w", err)
			}
			if err = f.Close(); err != nil {
				return err
			}

			w.log.Info("frame is rendered",
				zap.Int64("x", nx), zap.Int64("y", ny), zap.Uint64("frame", frame),
				zap.String("out", ctx.String("out")))
			return nil
		},
	}
}

func addressCommand() cli.Command {
	return cli.Command{
		Name:      "address",
		Usage:     "Derive address of the world record",
		ArgsUsage: "neighborhood-list|neighborhood|space|frame-base|frame-pointer|listing|sell-delegate|voucher-mint|voucher-sink",
		Flags: []cli.Flag{
			baseFlag,
			cli.Int64Flag{Name: "x", Usage: "X coordinate (of the space or the neighborhood)"},
			cli.Int64Flag{Name: "y", Usage: "Y coordinate (of the space or the neighborhood)"},
			cli.Uint64Flag{Name: "frame", Usage: "Frame index"},
		},
		Action: func(ctx *cli.Context) error {
			base, err := baseFromFlag(ctx)
			if err != nil {
				return err
			}

			cfg, err := chain.LoadConfig(ctx.GlobalString("config"))
			if err != nil {
				return err
			}
			ids, err := cfg.Programs.Identities()
			if err != nil {
				return err
			}

			addr, err := deriveAddress(ids, base, ctx.Args().First(), ctx.Int64("x"), ctx.Int64("y"), ctx.Uint64("frame"))
			if err != nil {
				return err
			}

			fmt.Fprintln(ctx.App.Writer, common.EncodeAddress(addr))
			return nil
		},
	}
}

func deriveAddress(ids chain.Identities, base common.Address, kind string, x, y int64, frame uint64) (common.Address, error) {
	reg := rpcregistry.NewReader(nil, ids.Registry, base)
	cnv := rpccanvas.NewReader(nil, canvas.Config{Program: ids.Canvas, RegistryProgram: ids.Registry}, base)
	rnt := rpcrent.NewReader(nil, rent.Config{Program: ids.Rent, RegistryProgram: ids.Registry}, base)

	switch kind {
	case "neighborhood-list":
		return reg.NeighborhoodListAddress()
	case "neighborhood":
		return reg.NeighborhoodMetadataAddress(x, y)
	case "space":
		return reg.SpaceMetadataAddress(x, y)
	case "frame-base":
		return cnv.FrameBaseAddress(x, y)
	case "frame-pointer":
		return cnv.FramePointerAddress(x, y, frame)
	case "listing":
		return rnt.ListingAddress(x, y)
	case "sell-delegate":
		return reg.SellDelegate()
	case "voucher-mint":
		return reg.VoucherMint(x, y)
	case "voucher-sink":
		return reg.VoucherSink(x, y)
	case "":
		return common.Address{}, errors.New("missing record kind")
	}
	return common.Address{}, fmt.Errorf("unknown record kind '%s'", kind)
}
