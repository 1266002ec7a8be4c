package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"

	"github.com/lattired/lattired/bkz"
	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/gso"
	"github.com/lattired/lattired/intmat"
	"github.com/lattired/lattired/lll"
	"github.com/lattired/lattired/red"
	"github.com/lattired/lattired/utils/sampling"

	"github.com/pkg/errors"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	app := &cli.App{
		Name:  "lattired",
		Usage: "integer lattice basis reduction",
		Description: "lattired reads an integer lattice basis in the bracketed row format\n" +
			"[[a b ...][...]] and reduces it with LLL or BKZ.",
		Commands: []*cli.Command{
			reduceCommand(),
			profileCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("lattired failed")
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "in", Usage: "basis `FILE` ('-' for stdin)", Value: "-"},
		&cli.IntFlag{Name: "knapsack", Usage: "generate a knapsack basis of `DIM` rows instead of reading one"},
		&cli.IntFlag{Name: "bits", Usage: "weight size for generated bases", Value: 30},
		&cli.StringFlag{Name: "seed", Usage: "seed for generated bases", Value: "lattired"},
		&cli.UintFlag{Name: "precision", Usage: "float mantissa bits (0 uses native float64)"},
	}
}

func reduceCommand() *cli.Command {
	return &cli.Command{
		Name:  "reduce",
		Usage: "LLL- or BKZ-reduce a basis",
		Flags: append(inputFlags(),
			&cli.StringFlag{Name: "out", Usage: "write the reduced basis to `FILE` instead of stdout"},
			&cli.IntFlag{Name: "block-size", Aliases: []string{"b"}, Usage: "BKZ block size (below 2 runs plain LLL)"},
			&cli.Float64Flag{Name: "delta", Usage: "LLL quality parameter", Value: red.DefaultDelta},
			&cli.Float64Flag{Name: "eta", Usage: "size-reduction parameter", Value: red.DefaultEta},
			&cli.IntFlag{Name: "max-loops", Usage: "cap the number of BKZ tours"},
			&cli.Float64Flag{Name: "max-time", Usage: "cap the BKZ run time in `SECONDS`"},
			&cli.BoolFlag{Name: "auto-abort", Usage: "stop when the profile slope stalls"},
			&cli.BoolFlag{Name: "bounded-lll", Usage: "restrict the pre-LLL of each block to the block"},
			&cli.IntFlag{Name: "preprocessing", Usage: "nested BKZ `BLOCKSIZE` applied to each block before enumeration"},
			&cli.StringFlag{Name: "dump-gso", Usage: "write the Gram-Schmidt log profile to `FILE` (truncated) at start, after every tour and at the end"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "report per-tour progress"},
		),
		Action: runReduce,
	}
}

func runReduce(c *cli.Context) error {
	b, err := loadBasis(c)
	if err != nil {
		return err
	}

	m := gso.NewMat(b, floatFactory(c))
	reducer := lll.NewReducer(m, c.Float64("delta"), c.Float64("eta"))

	blockSize := c.Int("block-size")
	if blockSize < 2 {
		if !reducer.Reduce(0, 0, b.Rows()) {
			return errors.Errorf("LLL failed: %s", reducer.Status)
		}
	} else if err := runBKZ(c, m, reducer, blockSize); err != nil {
		return err
	}

	return writeBasis(c.String("out"), b)
}

func runBKZ(c *cli.Context, m *gso.Mat, reducer *lll.Reducer, blockSize int) error {
	par := bkz.NewParams(blockSize)
	par.Delta = c.Float64("delta")
	if c.IsSet("max-loops") {
		par.Flags |= bkz.FlagMaxLoops
		par.MaxLoops = c.Int("max-loops")
	}
	if c.IsSet("max-time") {
		par.Flags |= bkz.FlagMaxTime
		par.MaxTime = c.Float64("max-time")
	}
	if c.Bool("auto-abort") {
		par.Flags |= bkz.FlagAutoAbort
	}
	if c.Bool("bounded-lll") {
		par.Flags |= bkz.FlagBoundedLLL
	}
	if nested := c.Int("preprocessing"); nested > 2 {
		par.Preprocessing = bkz.NewParams(nested)
	}
	if path := c.String("dump-gso"); path != "" {
		par.Flags |= bkz.FlagDumpGSO
		par.DumpGSOFilename = path
	}

	var obs bkz.Observer
	if c.Bool("verbose") {
		par.Flags |= bkz.FlagVerbose
		obs = bkz.NewLogObserver(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	r := bkz.New(m, reducer, par, obs)
	if !r.Reduce() {
		return errors.Errorf("BKZ failed: %s", r.Status())
	}
	if r.Status().IsLimit() {
		log.Warn().Stringer("status", r.Status()).Msg("stopped on budget, basis may be under-reduced")
	}
	return nil
}

func loadBasis(c *cli.Context) (*intmat.Matrix, error) {
	if dim := c.Int("knapsack"); dim > 0 {
		prng, err := sampling.NewSeededPRNG("knapsack", []byte(c.String("seed")))
		if err != nil {
			return nil, errors.Wrap(err, "seeding generator")
		}
		return intmat.RandomKnapsack(prng, dim, c.Int("bits")), nil
	}

	path := c.String("in")
	if path == "-" {
		m, err := intmat.Parse(os.Stdin)
		return m, errors.Wrap(err, "reading basis from stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	m, err := intmat.Parse(f)
	return m, errors.Wrapf(err, "parsing %s", path)
}

func floatFactory(c *cli.Context) fpnum.Factory {
	if prec := c.Uint("precision"); prec > 0 {
		return fpnum.BigFactory(prec)
	}
	return fpnum.DoubleFactory
}

func writeBasis(path string, b *intmat.Matrix) error {
	if path == "" {
		fmt.Println(b)
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	_, err = b.WriteTo(f)
	return errors.Wrapf(err, "writing %s", path)
}
