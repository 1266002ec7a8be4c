package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
	cli "github.com/urfave/cli/v2"

	"github.com/lattired/lattired/gso"
	"github.com/pkg/errors"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "print the Gram-Schmidt log profile of a basis",
		Flags: append(inputFlags(),
			&cli.StringFlag{Name: "plot", Usage: "render the profile as a line chart to `FILE` (HTML)"},
		),
		Action: runProfile,
	}
}

func runProfile(c *cli.Context) error {
	b, err := loadBasis(c)
	if err != nil {
		return err
	}

	m := gso.NewMat(b, floatFactory(c))
	profile := make([]float64, b.Rows())
	logF := m.NewFloat()
	for i := range profile {
		if !m.UpdateRow(i) {
			return errors.Errorf("non-finite Gram-Schmidt data at row %d", i)
		}
		f, expo := m.RExp(i, i)
		profile[i] = logF.Log(f).Float64()/math.Ln2 + float64(expo)
	}

	for i, x := range profile {
		fmt.Printf("%4d %.8g\n", i, x)
	}
	if mean, err := stats.Mean(profile); err == nil {
		stddev, _ := stats.StandardDeviation(profile)
		log.Info().Float64("mean", mean).Float64("stddev", stddev).Int("rows", len(profile)).Msg("log2 profile")
	}

	if path := c.String("plot"); path != "" {
		return plotProfile(path, profile)
	}
	return nil
}

func plotProfile(path string, profile []float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Gram-Schmidt log profile",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "log2 r(i,i)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "row"}),
	)

	xs := make([]string, len(profile))
	ys := make([]opts.LineData, len(profile))
	for i, v := range profile {
		xs[i] = fmt.Sprint(i)
		ys[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(xs).AddSeries("profile", ys)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	return errors.Wrap(line.Render(f), "rendering chart")
}
