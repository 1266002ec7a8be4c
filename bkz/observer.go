package bkz

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/lattired/lattired/red"
)

// Observer receives the progress events of a reduction. Implementations
// must not mutate the basis; all arguments are snapshots.
type Observer interface {
	// OnParams echoes the parameter chain when the reduction starts.
	OnParams(par *Params)
	// OnBlockFirstReduced signals that the prefix [0, kappa] has been
	// reduced at full block size for the first time.
	OnBlockFirstReduced(kappa, blockSize int)
	// OnTourEnd reports one finished tour: its index, the elapsed time
	// in seconds, r_{0,0} of the working range and the current slope.
	OnTourEnd(loop int, elapsed, r0, slope float64)
	// OnDump reports a written Gram-Schmidt profile.
	OnDump(prefix string, profile []float64)
	// OnFinal reports the terminal status.
	OnFinal(status red.Status)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnParams(*Params)                  {}
func (NopObserver) OnBlockFirstReduced(int, int)      {}
func (NopObserver) OnTourEnd(int, float64, float64, float64) {}
func (NopObserver) OnDump(string, []float64)          {}
func (NopObserver) OnFinal(red.Status)                {}

// LogObserver writes structured progress events to a zerolog logger.
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver returns an observer logging to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{log: zerolog.New(w).With().Str("component", "bkz").Logger()}
}

func (o *LogObserver) OnParams(par *Params) {
	for p := par; p != nil; p = p.Preprocessing {
		o.log.Info().
			Int("blockSize", p.BlockSize).
			Uint32("flags", uint32(p.Flags)).
			Int("maxLoops", p.MaxLoops).
			Float64("maxTime", p.MaxTime).
			Float64("autoAbortScale", p.AutoAbortScale).
			Int("autoAbortMaxNoDec", p.AutoAbortMaxNoDec).
			Msg("entering BKZ")
	}
}

func (o *LogObserver) OnBlockFirstReduced(kappa, blockSize int) {
	o.log.Info().
		Int("kappa", kappa).
		Int("blockSize", blockSize).
		Msgf("block [1-%d] BKZ-%d reduced for the first time", kappa+1, blockSize)
}

func (o *LogObserver) OnTourEnd(loop int, elapsed, r0, slope float64) {
	o.log.Info().
		Int("loop", loop).
		Float64("time", elapsed).
		Float64("r0", r0).
		Float64("slope", slope).
		Msg("end of BKZ loop")
}

func (o *LogObserver) OnDump(prefix string, profile []float64) {
	o.log.Debug().Str("prefix", prefix).Floats64("profile", profile).Msg("GSO dump")
}

func (o *LogObserver) OnFinal(status red.Status) {
	if status == red.Success {
		o.log.Info().Msg("end of BKZ: success")
		return
	}
	o.log.Warn().Stringer("status", status).Msg("end of BKZ: failure")
}
