package bkz

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// dumpGSO appends (or truncates, for the initial dump) one line with the
// natural-log Gram-Schmidt profile of the working rows:
// "prefix: x0 x1 ... x_{numRows-1}" with xi = ln(r_{i,i}).
func (b *Reduction) dumpGSO(filename, prefix string, appendMode bool) {
	profile := make([]float64, 0, b.numRows)
	logF := b.m.NewFloat()
	for i := 0; i < b.numRows; i++ {
		if !b.m.UpdateRow(i) {
			return
		}
		f, expo := b.m.RExp(i, i)
		profile = append(profile, logF.Log(f).Float64()+float64(expo)*math.Ln2)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s: ", prefix)
	for _, x := range profile {
		fmt.Fprintf(&sb, "%.8g ", x)
	}
	sb.WriteByte('\n')
	if _, err := f.WriteString(sb.String()); err != nil {
		return
	}

	b.obs.OnDump(prefix, profile)
}
