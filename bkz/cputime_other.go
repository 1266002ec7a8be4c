//go:build !unix

package bkz

// cputimeMS falls back to monotonic wall time where rusage is not
// available.
func cputimeMS() float64 {
	return wallMS()
}
