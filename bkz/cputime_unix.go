//go:build unix

package bkz

import "golang.org/x/sys/unix"

// cputimeMS returns the process CPU time (user + system) in
// milliseconds.
func cputimeMS() float64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return wallMS()
	}
	user := float64(ru.Utime.Sec)*1000 + float64(ru.Utime.Usec)/1000
	sys := float64(ru.Stime.Sec)*1000 + float64(ru.Stime.Usec)/1000
	return user + sys
}
