package bkz

import "time"

var processStart = time.Now()

func wallMS() float64 {
	return float64(time.Since(processStart)) / float64(time.Millisecond)
}
