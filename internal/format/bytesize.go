// Package format holds the presentation helpers the admin surface
// needs but the core has no opinion about: byte-size rendering for
// erlang_memory_usage. No byte-size formatting library appears
// anywhere in the example pack, so this stays on the standard library.
package format

import "fmt"

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// ByteSize renders n using binary (1024-based) units, e.g. 1536 ->
// "1.5KB". Values under 1024 render as a bare byte count.
func ByteSize(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}

	f := float64(n)
	unit := 0
	for f >= 1024 && unit < len(units)-1 {
		f /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f%s", f, units[unit])
}
