//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package cli

import "io"

func outputWidth(io.Writer) int {
	return defaultWidth
}
