//go:build windows

package cli

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// outputWidth returns the visible width of the console behind w, or
// defaultWidth when w is not a console.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(f.Fd()), &info); err != nil {
		return defaultWidth
	}
	width := int(info.Window.Right-info.Window.Left) + 1
	if width <= 0 {
		return defaultWidth
	}
	return width
}
