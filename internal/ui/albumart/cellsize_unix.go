//go:build unix

package albumart

import (
	"os"

	"golang.org/x/sys/unix"
)

// cellSize returns the terminal cell dimensions in pixels, falling back
// to 8x16 when the terminal does not report them.
func cellSize() (cellW, cellH int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return defaultCellW, defaultCellH
	}
	return int(ws.Xpixel) / int(ws.Col), int(ws.Ypixel) / int(ws.Row)
}
