//go:build !unix

package albumart

func cellSize() (cellW, cellH int) {
	return defaultCellW, defaultCellH
}
