// Package keyboard renders reply and inline keyboards for the admin menu.
package keyboard

// Chunk splits items into consecutive rows of at most perRow entries.
// Order is preserved and only the last row may be shorter.
func Chunk[T any](items []T, perRow int) [][]T {
	if perRow <= 0 {
		perRow = 1
	}

	rows := make([][]T, 0, (len(items)+perRow-1)/perRow)
	for i := 0; i < len(items); i += perRow {
		end := min(i+perRow, len(items))
		rows = append(rows, items[i:end])
	}

	return rows
}
