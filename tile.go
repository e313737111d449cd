package main

// tileGrid returns the dispatch grid dimensions for a surface: the number
// of 8x8 tiles needed to cover it, rounding partial edge tiles up.
func tileGrid(width, height int) (int, int) {
	tx := (width + traceTileSize - 1) / traceTileSize
	ty := (height + traceTileSize - 1) / traceTileSize
	return tx, ty
}

// dispatchSize returns the padded global work size for a surface, a
// multiple of the tile edge in both axes. Pixels beyond the surface are
// masked inside the kernels.
func dispatchSize(width, height int) (int, int) {
	tx, ty := tileGrid(width, height)
	return tx * traceTileSize, ty * traceTileSize
}

func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
