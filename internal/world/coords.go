package world

// ChunkCoord maps a global per-axis block coordinate to a chunk
// coordinate, flooring toward negative infinity. The arithmetic shift is
// equivalent to floor division because ChunkSize is a power of two.
func ChunkCoord(global int) int {
	return global >> chunkShift
}

// LocalCoord maps a global per-axis block coordinate to its offset within
// the chunk; the result is always in [0, ChunkSize), including for
// negative inputs. ChunkCoord(g)*ChunkSize + LocalCoord(g) == g holds for
// every g.
func LocalCoord(global int) int {
	return global & chunkMask
}
