package world

var neighborOffsets = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// GenerateChunk creates, generates and registers the chunk at pos, then
// applies any pending edits addressed to it. Existing neighbors are marked
// dirty first: a new neighbor changes which of their boundary faces are
// exposed.
func (w *World) GenerateChunk(pos ChunkPos) Chunk {
	for _, d := range neighborOffsets {
		if n := w.FindChunk(ChunkPos{pos.X + d[0], pos.Y + d[1], pos.Z + d[2]}); n != nil {
			n.SetDirty()
		}
	}

	c := w.newChunk(w, pos)
	c.Generate()
	w.register(c)

	// Drain queued edits for this chunk in insertion order; later edits
	// may overwrite earlier ones at the same cell.
	kept := w.pending[:0]
	for _, bc := range w.pending {
		if int(bc.ChunkX) == pos.X && int(bc.ChunkY) == pos.Y && int(bc.ChunkZ) == pos.Z {
			c.SetLocalBlock(int(bc.LocalX), int(bc.LocalY), int(bc.LocalZ), bc.Block)
		} else {
			kept = append(kept, bc)
		}
	}
	w.pending = kept

	return c
}

func (w *World) register(c Chunk) {
	w.chunks[c.Pos()] = c
	w.order = append(w.order, c)
}
