package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Save writes the world to out in its fixed binary layout: seed, pending
// edit count and records, field of view, then each chunk's coordinates and
// payload in generation order. The chunk list has no count; readers consume
// until end of stream. Any short write fails the whole operation.
func (w *World) Save(out io.Writer) error {
	if err := binary.Write(out, binary.LittleEndian, w.seed); err != nil {
		return fmt.Errorf("save seed: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, uint32(len(w.pending))); err != nil {
		return fmt.Errorf("save pending count: %w", err)
	}
	for i := range w.pending {
		if err := binary.Write(out, binary.LittleEndian, &w.pending[i]); err != nil {
			return fmt.Errorf("save pending change %d: %w", i, err)
		}
	}
	if err := binary.Write(out, binary.LittleEndian, w.fieldOfView); err != nil {
		return fmt.Errorf("save field of view: %w", err)
	}
	for _, c := range w.order {
		pos := c.Pos()
		coord := [3]int32{int32(pos.X), int32(pos.Y), int32(pos.Z)}
		if err := binary.Write(out, binary.LittleEndian, coord); err != nil {
			return fmt.Errorf("save chunk coord %v: %w", pos, err)
		}
		if err := c.Save(out); err != nil {
			return fmt.Errorf("save chunk %v: %w", pos, err)
		}
	}
	return nil
}

// Load restores a world previously written by Save. The seed reseeds the
// noise generator before any chunk is deserialized, and every chunk is
// constructed with its world back-reference first. A failure at any step
// leaves the world partially overwritten; callers must discard it.
//
// Load does not clear existing chunks: call Clear first when replacing a
// live world.
func (w *World) Load(in io.Reader) error {
	var seed uint32
	if err := binary.Read(in, binary.LittleEndian, &seed); err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	w.Reseed(seed)

	var count uint32
	if err := binary.Read(in, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("load pending count: %w", err)
	}
	// Appending record by record keeps a corrupt count from sizing a huge
	// allocation up front; garbage input fails at the stream's real end.
	w.pending = w.pending[:0]
	for i := uint32(0); i < count; i++ {
		var bc BlockChange
		if err := binary.Read(in, binary.LittleEndian, &bc); err != nil {
			return fmt.Errorf("load pending change %d: %w", i, err)
		}
		w.pending = append(w.pending, bc)
	}

	if err := binary.Read(in, binary.LittleEndian, &w.fieldOfView); err != nil {
		return fmt.Errorf("load field of view: %w", err)
	}

	// Chunks repeat until end of stream. A clean EOF on the coordinate
	// read is the terminator; a partial coordinate or chunk payload is
	// corruption.
	for {
		var coord [3]int32
		err := binary.Read(in, binary.LittleEndian, &coord)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load chunk coord: %w", err)
		}
		pos := ChunkPos{int(coord[0]), int(coord[1]), int(coord[2])}
		c := w.newChunk(w, pos)
		if err := c.Load(in); err != nil {
			return fmt.Errorf("load chunk %v: %w", pos, err)
		}
		w.register(c)
	}
}
