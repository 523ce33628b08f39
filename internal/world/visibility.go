package world

import (
	"math"

	"voxelforge/internal/fixed"
	"voxelforge/internal/mathx"
)

// SetPosition informs the world of the viewer's continuous position and
// recomputes the visible set when the viewer crossed into another chunk.
// The vertical chunk coordinate is clamped into [0, Height-1], so looking
// from far above or below still centers on a valid layer.
func (w *World) SetPosition(x, y, z fixed.Unit) {
	cx := ChunkCoord(x.Floor())
	cy := ChunkCoord(y.Floor())
	cz := ChunkCoord(z.Floor())

	cy = mathx.ClampInt(cy, 0, Height-1)

	if w.loaded && cx == w.center.X && cy == w.center.Y && cz == w.center.Z {
		return
	}

	w.visible = w.visible[:0]
	w.setChunkVisible(ChunkPos{cx, cy, cz})

	// Build the visible set shell by shell: an offset belongs to shell
	// dist when its rounded Euclidean distance is exactly dist. That
	// yields a roughly spherical region instead of a cube.
	for dist := 1; dist <= int(w.fieldOfView); dist++ {
		for dx := -dist; dx <= dist; dx++ {
			for dy := -dist; dy <= dist; dy++ {
				for dz := -dist; dz <= dist; dz++ {
					if cy+dy < 0 || cy+dy >= Height {
						continue
					}
					if int(math.Round(math.Sqrt(float64(dx*dx+dy*dy+dz*dz)))) != dist {
						continue
					}
					w.setChunkVisible(ChunkPos{cx + dx, cy + dy, cz + dz})
				}
			}
		}
	}

	w.center = ChunkPos{cx, cy, cz}
	w.loaded = true
}

func (w *World) setChunkVisible(pos ChunkPos) {
	c := w.FindChunk(pos)
	if c == nil {
		c = w.GenerateChunk(pos)
	}
	w.visible = append(w.visible, c)
}
