package world

import (
	"math"

	"voxelforge/internal/geom"
)

// noHit is the sentinel distance distinguishing "no intersection" from a
// real zero-distance hit.
const noHit = math.MaxFloat64

// IntersectsRay finds the nearest block hit across the visible set.
// Picking only ever targets what is rendered, so chunks outside the
// visible set are not considered. The returned position is the hit block's
// world coordinates.
func (w *World) IntersectsRay(origin, dir geom.Vec3) (hit geom.Vec3, side geom.Side, ok bool) {
	shortest := noHit
	for _, c := range w.visible {
		dist, local, s, chunkOK := c.IntersectsRay(origin, dir)
		if !chunkOK || dist >= shortest {
			// "Not closer" keeps the first-scanned chunk on exact ties.
			continue
		}
		pos := c.Pos()
		hit = geom.Vec3{
			X: local.X + float64(pos.X*ChunkSize),
			Y: local.Y + float64(pos.Y*ChunkSize),
			Z: local.Z + float64(pos.Z*ChunkSize),
		}
		side = s
		shortest = dist
	}
	return hit, side, shortest != noHit
}
