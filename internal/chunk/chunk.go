// Package chunk implements the voxel cube behind the world's chunk
// contract: block storage, terrain generation from the world's seeded
// noise, dirty-tracked face counting in place of a mesh, and geometric
// intersection tests for collision and picking.
package chunk

import (
	"encoding/binary"
	"fmt"
	"io"

	"voxelforge/internal/block"
	"voxelforge/internal/geom"
	"voxelforge/internal/mathx"
	"voxelforge/internal/world"
)

const size = world.ChunkSize

// Terrain shape. Heights stay inside [groundMin, groundMin+groundAmp),
// which must fit under world.Height*size.
const (
	groundMin = 8
	groundAmp = 24

	noiseOctaves     = 4
	noiseFreq        = 0.02
	noisePersistence = 0.5
	noiseLacunarity  = 2.0

	coalPermille = 14
	ironPermille = 6
)

type Chunk struct {
	world *world.World
	pos   world.ChunkPos

	blocks [size * size * size]block.Block

	// dirty means the cached face count is stale: blocks changed here or
	// a neighboring chunk appeared.
	dirty        bool
	exposedFaces int
}

func New(w *world.World, pos world.ChunkPos) world.Chunk {
	return &Chunk{world: w, pos: pos, dirty: true}
}

func (c *Chunk) Pos() world.ChunkPos { return c.pos }

func idx(lx, ly, lz int) int {
	return lx | ly<<3 | lz<<6
}

func (c *Chunk) GetLocalBlock(lx, ly, lz int) block.Block {
	return c.blocks[idx(lx, ly, lz)]
}

// SetLocalBlock writes without side effects; used by generation and by the
// world when replaying queued edits.
func (c *Chunk) SetLocalBlock(lx, ly, lz int, b block.Block) {
	c.blocks[idx(lx, ly, lz)] = b
}

// ChangeLocalBlock writes and invalidates cached state, here and in any
// neighbor sharing the touched boundary face.
func (c *Chunk) ChangeLocalBlock(lx, ly, lz int, b block.Block) {
	c.blocks[idx(lx, ly, lz)] = b
	c.SetDirty()

	if lx == 0 {
		c.dirtyNeighbor(-1, 0, 0)
	} else if lx == size-1 {
		c.dirtyNeighbor(1, 0, 0)
	}
	if ly == 0 {
		c.dirtyNeighbor(0, -1, 0)
	} else if ly == size-1 {
		c.dirtyNeighbor(0, 1, 0)
	}
	if lz == 0 {
		c.dirtyNeighbor(0, 0, -1)
	} else if lz == size-1 {
		c.dirtyNeighbor(0, 0, 1)
	}
}

func (c *Chunk) dirtyNeighbor(dx, dy, dz int) {
	n := c.world.FindChunk(world.ChunkPos{X: c.pos.X + dx, Y: c.pos.Y + dy, Z: c.pos.Z + dz})
	if n != nil {
		n.SetDirty()
	}
}

func (c *Chunk) SetDirty() {
	c.dirty = true
}

func (c *Chunk) Dirty() bool {
	return c.dirty
}

// Generate fills the chunk from the world's noise generator: a fractal
// heightmap with grass on top, a dirt band, and stone sprinkled with ores
// below.
func (c *Chunk) Generate() {
	noise := c.world.Noise()
	seed := int64(noise.Seed())

	for lz := 0; lz < size; lz++ {
		for lx := 0; lx < size; lx++ {
			wx := c.pos.X*size + lx
			wz := c.pos.Z*size + lz

			v := noise.Fractal(float64(wx), float64(wz), noiseOctaves, noiseFreq, noisePersistence, noiseLacunarity)
			h := groundMin + int(v*groundAmp)

			for ly := 0; ly < size; ly++ {
				wy := c.pos.Y*size + ly

				var b block.Block
				switch {
				case wy > h:
					b = block.Air
				case wy == h:
					b = block.Grass
				case wy >= h-3:
					b = block.Dirt
				default:
					b = block.Stone
					roll := mathx.Hash3(seed, wx, wy, wz) % 1000
					if roll < coalPermille {
						b = block.CoalOre
					} else if roll < coalPermille+ironPermille {
						b = block.IronOre
					}
				}
				c.blocks[idx(lx, ly, lz)] = b
			}
		}
	}
	c.dirty = true
}

// Logic rebuilds the cached exposed-face count when stale. This stands in
// for remeshing; a renderer would rebuild its vertex buffer here.
func (c *Chunk) Logic() {
	if !c.dirty {
		return
	}
	c.exposedFaces = c.countExposedFaces()
	c.dirty = false
}

// Render draws the chunk. The server build has no renderer attached, so
// there is nothing to emit; the hook mirrors Logic for embedders that do.
func (c *Chunk) Render() {}

// ExposedFaces reports the cached face count; call Logic first to refresh.
func (c *Chunk) ExposedFaces() int {
	return c.exposedFaces
}

func (c *Chunk) countExposedFaces() int {
	faces := 0
	for lz := 0; lz < size; lz++ {
		for ly := 0; ly < size; ly++ {
			for lx := 0; lx < size; lx++ {
				if !c.blocks[idx(lx, ly, lz)].IsSolid() {
					continue
				}
				for _, d := range [6][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}} {
					if !c.blockAt(lx+d[0], ly+d[1], lz+d[2]).IsSolid() {
						faces++
					}
				}
			}
		}
	}
	return faces
}

// blockAt reads a block by local coordinates, falling through to the world
// for lookups that cross the chunk boundary.
func (c *Chunk) blockAt(lx, ly, lz int) block.Block {
	if lx >= 0 && lx < size && ly >= 0 && ly < size && lz >= 0 && lz < size {
		return c.blocks[idx(lx, ly, lz)]
	}
	return c.world.GetBlock(c.pos.X*size+lx, c.pos.Y*size+ly, c.pos.Z*size+lz)
}

func (c *Chunk) bounds() geom.AABB {
	origin := geom.Vec3{
		X: float64(c.pos.X * size),
		Y: float64(c.pos.Y * size),
		Z: float64(c.pos.Z * size),
	}
	return geom.AABB{Min: origin, Max: origin.Add(geom.Vec3{X: size, Y: size, Z: size})}
}

// Intersects reports whether the world-space box overlaps any solid block.
func (c *Chunk) Intersects(box geom.AABB) bool {
	if !c.bounds().Touch(box) {
		return false
	}
	origin := c.bounds().Min
	for lz := 0; lz < size; lz++ {
		for ly := 0; ly < size; ly++ {
			for lx := 0; lx < size; lx++ {
				if !c.blocks[idx(lx, ly, lz)].IsSolid() {
					continue
				}
				min := origin.Add(geom.Vec3{X: float64(lx), Y: float64(ly), Z: float64(lz)})
				if box.Touch(geom.AABB{Min: min, Max: min.Add(geom.Vec3{X: 1, Y: 1, Z: 1})}) {
					return true
				}
			}
		}
	}
	return false
}

// IntersectsRay reports the nearest solid block the world-space ray hits,
// as a distance along the ray, the block's local coordinates, and the face
// entered through.
func (c *Chunk) IntersectsRay(origin, dir geom.Vec3) (float64, geom.Vec3, geom.Side, bool) {
	local := origin.Sub(c.bounds().Min)
	chunkBox := geom.AABB{Max: geom.Vec3{X: size, Y: size, Z: size}}
	if _, _, ok := geom.RayAABB(local, dir, chunkBox); !ok {
		return 0, geom.Vec3{}, geom.SideNone, false
	}

	best := -1.0
	var bestPos geom.Vec3
	var bestSide geom.Side
	for lz := 0; lz < size; lz++ {
		for ly := 0; ly < size; ly++ {
			for lx := 0; lx < size; lx++ {
				if !c.blocks[idx(lx, ly, lz)].IsSolid() {
					continue
				}
				min := geom.Vec3{X: float64(lx), Y: float64(ly), Z: float64(lz)}
				box := geom.AABB{Min: min, Max: min.Add(geom.Vec3{X: 1, Y: 1, Z: 1})}
				dist, side, ok := geom.RayAABB(local, dir, box)
				if !ok {
					continue
				}
				if best < 0 || dist < best {
					best = dist
					bestPos = min
					bestSide = side
				}
			}
		}
	}
	if best < 0 {
		return 0, geom.Vec3{}, geom.SideNone, false
	}
	return best, bestPos, bestSide, true
}

// Save writes the raw block array, little-endian.
func (c *Chunk) Save(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, &c.blocks); err != nil {
		return fmt.Errorf("chunk blocks: %w", err)
	}
	return nil
}

// Load is the exact inverse of Save. The chunk comes back dirty so the
// face count rebuilds on the next Logic pass.
func (c *Chunk) Load(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &c.blocks); err != nil {
		return fmt.Errorf("chunk blocks: %w", err)
	}
	c.dirty = true
	return nil
}
