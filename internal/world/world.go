// Package world is the orchestration core of the voxel world: it owns the
// chunk registry, decides which chunks are visible around the viewer,
// queues edits addressed to chunks that do not exist yet, persists the
// whole world to a binary stream and resolves cross-chunk ray picks.
//
// Everything here is single-threaded by contract: callers needing
// concurrency must serialize access themselves.
package world

import (
	"io"
	"math/rand"

	"voxelforge/internal/block"
	"voxelforge/internal/geom"
	"voxelforge/internal/terrain"
)

const (
	// ChunkSize is the cubic edge length of a chunk in blocks. The bit
	// split in ChunkCoord/LocalCoord requires a power of two.
	ChunkSize  = 8
	chunkShift = 3
	chunkMask  = ChunkSize - 1

	// Height bounds the world vertically, in chunk layers. Horizontal
	// extent is unbounded.
	Height = 5

	DefaultFieldOfView = 3
)

// ChunkPos is an integer chunk coordinate triple.
type ChunkPos struct {
	X, Y, Z int
}

// Chunk is the contract the world consumes. The concrete voxel storage,
// generation and meshing live behind it.
type Chunk interface {
	Pos() ChunkPos
	GetLocalBlock(lx, ly, lz int) block.Block
	SetLocalBlock(lx, ly, lz int, b block.Block)
	ChangeLocalBlock(lx, ly, lz int, b block.Block)
	Generate()
	SetDirty()
	Intersects(box geom.AABB) bool
	IntersectsRay(origin, dir geom.Vec3) (dist float64, local geom.Vec3, side geom.Side, ok bool)
	Save(w io.Writer) error
	Load(r io.Reader) error
	Logic()
	Render()
}

// ChunkFactory constructs an empty, ungenerated chunk bound to w.
type ChunkFactory func(w *World, pos ChunkPos) Chunk

// Interactor receives picked-block actions. It reports whether the action
// was handled.
type Interactor interface {
	BlockAction(b block.Block, lx, ly, lz int, c Chunk) bool
}

// BlockChange is an edit addressed to a chunk that does not exist yet.
// The field layout is part of the save format.
type BlockChange struct {
	ChunkX, ChunkY, ChunkZ int32
	LocalX, LocalY, LocalZ int32
	Block                  block.Block
}

type World struct {
	seed  uint32
	noise *terrain.Noise

	newChunk   ChunkFactory
	interactor Interactor

	chunks  map[ChunkPos]Chunk // registry; owns every generated chunk
	order   []Chunk            // insertion order, drives save iteration
	visible []Chunk            // recomputed wholesale on viewer movement

	pending []BlockChange

	fieldOfView int32
	center      ChunkPos
	loaded      bool
}

func New(newChunk ChunkFactory) *World {
	w := &World{
		noise:       terrain.New(0),
		newChunk:    newChunk,
		chunks:      make(map[ChunkPos]Chunk),
		fieldOfView: DefaultFieldOfView,
	}
	w.GenerateSeed()
	return w
}

// GenerateSeed replaces the seed with a fresh random one and reseeds the
// noise generator.
func (w *World) GenerateSeed() {
	w.Reseed(rand.Uint32())
}

func (w *World) Reseed(seed uint32) {
	w.seed = seed
	w.noise.SetSeed(seed)
}

func (w *World) Seed() uint32 {
	return w.seed
}

func (w *World) Noise() *terrain.Noise {
	return w.noise
}

func (w *World) FieldOfView() int {
	return int(w.fieldOfView)
}

func (w *World) SetFieldOfView(fov int) {
	if fov < 1 {
		fov = 1
	}
	w.fieldOfView = int32(fov)
}

func (w *World) SetInteractor(i Interactor) {
	w.interactor = i
}

// FindChunk returns the chunk at pos, or nil. It never allocates.
func (w *World) FindChunk(pos ChunkPos) Chunk {
	return w.chunks[pos]
}

func (w *World) ChunkCount() int {
	return len(w.order)
}

func (w *World) VisibleChunks() []Chunk {
	return w.visible
}

func (w *World) PendingChanges() []BlockChange {
	return w.pending
}

// Center reports the last computed viewer chunk and whether a position has
// been set since construction or Clear.
func (w *World) Center() (ChunkPos, bool) {
	return w.center, w.loaded
}

// GetBlock reads a block at global coordinates. Missing chunks read as a
// deterministic placeholder: air at and above the top chunk layer so the
// sky stays open, stone everywhere else to fake ungenerated terrain.
func (w *World) GetBlock(x, y, z int) block.Block {
	pos := ChunkPos{ChunkCoord(x), ChunkCoord(y), ChunkCoord(z)}
	c := w.FindChunk(pos)
	if c == nil {
		if pos.Y >= Height {
			return block.Air
		}
		return block.Stone
	}
	return c.GetLocalBlock(LocalCoord(x), LocalCoord(y), LocalCoord(z))
}

// SetBlock writes a block without triggering chunk-local side effects.
// Writes to ungenerated chunks are queued, never dropped.
func (w *World) SetBlock(x, y, z int, b block.Block) {
	w.routeWrite(x, y, z, b, false)
}

// ChangeBlock writes a block and lets the chunk run its side effects
// (dirty marking, remeshing). Queued identically to SetBlock when the
// chunk does not exist.
func (w *World) ChangeBlock(x, y, z int, b block.Block) {
	w.routeWrite(x, y, z, b, true)
}

func (w *World) routeWrite(x, y, z int, b block.Block, change bool) {
	pos := ChunkPos{ChunkCoord(x), ChunkCoord(y), ChunkCoord(z)}
	lx, ly, lz := LocalCoord(x), LocalCoord(y), LocalCoord(z)

	c := w.FindChunk(pos)
	if c == nil {
		w.pending = append(w.pending, BlockChange{
			ChunkX: int32(pos.X), ChunkY: int32(pos.Y), ChunkZ: int32(pos.Z),
			LocalX: int32(lx), LocalY: int32(ly), LocalZ: int32(lz),
			Block: b,
		})
		return
	}
	if change {
		c.ChangeLocalBlock(lx, ly, lz, b)
	} else {
		c.SetLocalBlock(lx, ly, lz, b)
	}
}

// BlockAction routes a picked block to the interaction handler. Actions on
// ungenerated chunks are not handled.
func (w *World) BlockAction(x, y, z int) bool {
	if w.interactor == nil {
		return false
	}
	pos := ChunkPos{ChunkCoord(x), ChunkCoord(y), ChunkCoord(z)}
	c := w.FindChunk(pos)
	if c == nil {
		return false
	}
	lx, ly, lz := LocalCoord(x), LocalCoord(y), LocalCoord(z)
	return w.interactor.BlockAction(c.GetLocalBlock(lx, ly, lz), lx, ly, lz, c)
}

// Intersect reports whether the box overlaps any visible chunk's solid
// content.
func (w *World) Intersect(box geom.AABB) bool {
	for _, c := range w.visible {
		if c.Intersects(box) {
			return true
		}
	}
	return false
}

// Render runs per-frame logic for the visible set, then draws it. Two
// passes so chunk logic sees a consistent world before anything renders.
func (w *World) Render() {
	for _, c := range w.visible {
		c.Logic()
	}
	for _, c := range w.visible {
		c.Render()
	}
}

// Clear destroys every chunk and resets visibility state. The seed and
// pending edits survive; use GenerateSeed for a fresh world.
func (w *World) Clear() {
	w.chunks = make(map[ChunkPos]Chunk)
	w.order = w.order[:0]
	w.visible = w.visible[:0]
	w.loaded = false
}
