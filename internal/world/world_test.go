package world

import (
	"encoding/binary"
	"fmt"
	"io"

	"voxelforge/internal/block"
	"voxelforge/internal/geom"
)

// stubChunk implements the Chunk contract with observable behavior so the
// core can be tested without real voxel storage.
type stubChunk struct {
	w   *World
	pos ChunkPos

	blocks map[[3]int]block.Block

	generated   bool
	dirtyCalls  int
	setCalls    int
	changeCalls int
	logicCalls  int
	renderCalls int

	// Scripted ray response.
	rayHit   bool
	rayDist  float64
	rayLocal geom.Vec3
	raySide  geom.Side

	boxHit bool

	// Fixed-size payload standing in for the chunk's serialized form.
	payload [8]byte
}

func (c *stubChunk) Pos() ChunkPos { return c.pos }

func (c *stubChunk) GetLocalBlock(lx, ly, lz int) block.Block {
	return c.blocks[[3]int{lx, ly, lz}]
}

func (c *stubChunk) SetLocalBlock(lx, ly, lz int, b block.Block) {
	c.setCalls++
	c.blocks[[3]int{lx, ly, lz}] = b
}

func (c *stubChunk) ChangeLocalBlock(lx, ly, lz int, b block.Block) {
	c.changeCalls++
	c.blocks[[3]int{lx, ly, lz}] = b
}

func (c *stubChunk) Generate() { c.generated = true }
func (c *stubChunk) SetDirty() { c.dirtyCalls++ }
func (c *stubChunk) Logic()    { c.logicCalls++ }
func (c *stubChunk) Render()   { c.renderCalls++ }

func (c *stubChunk) Intersects(box geom.AABB) bool { return c.boxHit }

func (c *stubChunk) IntersectsRay(origin, dir geom.Vec3) (float64, geom.Vec3, geom.Side, bool) {
	return c.rayDist, c.rayLocal, c.raySide, c.rayHit
}

func (c *stubChunk) Save(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, c.payload)
}

func (c *stubChunk) Load(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &c.payload); err != nil {
		return fmt.Errorf("stub payload: %w", err)
	}
	return nil
}

// stubFactory tracks every chunk it creates.
type stubFactory struct {
	made map[ChunkPos]*stubChunk
	seq  []ChunkPos
}

func newStubFactory() *stubFactory {
	return &stubFactory{made: make(map[ChunkPos]*stubChunk)}
}

func (f *stubFactory) new(w *World, pos ChunkPos) Chunk {
	c := &stubChunk{w: w, pos: pos, blocks: make(map[[3]int]block.Block)}
	f.made[pos] = c
	f.seq = append(f.seq, pos)
	return c
}

func newTestWorld() (*World, *stubFactory) {
	f := newStubFactory()
	w := New(f.new)
	return w, f
}
