// Package block defines the block value type shared by the world core and
// chunk storage. A Block carries a palette id plus a small metadata field
// (orientation, growth stage and the like) in the high bits.
package block

// Block packs a palette id (low 10 bits) with 6 bits of metadata.
type Block uint16

const (
	Air Block = iota
	Stone
	Dirt
	Grass
	Sand
	Gravel
	Log
	Leaves
	CoalOre
	IronOre
)

const idMask = 0x03ff

func WithData(id Block, data uint8) Block {
	return (id & idMask) | Block(data)<<10
}

func (b Block) ID() Block {
	return b & idMask
}

func (b Block) Data() uint8 {
	return uint8(b >> 10)
}

func (b Block) IsAir() bool {
	return b.ID() == Air
}

// IsSolid reports whether the block occupies its cell for collision and
// picking purposes.
func (b Block) IsSolid() bool {
	return !b.IsAir()
}

var names = map[Block]string{
	Air:     "AIR",
	Stone:   "STONE",
	Dirt:    "DIRT",
	Grass:   "GRASS",
	Sand:    "SAND",
	Gravel:  "GRAVEL",
	Log:     "LOG",
	Leaves:  "LEAVES",
	CoalOre: "COAL_ORE",
	IronOre: "IRON_ORE",
}

func (b Block) String() string {
	if n, ok := names[b.ID()]; ok {
		return n
	}
	return "UNKNOWN"
}
