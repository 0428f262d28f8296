// Package voxel implements the chunk pipeline's data model: block and
// chunk types, procedural generation, on-disk delta serialization, the
// two-stage lighting algorithm, and sub-chunk meshing.
package voxel

// BlockID identifies a block type. The engine is fixed to a one-byte
// logical id space (values 0-28 currently defined) stored in a two-byte
// field to leave room for future ids without changing the wire format.
type BlockID uint16

const (
	Air BlockID = iota
	Grass
	Sand
	Dirt
	Stone
	GreenConcrete
	Bedrock
	OakLog
	OakLeaves
	OakPlanks
	GlowStone
	CobbleStone
	SpruceLog
	SprucePlanks
	Glass
	SeaLantern
	BirchLog
	BlueStainedGlass
	Water
	BirchPlanks
	DiamondBlock
	Obsidian
	CryingObsidian
	DarkOakLog
	DarkOakPlanks
	JungleLog
	JunglePlanks
	AcaciaLog
	AcaciaPlanks
	blockIDCount
)

// Block is the single piece of per-voxel state this engine stores: a
// two-byte id. Everything else (solidity, transparency, texture ids,
// light emission) lives out of band in the static BlockInfo table indexed
// by id, so a voxel itself never carries more than one logical field.
type Block struct {
	ID BlockID
}

// BlockFlags are the static per-type properties looked up from BlockInfo.
type BlockFlags uint32

const (
	FlagSolid BlockFlags = 1 << iota
	FlagTransparent
	FlagBiomeTintTop
	FlagBiomeTintSide
	FlagBiomeTintBottom
	FlagLightSource
)

// Face identifies a side of a block for texture lookup and mesh emission.
type Face uint8

const (
	FaceTop Face = iota
	FaceBottom
	FaceLeft
	FaceRight
	FaceFront
	FaceBack
	FaceCount
)

// FaceNormal returns the unit direction a face points, in (x, y, z) block
// offsets.
func FaceNormal(f Face) (int, int, int) {
	switch f {
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	case FaceLeft:
		return -1, 0, 0
	case FaceRight:
		return 1, 0, 0
	case FaceFront:
		return 0, 0, 1
	case FaceBack:
		return 0, 0, -1
	default:
		return 0, 0, 0
	}
}

// BlockInfo is the static, read-only description of one block type.
type BlockInfo struct {
	Name            string
	TopTextureID    uint16
	SideTextureID   uint16
	BottomTextureID uint16
	Flags           BlockFlags
	LightEmission   uint8 // 0-15; only meaningful when FlagLightSource is set
}

// blockInfos is indexed by BlockID. Texture ids are placeholders for the
// atlas the host application owns (spec.md treats the texture atlas as an
// external black box); only the numeric id crosses the boundary.
var blockInfos = [blockIDCount]BlockInfo{
	Air:              {Name: "air", Flags: FlagTransparent},
	Grass:            {Name: "grass", TopTextureID: 1, SideTextureID: 2, BottomTextureID: 3, Flags: FlagSolid | FlagBiomeTintTop},
	Sand:             {Name: "sand", TopTextureID: 4, SideTextureID: 4, BottomTextureID: 4, Flags: FlagSolid},
	Dirt:             {Name: "dirt", TopTextureID: 3, SideTextureID: 3, BottomTextureID: 3, Flags: FlagSolid},
	Stone:            {Name: "stone", TopTextureID: 5, SideTextureID: 5, BottomTextureID: 5, Flags: FlagSolid},
	GreenConcrete:    {Name: "green_concrete", TopTextureID: 6, SideTextureID: 6, BottomTextureID: 6, Flags: FlagSolid},
	Bedrock:          {Name: "bedrock", TopTextureID: 7, SideTextureID: 7, BottomTextureID: 7, Flags: FlagSolid},
	OakLog:           {Name: "oak_log", TopTextureID: 8, SideTextureID: 9, BottomTextureID: 8, Flags: FlagSolid},
	OakLeaves:        {Name: "oak_leaves", TopTextureID: 10, SideTextureID: 10, BottomTextureID: 10, Flags: FlagSolid | FlagTransparent | FlagBiomeTintTop | FlagBiomeTintSide | FlagBiomeTintBottom},
	OakPlanks:        {Name: "oak_planks", TopTextureID: 11, SideTextureID: 11, BottomTextureID: 11, Flags: FlagSolid},
	GlowStone:        {Name: "glow_stone", TopTextureID: 12, SideTextureID: 12, BottomTextureID: 12, Flags: FlagSolid | FlagLightSource, LightEmission: 15},
	CobbleStone:      {Name: "cobble_stone", TopTextureID: 13, SideTextureID: 13, BottomTextureID: 13, Flags: FlagSolid},
	SpruceLog:        {Name: "spruce_log", TopTextureID: 14, SideTextureID: 15, BottomTextureID: 14, Flags: FlagSolid},
	SprucePlanks:     {Name: "spruce_planks", TopTextureID: 16, SideTextureID: 16, BottomTextureID: 16, Flags: FlagSolid},
	Glass:            {Name: "glass", TopTextureID: 17, SideTextureID: 17, BottomTextureID: 17, Flags: FlagSolid | FlagTransparent},
	SeaLantern:       {Name: "sea_lantern", TopTextureID: 18, SideTextureID: 18, BottomTextureID: 18, Flags: FlagSolid | FlagLightSource, LightEmission: 15},
	BirchLog:         {Name: "birch_log", TopTextureID: 19, SideTextureID: 20, BottomTextureID: 19, Flags: FlagSolid},
	BlueStainedGlass: {Name: "blue_stained_glass", TopTextureID: 21, SideTextureID: 21, BottomTextureID: 21, Flags: FlagSolid | FlagTransparent},
	Water:            {Name: "water", TopTextureID: 22, SideTextureID: 22, BottomTextureID: 22, Flags: FlagTransparent},
	BirchPlanks:      {Name: "birch_planks", TopTextureID: 23, SideTextureID: 23, BottomTextureID: 23, Flags: FlagSolid},
	DiamondBlock:     {Name: "diamond_block", TopTextureID: 24, SideTextureID: 24, BottomTextureID: 24, Flags: FlagSolid},
	Obsidian:         {Name: "obsidian", TopTextureID: 25, SideTextureID: 25, BottomTextureID: 25, Flags: FlagSolid},
	CryingObsidian:   {Name: "crying_obsidian", TopTextureID: 26, SideTextureID: 26, BottomTextureID: 26, Flags: FlagSolid | FlagLightSource, LightEmission: 10},
	DarkOakLog:       {Name: "dark_oak_log", TopTextureID: 27, SideTextureID: 28, BottomTextureID: 27, Flags: FlagSolid},
	DarkOakPlanks:    {Name: "dark_oak_planks", TopTextureID: 29, SideTextureID: 29, BottomTextureID: 29, Flags: FlagSolid},
	JungleLog:        {Name: "jungle_log", TopTextureID: 30, SideTextureID: 31, BottomTextureID: 30, Flags: FlagSolid},
	JunglePlanks:     {Name: "jungle_planks", TopTextureID: 32, SideTextureID: 32, BottomTextureID: 32, Flags: FlagSolid},
	AcaciaLog:        {Name: "acacia_log", TopTextureID: 33, SideTextureID: 34, BottomTextureID: 33, Flags: FlagSolid},
	AcaciaPlanks:     {Name: "acacia_planks", TopTextureID: 35, SideTextureID: 35, BottomTextureID: 35, Flags: FlagSolid},
}

// Info returns the static properties for id. Unknown ids fall back to
// Air's entry (transparent, non-solid) rather than panicking, so a
// corrupt delta record degrades a single block instead of the chunk.
func Info(id BlockID) BlockInfo {
	if id >= blockIDCount {
		return blockInfos[Air]
	}
	return blockInfos[id]
}

func IsSolid(id BlockID) bool       { return Info(id).Flags&FlagSolid != 0 }
func IsTransparent(id BlockID) bool { return Info(id).Flags&FlagTransparent != 0 }
func IsLightSource(id BlockID) bool { return Info(id).Flags&FlagLightSource != 0 }

// TextureAtlasSize is the number of distinct atlas texture slots any
// block's Top/Side/BottomTextureID can reference — one more than the
// highest id assigned above. The renderer sizes its texel-buffer UV rect
// table to this many entries (mirroring the original engine's packed
// texture count generated by its texture packer).
const TextureAtlasSize = 36

// TextureID returns the atlas texture id for the given block/face pair.
func TextureID(id BlockID, face Face) uint16 {
	info := Info(id)
	switch face {
	case FaceTop:
		return info.TopTextureID
	case FaceBottom:
		return info.BottomTextureID
	default:
		return info.SideTextureID
	}
}
