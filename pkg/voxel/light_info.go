package voxel

// BlockLight packs a block's sky-light and emissive-light levels into one
// byte: low nibble is sky light, high nibble is source (emissive) light.
// Both run 0-15.
type BlockLight uint8

const maxLightLevel = 15

func (l BlockLight) SkyLight() uint8    { return uint8(l) & 0x0F }
func (l BlockLight) SourceLight() uint8 { return uint8(l) >> 4 }

func (l *BlockLight) SetSkyLight(v uint8) {
	if v > maxLightLevel {
		v = maxLightLevel
	}
	*l = BlockLight((uint8(*l) &^ 0x0F) | v)
}

func (l *BlockLight) SetSourceLight(v uint8) {
	if v > maxLightLevel {
		v = maxLightLevel
	}
	*l = BlockLight((uint8(*l) &^ 0xF0) | (v << 4))
}

// ResolvedSkyLight applies the day/night sky-light-level clamp: the world's
// ambient sky light level (0-15, 15 at full daylight) discounts the stored
// per-column sky light so that night time doesn't fully light every
// outdoor block.
func ResolvedSkyLight(l BlockLight, worldSkyLightLevel uint8) uint8 {
	factor := int(worldSkyLightLevel) - maxLightLevel
	level := int(l.SkyLight()) + factor
	if level < 1 {
		level = 1
	}
	return uint8(level)
}

// ResolvedLight returns the brighter of the resolved sky light and the
// stored source light — the value a mesher/renderer should treat as the
// block's effective brightness.
func ResolvedLight(l BlockLight, worldSkyLightLevel uint8) uint8 {
	sky := ResolvedSkyLight(l, worldSkyLightLevel)
	src := l.SourceLight()
	if src > sky {
		return src
	}
	return sky
}
