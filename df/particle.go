package df

import (
	"fmt"
	"image/color"
	"math"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/df-mc/dragonfly/server/world/sound"
	"github.com/oriumgames/pfx"
)

// maxNotePitch is the highest pitch a note block particle shows.
const maxNotePitch = 24

// Particle returns the Dragonfly particle for a definition.
// For Note the parameter is the pitch (0-24); for Flame, Dust, Splash and
// Effect it is a hue in degrees that colours the particle.
func Particle(def pfx.ParticleDefinition) (world.Particle, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	hue := Hue(def.Parameter())
	switch def.Kind() {
	case pfx.ParticleFlame:
		return particle.Flame{Colour: hue}, nil
	case pfx.ParticleLava:
		return particle.Lava{}, nil
	case pfx.ParticleHugeExplosion:
		return particle.HugeExplosion{}, nil
	case pfx.ParticleEndermanTeleport:
		return particle.EndermanTeleport{}, nil
	case pfx.ParticleSnowballPoof:
		return particle.SnowballPoof{}, nil
	case pfx.ParticleEggSmash:
		return particle.EggSmash{}, nil
	case pfx.ParticleWaterDrip:
		return particle.WaterDrip{}, nil
	case pfx.ParticleLavaDrip:
		return particle.LavaDrip{}, nil
	case pfx.ParticleEvaporate:
		return particle.Evaporate{}, nil
	case pfx.ParticleBoneMeal:
		return particle.BoneMeal{}, nil
	case pfx.ParticleEntityFlame:
		return particle.EntityFlame{}, nil
	case pfx.ParticleNote:
		return particle.Note{Instrument: sound.Piano(), Pitch: NotePitch(def.Parameter())}, nil
	case pfx.ParticleDust:
		return particle.Dust{Colour: hue}, nil
	case pfx.ParticleSplash:
		return particle.Splash{Colour: hue}, nil
	case pfx.ParticleEffect:
		return particle.Effect{Colour: hue}, nil
	}
	return nil, fmt.Errorf("%w: no dragonfly particle for kind %v", pfx.ErrInvalidArgument, def.Kind())
}

// NotePitch rounds a parameter to a note pitch in the range 0-24.
func NotePitch(parameter float64) int {
	return int(math.Round(math.Min(math.Max(parameter, 0), maxNotePitch)))
}

// Hue returns the fully saturated, fully bright colour of a hue in degrees.
// A hue of 0 is red; hues wrap every 360 degrees.
func Hue(degrees float64) color.RGBA {
	h := math.Mod(degrees, 360)
	if h < 0 {
		h += 360
	}
	sector := h / 60
	x := 1 - math.Abs(math.Mod(sector, 2)-1)

	var r, g, b float64
	switch int(sector) {
	case 0:
		r, g, b = 1, x, 0
	case 1:
		r, g, b = x, 1, 0
	case 2:
		r, g, b = 0, 1, x
	case 3:
		r, g, b = 0, x, 1
	case 4:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 0xff))
}
