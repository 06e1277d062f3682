package pfx

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx/shape"
)

// ParticleKind identifies which particle a definition spawns.
type ParticleKind uint8

const (
	ParticleFlame ParticleKind = iota + 1
	ParticleLava
	ParticleHugeExplosion
	ParticleEndermanTeleport
	ParticleSnowballPoof
	ParticleEggSmash
	ParticleWaterDrip
	ParticleLavaDrip
	ParticleEvaporate
	ParticleBoneMeal
	ParticleEntityFlame
	ParticleNote
	ParticleDust
	ParticleSplash
	ParticleEffect

	particleKindEnd
)

var particleKindNames = [...]string{
	ParticleFlame:            "flame",
	ParticleLava:             "lava",
	ParticleHugeExplosion:    "huge_explosion",
	ParticleEndermanTeleport: "enderman_teleport",
	ParticleSnowballPoof:     "snowball_poof",
	ParticleEggSmash:         "egg_smash",
	ParticleWaterDrip:        "water_drip",
	ParticleLavaDrip:         "lava_drip",
	ParticleEvaporate:        "evaporate",
	ParticleBoneMeal:         "bone_meal",
	ParticleEntityFlame:      "entity_flame",
	ParticleNote:             "note",
	ParticleDust:             "dust",
	ParticleSplash:           "splash",
	ParticleEffect:           "effect",
}

// Valid reports whether k is a known particle kind.
func (k ParticleKind) Valid() bool {
	return k > 0 && k < particleKindEnd
}

// HasParameter reports whether particles of this kind accept a parameter.
// For ParticleNote the parameter is the pitch; for Flame, Dust, Splash and
// Effect it is a hue in degrees.
func (k ParticleKind) HasParameter() bool {
	switch k {
	case ParticleNote, ParticleFlame, ParticleDust, ParticleSplash, ParticleEffect:
		return true
	default:
		return false
	}
}

// String returns the snake_case name of the kind.
func (k ParticleKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ParticleKind(%d)", uint8(k))
	}
	return particleKindNames[k]
}

// ParseParticleKind returns the kind whose String() is name.
func ParseParticleKind(name string) (ParticleKind, error) {
	for k := ParticleFlame; k < particleKindEnd; k++ {
		if particleKindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown particle kind %q", ErrInvalidArgument, name)
}

// ParticleDefinition describes the particles an object emits.
// Definitions are values: every With method returns a validated copy and
// leaves the receiver untouched. The zero value is not a valid definition;
// use NewParticle.
type ParticleDefinition struct {
	kind      ParticleKind
	amount    int
	spread    mgl64.Vec3
	parameter float64
}

// NewParticle returns a definition of one particle of the given kind with no
// spread and no parameter.
func NewParticle(kind ParticleKind) (ParticleDefinition, error) {
	if !kind.Valid() {
		return ParticleDefinition{}, fmt.Errorf("%w: unknown particle kind %v", ErrInvalidArgument, kind)
	}
	return ParticleDefinition{kind: kind, amount: 1}, nil
}

// Kind returns the particle kind.
func (d ParticleDefinition) Kind() ParticleKind { return d.kind }

// Amount returns how many particles are spawned each time the definition renders.
func (d ParticleDefinition) Amount() int { return d.amount }

// Spread returns how far from the object position particles may appear on
// each axis. A spread of 2 on X places particles up to 2 blocks either side.
func (d ParticleDefinition) Spread() mgl64.Vec3 { return d.spread }

// Parameter returns the kind-specific customisation value.
func (d ParticleDefinition) Parameter() float64 { return d.parameter }

// WithKind returns a copy with another kind. It fails if the definition
// carries a parameter the new kind does not support.
func (d ParticleDefinition) WithKind(kind ParticleKind) (ParticleDefinition, error) {
	if !kind.Valid() {
		return d, fmt.Errorf("%w: unknown particle kind %v", ErrInvalidArgument, kind)
	}
	if d.parameter != 0 && !kind.HasParameter() {
		return d, fmt.Errorf("%w: particle kind %v does not support parameter %v", ErrInvalidArgument, kind, d.parameter)
	}
	d.kind = kind
	return d, nil
}

// WithAmount returns a copy spawning n particles. n must be > 0.
func (d ParticleDefinition) WithAmount(n int) (ParticleDefinition, error) {
	if n <= 0 {
		return d, fmt.Errorf("%w: amount must be > 0, got %d", ErrInvalidArgument, n)
	}
	d.amount = n
	return d, nil
}

// WithSpread returns a copy with the given spread. Components must be finite.
func (d ParticleDefinition) WithSpread(spread mgl64.Vec3) (ParticleDefinition, error) {
	if !shape.Finite(spread) {
		return d, fmt.Errorf("%w: spread must be finite, got %v", ErrInvalidArgument, spread)
	}
	d.spread = spread
	return d, nil
}

// WithParameter returns a copy with the given parameter. The kind must
// support a parameter and p must be a finite value >= 0.
func (d ParticleDefinition) WithParameter(p float64) (ParticleDefinition, error) {
	if !d.kind.HasParameter() {
		return d, fmt.Errorf("%w: cannot use parameter with non-parameter particle kind %v", ErrInvalidArgument, d.kind)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return d, fmt.Errorf("%w: parameter must be >= 0, got %v", ErrInvalidArgument, p)
	}
	d.parameter = p
	return d, nil
}

// Validate checks every field of the definition.
func (d ParticleDefinition) Validate() error {
	switch {
	case !d.kind.Valid():
		return fmt.Errorf("%w: unknown particle kind %v", ErrInvalidArgument, d.kind)
	case d.amount <= 0:
		return fmt.Errorf("%w: amount must be > 0, got %d", ErrInvalidArgument, d.amount)
	case !shape.Finite(d.spread):
		return fmt.Errorf("%w: spread must be finite, got %v", ErrInvalidArgument, d.spread)
	case d.parameter != 0 && !d.kind.HasParameter():
		return fmt.Errorf("%w: particle kind %v does not support parameter %v", ErrInvalidArgument, d.kind, d.parameter)
	case math.IsNaN(d.parameter) || math.IsInf(d.parameter, 0) || d.parameter < 0:
		return fmt.Errorf("%w: parameter must be >= 0, got %v", ErrInvalidArgument, d.parameter)
	}
	return nil
}

func (d ParticleDefinition) String() string {
	return fmt.Sprintf("ParticleDefinition{Kind: %v, Amount: %d, Spread: %v, Parameter: %v}", d.kind, d.amount, d.spread, d.parameter)
}
