package pfx

import (
	"math/bits"
)

// Bitmask is a 64-bit set used for tracking which traits an object carries.
// It supports up to 64 unique trait types.
type Bitmask uint64

// Set sets the bit for the given trait.
func (m *Bitmask) Set(id TraitID) {
	*m |= 1 << id
}

// Clear clears the bit for the given trait.
func (m *Bitmask) Clear(id TraitID) {
	*m &^= 1 << id
}

// Has returns true if the bit for the given trait is set.
func (m Bitmask) Has(id TraitID) bool {
	return m&(1<<id) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
// This is used to check if all required traits are present.
func (m Bitmask) ContainsAll(other Bitmask) bool {
	return m&other == other
}

// ContainsAny returns true if any bit set in other is also set in m.
// This is used to check if any excluded traits are present.
func (m Bitmask) ContainsAny(other Bitmask) bool {
	return m&other != 0
}

// IsZero returns true if no bits are set.
func (m Bitmask) IsZero() bool {
	return m == 0
}

// Count returns the number of bits set.
func (m Bitmask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// IDs returns the trait IDs whose bits are set, in ascending order.
func (m Bitmask) IDs() []TraitID {
	ids := make([]TraitID, 0, m.Count())
	for rest := uint64(m); rest != 0; rest &= rest - 1 {
		ids = append(ids, TraitID(bits.TrailingZeros64(rest)))
	}
	return ids
}
