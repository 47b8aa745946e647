// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// ComponentMask is a bitmask marking which components of a Transform carry a value.
// Clip sources may animate any subset of translation/rotation/scale per bone;
// components without their bit set are "do not touch" during blending and write-back.
type ComponentMask uint8

const (
	// HasTranslation marks the Translation component as present.
	HasTranslation ComponentMask = 1 << iota

	// HasRotation marks the Rotation component as present.
	HasRotation

	// HasScale marks the Scale component as present.
	HasScale

	// HasAll marks all three components as present.
	HasAll = HasTranslation | HasRotation | HasScale
)

// Has reports whether every bit in c is set in m.
func (m ComponentMask) Has(c ComponentMask) bool {
	return m&c == c
}

// Transform represents a decomposed bone transform for animation blending.
// Components is the presence mask; absent components must be ignored by
// consumers rather than treated as zero.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32

	// Components marks which of the three components carry a value.
	Components ComponentMask
}

// NewTransform returns a Transform with all three components present.
//
// Parameters:
//   - translation: the position offset
//   - rotation: the orientation quaternion (x, y, z, w)
//   - scale: the scale factor along each axis
//
// Returns:
//   - Transform: a fully-populated transform
func NewTransform(translation [3]float32, rotation [4]float32, scale [3]float32) Transform {
	return Transform{
		Translation: translation,
		Rotation:    rotation,
		Scale:       scale,
		Components:  HasAll,
	}
}

// IdentityTransform returns a fully-populated neutral transform: zero
// translation, identity rotation, and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation:   [4]float32{0, 0, 0, 1},
		Scale:      [3]float32{1, 1, 1},
		Components: HasAll,
	}
}

// ValueKind is the explicit type tag of a parameter Value.
type ValueKind uint8

const (
	// KindNumber is a float64-backed numeric value.
	KindNumber ValueKind = iota

	// KindString is a string value.
	KindString

	// KindBool is a boolean value.
	KindBool
)

// Value is a tagged union holding one parameter value of kind number, string,
// or boolean. The zero Value is the number 0. A parameter retains whatever
// kind was last assigned; there is no cross-kind coercion.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	b    bool
}

// Number wraps a float64 as a Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// String wraps a string as a Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool wraps a bool as a Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the type tag of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Num returns the numeric payload. Only meaningful when Kind is KindNumber.
func (v Value) Num() float64 {
	return v.num
}

// Str returns the string payload. Only meaningful when Kind is KindString.
func (v Value) Str() string {
	return v.str
}

// B returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) B() bool {
	return v.b
}

// Equal reports whether two values have the same kind and payload.
//
// Parameters:
//   - other: the value to compare against
//
// Returns:
//   - bool: true when kind and payload match exactly
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	}
	return false
}
